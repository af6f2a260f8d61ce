package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/emrgen/fieldgraph/internal/config"
	"github.com/emrgen/fieldgraph/internal/fieldtype"
	"github.com/emrgen/fieldgraph/internal/jobs"
	"github.com/emrgen/fieldgraph/internal/queue"
	"github.com/emrgen/fieldgraph/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sweepCmd())
}

// sweepCmd retries broken references against the live fields, publishing
// invalidations for everything it repairs over redis.
func sweepCmd() *cobra.Command {
	var watch bool

	command := &cobra.Command{
		Use:     "sweep",
		Short:   "repair broken references, once or on a schedule",
		Example: "fieldgraph sweep --watch",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.LoadConfig()
			s := store.NewGormStore(config.GetDb(cfg))
			sweep := jobs.NewRepairSweep(s, fieldtype.Default(), queue.NewRedisQueue(cfg.RedisAddr))

			if !watch {
				sweep.Run()
				return
			}

			runner := jobs.NewRunner(nil, []jobs.CronJob{sweep})
			if err := runner.Start(); err != nil {
				logrus.Error(err)
				return
			}
			defer runner.Stop()

			fmt.Printf("sweeping %s, ctrl-c to stop\n", sweep.Schedule())
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
		},
	}

	command.Flags().BoolVarP(&watch, "watch", "w", false, "keep running on the cron schedule")
	return command
}
