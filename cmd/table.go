package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/emrgen/fieldgraph/internal/config"
	"github.com/emrgen/fieldgraph/internal/fieldtype"
	"github.com/emrgen/fieldgraph/internal/service"
	"github.com/emrgen/fieldgraph/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "table commands",
}

func init() {
	rootCmd.AddCommand(tableCmd)
	tableCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	tableCmd.AddCommand(createTableCmd())
	tableCmd.AddCommand(listTablesCmd())
	tableCmd.AddCommand(exportTableCmd())
	tableCmd.AddCommand(importTableCmd())
}

// newFieldService wires a service directly over the configured database.
func newFieldService() *service.FieldService {
	db := config.GetDb(config.LoadConfig())
	return service.NewFieldService(store.NewGormStore(db), fieldtype.Default(), nil)
}

func createTableCmd() *cobra.Command {
	var name string

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a table",
		Example: "fieldgraph table create -n <name>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"name"}) {
				return
			}

			table, err := newFieldService().CreateTable(context.Background(), name)
			if err != nil {
				logrus.Error(err)
				return
			}

			fmt.Printf("created table %s %s\n", table.ID, table.Name)
		},
	}

	command.Flags().StringVarP(&name, "name", "n", "", "table name")
	return command
}

func listTablesCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "list tables",
		Run: func(cmd *cobra.Command, args []string) {
			db := config.GetDb(config.LoadConfig())
			tables, err := store.NewGormStore(db).ListTables(context.Background())
			if err != nil {
				logrus.Error(err)
				return
			}

			for _, table := range tables {
				fmt.Printf("%s  %s\n", table.ID, table.Name)
			}
		},
	}

	return command
}

func exportTableCmd() *cobra.Command {
	var tableID string

	command := &cobra.Command{
		Use:     "export",
		Short:   "export a table schema as json",
		Example: "fieldgraph table export -t <table-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"table-id"}) {
				return
			}

			data, err := newFieldService().ExportTable(context.Background(), tableID)
			if err != nil {
				logrus.Error(err)
				return
			}

			fmt.Println(string(data))
		},
	}

	command.Flags().StringVarP(&tableID, "table-id", "t", "", "table id")
	return command
}

func importTableCmd() *cobra.Command {
	var file string

	command := &cobra.Command{
		Use:     "import",
		Short:   "import a table schema from json",
		Example: "fieldgraph table import -F schema.json",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"file"}) {
				return
			}

			data, err := os.ReadFile(file)
			if err != nil {
				logrus.Error(err)
				return
			}

			table, err := newFieldService().ImportTable(context.Background(), data)
			if err != nil {
				logrus.Error(err)
				return
			}

			fmt.Printf("imported table %s %s\n", table.ID, table.Name)
		},
	}

	command.Flags().StringVarP(&file, "file", "F", "", "schema file")
	return command
}

func checkMissingFlags(cmd *cobra.Command, required []string) bool {
	missing := false
	for _, name := range required {
		if cmd.Flags().Lookup(name).Value.String() == "" {
			logrus.Errorf("missing required flag: --%s", name)
			missing = true
		}
	}
	return missing
}
