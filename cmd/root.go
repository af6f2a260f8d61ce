package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fieldgraph",
	Short: "field dependency graph tool",
	Example: `fieldgraph db migrate
fieldgraph table create -n <name>
fieldgraph field create -t <table-id> -n <name> --type <type>
fieldgraph field rename -f <field-id> -n <new-name>
fieldgraph field trash -f <field-id>
fieldgraph field restore -f <field-id>
fieldgraph field deps -f <field-id>
fieldgraph table import -F schema.json
fieldgraph sweep --watch`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dbCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
