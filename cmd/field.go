package cmd

import (
	"context"
	"fmt"

	"github.com/emrgen/fieldgraph/internal/model"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "field commands",
}

func init() {
	rootCmd.AddCommand(fieldCmd)
	fieldCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	fieldCmd.AddCommand(createFieldCmd())
	fieldCmd.AddCommand(renameFieldCmd())
	fieldCmd.AddCommand(trashFieldCmd())
	fieldCmd.AddCommand(restoreFieldCmd())
	fieldCmd.AddCommand(listFieldDepsCmd())
}

func createFieldCmd() *cobra.Command {
	var tableID string
	var name string
	var fieldType string
	var linkTableID string
	var throughName string
	var targetName string
	var formula string
	var references string

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a field",
		Example: "fieldgraph field create -t <table-id> -n <name> --type formula --references '[{\"field_name\":\"price\"}]'",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"table-id", "name"}) {
				return
			}

			field := &model.Field{
				TableID:          tableID,
				Name:             name,
				Type:             fieldType,
				ThroughFieldName: throughName,
				TargetFieldName:  targetName,
				Formula:          formula,
				References:       references,
			}
			if linkTableID != "" {
				field.LinkRowTableID = &linkTableID
			}

			created, err := newFieldService().CreateField(context.Background(), field)
			if err != nil {
				logrus.Error(err)
				return
			}

			fmt.Printf("created field %s %s\n", created.ID, created.Name)
		},
	}

	command.Flags().StringVarP(&tableID, "table-id", "t", "", "table id")
	command.Flags().StringVarP(&name, "name", "n", "", "field name")
	command.Flags().StringVar(&fieldType, "type", model.FieldTypeText, "field type")
	command.Flags().StringVar(&linkTableID, "link-table-id", "", "linked table id for link_row fields")
	command.Flags().StringVar(&throughName, "through", "", "link row field name for lookup fields")
	command.Flags().StringVar(&targetName, "target", "", "target field name for lookup fields")
	command.Flags().StringVar(&formula, "formula", "", "formula text")
	command.Flags().StringVar(&references, "references", "", "formula references as json")
	return command
}

func renameFieldCmd() *cobra.Command {
	var fieldID string
	var name string

	command := &cobra.Command{
		Use:     "rename",
		Short:   "rename a field",
		Example: "fieldgraph field rename -f <field-id> -n <new-name>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"field-id", "name"}) {
				return
			}

			field, err := newFieldService().RenameField(context.Background(), fieldID, name)
			if err != nil {
				logrus.Error(err)
				return
			}

			fmt.Printf("renamed field %s to %s\n", field.ID, field.Name)
		},
	}

	command.Flags().StringVarP(&fieldID, "field-id", "f", "", "field id")
	command.Flags().StringVarP(&name, "name", "n", "", "new field name")
	return command
}

func trashFieldCmd() *cobra.Command {
	var fieldID string

	command := &cobra.Command{
		Use:     "trash",
		Short:   "trash a field, breaking references to it",
		Example: "fieldgraph field trash -f <field-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"field-id"}) {
				return
			}

			if err := newFieldService().TrashField(context.Background(), fieldID); err != nil {
				logrus.Error(err)
				return
			}

			fmt.Printf("trashed field %s\n", fieldID)
		},
	}

	command.Flags().StringVarP(&fieldID, "field-id", "f", "", "field id")
	return command
}

func restoreFieldCmd() *cobra.Command {
	var fieldID string

	command := &cobra.Command{
		Use:     "restore",
		Short:   "restore a trashed field, repairing references to it",
		Example: "fieldgraph field restore -f <field-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"field-id"}) {
				return
			}

			field, err := newFieldService().RestoreField(context.Background(), fieldID)
			if err != nil {
				logrus.Error(err)
				return
			}

			fmt.Printf("restored field %s %s\n", field.ID, field.Name)
		},
	}

	command.Flags().StringVarP(&fieldID, "field-id", "f", "", "field id")
	return command
}

func listFieldDepsCmd() *cobra.Command {
	var fieldID string

	command := &cobra.Command{
		Use:     "deps",
		Short:   "list the dependency edges of a field",
		Example: "fieldgraph field deps -f <field-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"field-id"}) {
				return
			}

			svc := newFieldService()
			deps, err := svc.ListDependencies(context.Background(), fieldID)
			if err != nil {
				logrus.Error(err)
				return
			}
			dependants, err := svc.ListDependants(context.Background(), fieldID)
			if err != nil {
				logrus.Error(err)
				return
			}

			for _, dep := range deps {
				fmt.Printf("depends on  %s\n", formatEdge(dep))
			}
			for _, dep := range dependants {
				fmt.Printf("needed by   %s\n", dep.DependantID)
			}
		},
	}

	command.Flags().StringVarP(&fieldID, "field-id", "f", "", "field id")
	return command
}

func formatEdge(dep *model.FieldDependency) string {
	if dep.Broken() {
		return fmt.Sprintf("broken reference %q", *dep.BrokenReferenceFieldName)
	}
	if dep.ViaID != nil {
		return fmt.Sprintf("%s via %s", *dep.DependencyID, *dep.ViaID)
	}
	return *dep.DependencyID
}
