package db

import (
	"github.com/QingYi-Studio/tylddb/cmd/util"
	"github.com/QingYi-Studio/tylddb/lib/database"
	"github.com/spf13/cobra"
)

var (
	engine *database.Database

	// DatabaseCommands represents the db command group
	DatabaseCommands = &cobra.Command{
		Use:               "db",
		Short:             "Perform one-shot operations against a database file",
		PersistentPreRunE: setupDatabase,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add subcommands
	DatabaseCommands.AddCommand(getCmd)
	DatabaseCommands.AddCommand(addCmd)
	DatabaseCommands.AddCommand(updateCmd)
	DatabaseCommands.AddCommand(delCmd)
	DatabaseCommands.AddCommand(searchCmd)
	DatabaseCommands.AddCommand(keysCmd)
	DatabaseCommands.AddCommand(typesCmd)
	DatabaseCommands.AddCommand(statsCmd)
	DatabaseCommands.AddCommand(exportCmd)
	DatabaseCommands.AddCommand(perfCmd)
}

// setupDatabase loads the configured file into a fresh engine instance
func setupDatabase(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	logger := util.NewLogger()

	db, err := util.OpenDatabase(logger)
	if err != nil {
		return err
	}

	engine = db
	return nil
}
