package cmd

import (
	"fmt"
	"os"

	"github.com/QingYi-Studio/tylddb/cmd/db"
	"github.com/QingYi-Studio/tylddb/cmd/shell"
	"github.com/QingYi-Studio/tylddb/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "2.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "tylddb",
		Short: "embedded typed key-value database engine",
		Long: fmt.Sprintf(`tylddb (v%s)

An embedded, strongly-typed key-value database engine. Loads sectioned
textual database files into a concurrent in-memory triple store and
answers typed queries against it.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of tylddb",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tylddb v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(db.DatabaseCommands)
	RootCmd.AddCommand(shell.ShellCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "file"
	RootCmd.PersistentFlags().String(key, "", util.WrapString("path to the database file"))
	key = "section"
	RootCmd.PersistentFlags().String(key, "", util.WrapString("section to load (empty loads the whole file as a headerless legacy database)"))
	key = "buffer-size"
	RootCmd.PersistentFlags().Int(key, 0, util.WrapString("read buffer size in bytes (0 selects the default)"))
	key = "capacity"
	RootCmd.PersistentFlags().Int(key, 0, util.WrapString("maximum number of store entries (0 = unbounded)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("log level (debug, info, warn, error)"))
	key = "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use for export (json, gob, binary)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
