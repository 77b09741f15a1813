package shell

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/QingYi-Studio/tylddb/cmd/util"
	"github.com/QingYi-Studio/tylddb/lib/database"
	"github.com/QingYi-Studio/tylddb/lib/lddb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (

	// ShellCmd represents the interactive console command
	ShellCmd = &cobra.Command{
		Use:   "shell",
		Short: "Interactive console over a database file",
		Long: `Starts an interactive console over the configured database file.

If the file cannot be loaded, the console starts over the built-in
template database instead so the session is still usable.`,
		RunE: runShell,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)
}

func runShell(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	logger := util.NewLogger()

	engine, err := openOrTemplate(logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	fmt.Println("tylddb interactive console (type 'help' for commands)")
	if name, ok := engine.Section(); ok && name != "" {
		fmt.Printf("loaded section %q with %d entries\n", name, engine.Store().Len())
	} else {
		fmt.Printf("loaded %d entries\n", engine.Store().Len())
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}

		if err := dispatch(engine, logger, fields); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

// openOrTemplate loads the configured file, falling back to the built-in
// template when the file cannot be loaded
func openOrTemplate(logger *slog.Logger) (*database.Database, error) {
	engine, err := util.OpenDatabase(logger)
	if err == nil {
		return engine, nil
	}

	logger.Warn("database load failed, falling back to built-in template", "err", err)

	opts := database.DefaultOptions()
	opts.Capacity = viper.GetInt("capacity")
	opts.Logger = logger
	engine = database.New(opts)

	if err := engine.LoadTemplate(); err != nil {
		return nil, err
	}
	if _, err := engine.ParseEntries(); err != nil {
		return nil, err
	}
	return engine, nil
}

// dispatch executes one console command
func dispatch(engine *database.Database, logger *slog.Logger, fields []string) error {
	switch fields[0] {

	case "help":
		printHelp()
		return nil

	case "get":
		if len(fields) != 3 {
			return fmt.Errorf("usage: get <type> <key>")
		}
		value, err := engine.Get(fields[1], fields[2])
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", value)
		return nil

	case "add", "update":
		if len(fields) < 4 {
			return fmt.Errorf("usage: %s <type> <key> <value>", fields[0])
		}
		vt, ok := lddb.ParseValueType(fields[1])
		if !ok {
			return fmt.Errorf("unknown type %q", fields[1])
		}
		// the value may contain spaces
		raw := strings.Join(fields[3:], " ")
		value, err := lddb.ParseValue(vt, raw)
		if err != nil {
			return err
		}

		if fields[0] == "add" {
			added, err := engine.Store().Add(string(vt), fields[2], value)
			if err != nil {
				return err
			}
			if !added {
				fmt.Println("not added (pair already exists)")
			}
			return nil
		}

		updated, err := engine.Store().UpdateValue(string(vt), fields[2], value)
		if err != nil {
			return err
		}
		if !updated {
			fmt.Println("not updated (pair does not exist)")
		}
		return nil

	case "del":
		if len(fields) != 3 {
			return fmt.Errorf("usage: del <type> <key>")
		}
		removed, err := engine.Store().RemoveKey(fields[1], fields[2])
		if err != nil {
			return err
		}
		if !removed {
			fmt.Println("not removed (pair does not exist)")
		}
		return nil

	case "search":
		if len(fields) != 2 {
			return fmt.Errorf("usage: search <key>")
		}
		values, err := engine.SearchAllByKey(fields[1])
		if err != nil {
			return err
		}
		if len(values) == 0 {
			fmt.Println("no matches")
			return nil
		}
		for _, v := range values {
			fmt.Printf("%s %s = %s\n", v.Type, fields[1], v)
		}
		return nil

	case "keys":
		if len(fields) != 2 {
			return fmt.Errorf("usage: keys <type>")
		}
		keys, err := engine.Store().GetKeysByType(fields[1])
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return nil

	case "stats":
		info := engine.Store().GetInfo()
		fmt.Printf("entries=%d capacity=%d types=%d avg_size=%d median_size=%d spread=%.2f\n",
			info.Entries, info.Capacity, info.Types,
			info.AvgValueSize, info.MedianValueSize, info.DistributionQuality)
		return nil

	case "reload":
		// a template session has no backing file, re-seed it instead
		if engine.Path() == "" {
			if err := engine.LoadTemplate(); err != nil {
				return err
			}
			added, err := engine.ParseEntries()
			if err != nil {
				return err
			}
			logger.Info("template database reloaded", "added", added)
			return nil
		}
		// ReadFile drops the selected span, so remember its name first
		name, _ := engine.Section()
		if err := engine.ReadFile(); err != nil {
			return err
		}
		if name != "" {
			if err := engine.LoadSection(name); err != nil {
				return err
			}
		} else if err := engine.LoadLegacy(); err != nil {
			return err
		}
		added, err := engine.ParseEntries()
		if err != nil {
			return err
		}
		logger.Info("database reloaded", "added", added)
		return nil

	default:
		return fmt.Errorf("unknown command %q (type 'help')", fields[0])
	}
}

func printHelp() {
	fmt.Print(`commands:
  get <type> <key>             read one value
  add <type> <key> <value>     insert a new entry
  update <type> <key> <value>  replace the value of an entry
  del <type> <key>             remove an entry
  search <key>                 find a key across all types
  keys <type>                  list all keys of a type
  stats                        print store statistics
  reload                       re-read and re-parse the database file
  help                         show this help
  exit                         leave the console
`)
}
