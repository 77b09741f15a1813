package util

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/QingYi-Studio/tylddb/lib/database"
	"github.com/QingYi-Studio/tylddb/lib/serializer"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("tylddb")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	return viper.BindPFlags(cmd.InheritedFlags())
}

// NewLogger creates a colored terminal logger honoring the log-level flag.
// Color is disabled when stderr is not a terminal.
func NewLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(viper.GetString("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
}

// GetSerializer creates a dump serializer based on configuration
func GetSerializer() (serializer.IDumpSerializer, error) {
	return serializer.New(viper.GetString("serializer"))
}

// OpenDatabase runs the full load pipeline from the shared flags: read the
// configured file, select the configured section (or the whole file for V1
// legacy mode) and parse its entries into the store.
func OpenDatabase(logger *slog.Logger) (*database.Database, error) {
	opts := database.DefaultOptions()
	opts.BufferSize = viper.GetInt("buffer-size")
	opts.Capacity = viper.GetInt("capacity")
	opts.Logger = logger

	db := database.New(opts)

	path := viper.GetString("file")
	if path == "" {
		return nil, fmt.Errorf("no database file given (--file or TYLDDB_FILE)")
	}
	db.SetPath(path)

	if err := db.ReadFile(); err != nil {
		return nil, err
	}

	if section := viper.GetString("section"); section != "" {
		if err := db.LoadSection(section); err != nil {
			return nil, err
		}
	} else {
		if err := db.LoadLegacy(); err != nil {
			return nil, err
		}
	}

	if _, err := db.ParseEntries(); err != nil {
		return nil, err
	}

	return db, nil
}
