package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/booksmcp/booksmcp/internal/config"
)

var cfgFile string

func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "booksmcp",
		Short: "MCP server for Zoho Books",
		Long:  "Booksmcp exposes Zoho Books accounting operations (contacts, invoices, expenses, items, sales orders) as MCP tools, resources, and prompts over stdio.",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ~/.booksmcp/config.yaml)")

	root.AddCommand(
		newServeCmd(),
		newCheckCmd(),
		newSetupCmd(),
		newLogsCmd(),
		newVersionCmd(),
	)

	return root
}

// configPath resolves the --config flag, falling back to the home
// directory default.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func logLevel(cfg *config.Config) slog.Level {
	switch cfg.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
