package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/booksmcp/booksmcp/internal/audit"
	"github.com/booksmcp/booksmcp/internal/config"
	mcpserver "github.com/booksmcp/booksmcp/internal/mcp"
	"github.com/booksmcp/booksmcp/internal/zoho"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Zoho Books MCP server (stdio)",
		Long: `Runs the MCP server on stdio. Add to your MCP client config:

  {
    "mcpServers": {
      "zoho-books": {
        "command": "booksmcp",
        "args": ["serve"]
      }
    }
  }

Credentials come from ~/.booksmcp/config.yaml or ZOHO_* environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration incomplete: %w (run 'booksmcp setup')", err)
			}

			// Tool output owns stdout; logs go to stderr.
			logger := newLogger(logLevel(cfg))

			opts := []zoho.Option{}
			var auditStore *audit.Store
			if cfg.AuditDB != "" {
				auditStore, err = audit.NewStore(cfg.AuditDB, logger)
				if err != nil {
					return fmt.Errorf("opening request log: %w", err)
				}
				defer func() { _ = auditStore.Close() }()
				opts = append(opts, zoho.WithRequestLogger(auditStore))
			}

			client := zoho.NewClient(cfg, logger, opts...)

			logger.Info("starting MCP server", "region", cfg.Region, "organization_id", cfg.OrganizationID)
			s := mcpserver.NewServer(cfg, client, auditStore, logger)
			return mcpserver.Serve(s)
		},
	}
}
