package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/booksmcp/booksmcp/internal/config"
	"github.com/booksmcp/booksmcp/internal/zoho"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify credentials against the Zoho Books API",
		Long:  "Loads the configuration, refreshes an access token, and confirms the configured organization is reachable.",
		RunE: func(cmd *cobra.Command, args []string) error {
			green := color.New(color.FgGreen)
			red := color.New(color.FgRed)

			path := configPath()
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			fmt.Printf("Config file:     %s\n", path)
			fmt.Printf("Region:          %s\n", cfg.Region)
			fmt.Printf("API base:        %s\n", cfg.APIBaseURL)
			fmt.Printf("Organization ID: %s\n\n", cfg.OrganizationID)

			logger := newLogger(slog.LevelError)
			client := zoho.NewClient(cfg, logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			if err := client.ValidateCredentials(ctx); err != nil {
				red.Println("FAIL")
				var ce *config.ConfigurationError
				if errors.As(err, &ce) {
					fmt.Printf("\nMissing configuration: %v\nRun 'booksmcp setup' to configure credentials.\n", ce.Missing)
					return fmt.Errorf("credentials incomplete")
				}
				return fmt.Errorf("credential check failed: %w", err)
			}

			green.Println("OK")
			fmt.Println("\nCredentials are valid and the organization is reachable.")
			return nil
		},
	}
}
