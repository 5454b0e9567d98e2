package commands

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/booksmcp/booksmcp/internal/audit"
	"github.com/booksmcp/booksmcp/internal/config"
)

func newLogsCmd() *cobra.Command {
	var method, endpoint, errorKind, since string
	var failed, stats bool
	var limit int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Query the API request log",
		Example: `  booksmcp logs
  booksmcp logs --failed
  booksmcp logs --method POST
  booksmcp logs --endpoint /invoices
  booksmcp logs --since 1h
  booksmcp logs --stats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath())
			if err != nil {
				return err
			}
			if cfg.AuditDB == "" {
				return fmt.Errorf("request logging is not enabled; set audit_db in %s", configPath())
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
			store, err := audit.NewStore(cfg.AuditDB, logger)
			if err != nil {
				return fmt.Errorf("opening request log: %w", err)
			}
			defer store.Close() //nolint:errcheck // best-effort cleanup

			if stats {
				return printEndpointStats(store)
			}

			var sinceTime string
			if since != "" {
				dur, err := time.ParseDuration(since)
				if err != nil {
					return fmt.Errorf("invalid duration %q: %w", since, err)
				}
				sinceTime = time.Now().Add(-dur).UTC().Format(time.RFC3339)
			}

			entries, err := store.Query(audit.QueryOpts{
				Method:    method,
				Endpoint:  endpoint,
				ErrorKind: errorKind,
				Failed:    failed,
				Since:     sinceTime,
				Limit:     limit,
			})
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No request log entries found.")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "TIME\tMETHOD\tENDPOINT\tSTATUS\tKIND\tRETRIED\tLATENCY\n") //nolint:errcheck // CLI output
			for _, e := range entries {
				kind := e.ErrorKind
				if kind == "" {
					kind = "-"
				}
				retried := "no"
				if e.Retried == 1 {
					retried = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%dms\n", //nolint:errcheck // CLI output
					e.Timestamp, e.Method, e.Endpoint, e.StatusCode, kind, retried, e.LatencyMs)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&method, "method", "", "filter by HTTP method (GET, POST, PUT, DELETE)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "filter by API endpoint")
	cmd.Flags().StringVar(&errorKind, "error-kind", "", "filter by error kind (authentication, not_found, rate_limit, request)")
	cmd.Flags().BoolVar(&failed, "failed", false, "show only failed requests")
	cmd.Flags().StringVar(&since, "since", "", "show entries since duration (e.g. 1h, 30m)")
	cmd.Flags().IntVar(&limit, "limit", 50, "max entries to return")
	cmd.Flags().BoolVar(&stats, "stats", false, "show per-endpoint request counts instead of entries")
	return cmd
}

func printEndpointStats(store *audit.Store) error {
	rows, err := store.EndpointStats()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No request log entries found.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ENDPOINT\tREQUESTS\tFAILURES\n") //nolint:errcheck // CLI output
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", r.Endpoint, r.Count, r.Failures) //nolint:errcheck // CLI output
	}
	return tw.Flush()
}
