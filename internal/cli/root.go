// Package cli implements ssfctl, the operator command line for the listings store.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"ssf-backend/internal/app"
	"ssf-backend/internal/config"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format    string // "json" | "text"
	DB        string // overrides DATABASE_URL
	ContextID string // overrides CONTEXT_ID
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for ssfctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ssfctl",
		Short: "Inspect and maintain the surplus food listings store",
		Long: `ssfctl opens the durable store as its own context. Running servers see its
writes through Redis when REDIS_URL is set and through the storage watcher otherwise.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "database DSN or SQLite path (default from DATABASE_URL)")
	cmd.PersistentFlags().StringVar(&opts.ContextID, "context-id", "ssfctl", "context id stamped on writes")

	cmd.AddCommand(NewSweepCommand(opts))
	cmd.AddCommand(NewListingsCommand(opts))
	cmd.AddCommand(NewAnalyticsCommand(opts))
	cmd.AddCommand(NewEventsCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// openContext builds a runtime without background loops. The returned func releases it.
func openContext(ctx context.Context, opts *RootOptions) (*app.Runtime, *config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if opts.DB != "" {
		cfg.DatabaseURL = opts.DB
	}
	if opts.ContextID != "" {
		cfg.ContextID = opts.ContextID
	}
	db, rdb, err := app.Connect(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	rt, err := app.New(ctx, cfg, app.Deps{DB: db, Rdb: rdb})
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		_ = rt.Close()
		if rdb != nil {
			_ = rdb.Close()
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return rt, cfg, cleanup, nil
}

// output writes v as indented JSON, or calls text in text mode.
func output(w io.Writer, opts *RootOptions, v interface{}, text func(io.Writer)) error {
	if opts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
