package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/phoneloc/internal/schema"
	"github.com/roach88/phoneloc/internal/store"
)

// MigrateOptions holds flags for the migrate command.
type MigrateOptions struct {
	*RootOptions
	To int
}

// MigrateResult reports the database state after migrating.
type MigrateResult struct {
	Database    string `json:"database"`
	Version     int    `json:"version"`
	NumberIndex bool   `json:"number_index"`
	Records     int64  `json:"records"`
}

func (r MigrateResult) String() string {
	return fmt.Sprintf("%s: schema version %d, number index %t, %d record(s)", r.Database, r.Version, r.NumberIndex, r.Records)
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Long: `Open the database, applying any pending schema migrations, and report
its schema version and record count.

Every command migrates on open; migrate does only that. --to stops at an
older version, which is useful for producing databases to test upgrades
against. A database already newer than --to is an error.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.To, "to", schema.CurrentVersion, "target schema version")

	return cmd
}

func runMigrate(opts *MigrateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	sess, err := openSession(opts.RootOptions, formatter, store.WithTargetVersion(opts.To))
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx := cmd.Context()
	version, err := sess.store.SchemaVersion(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeStorage, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to read schema version", err)
	}
	hasIndex, err := sess.store.HasIndex(ctx, schema.IndexNumber)
	if err != nil {
		_ = formatter.Error(ErrCodeStorage, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to inspect indexes", err)
	}
	count, err := sess.store.Count(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeStorage, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to count records", err)
	}

	return formatter.Success(MigrateResult{
		Database:    sess.cfg.DB,
		Version:     version,
		NumberIndex: hasIndex,
		Records:     count,
	})
}
