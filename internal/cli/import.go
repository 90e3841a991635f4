package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/phoneloc/internal/fixture"
	"github.com/roach88/phoneloc/internal/route"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Upsert bool
}

// ImportResult summarizes an import.
type ImportResult struct {
	Fixture string `json:"fixture,omitempty"`
	Total   int    `json:"total"`
	Written int    `json:"written"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

func (r ImportResult) String() string {
	return fmt.Sprintf("Imported %d of %d record(s) (%d skipped, %d failed)", r.Written, r.Total, r.Skipped, r.Failed)
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Load records from a YAML fixture",
		Long: `Load records from a YAML fixture file.

By default each record is inserted and records whose number already
exists are skipped. With --upsert each record is written through its
bynumber address, updating existing records in place.

Exits 1 if any record failed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Upsert, "upsert", false, "update existing records instead of skipping them")

	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	file, err := fixture.Load(path)
	if err != nil {
		_ = formatter.Error(ErrCodeFixture, err.Error(), map[string]string{"file": path})
		return WrapExitError(ExitCommandError, "failed to load fixture", err)
	}

	sess, err := openSession(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx := cmd.Context()
	result := ImportResult{Fixture: file.Name, Total: len(file.Records)}
	for i, rec := range file.Records {
		var written bool
		if opts.Upsert {
			var count int64
			count, err = sess.provider.Update(ctx, route.NumberAddress(rec.Number), rec.Values(), nil)
			written = count > 0
		} else {
			_, written, err = sess.provider.Insert(ctx, route.CollectionAddress, rec.Values())
		}

		switch {
		case err != nil:
			result.Failed++
			sess.logger.Error("import record failed", "index", i, "number", rec.Number, "error", err)
		case written:
			result.Written++
		default:
			result.Skipped++
			formatter.VerboseLog("skipped %s: number exists", rec.Number)
		}
	}

	if err := formatter.Success(result); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d record(s) failed to import", result.Failed))
	}
	return nil
}
