package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// InsertOptions holds flags for the insert command.
type InsertOptions struct {
	*RootOptions
	Set []string
}

// InsertResult is the result of an insert.
type InsertResult struct {
	Address  string `json:"address,omitempty"`
	Inserted bool   `json:"inserted"`
}

func (r InsertResult) String() string {
	if !r.Inserted {
		return "Skipped: a record with this number already exists"
	}
	return fmt.Sprintf("Inserted %s", r.Address)
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InsertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "insert <address>",
		Short: "Insert a record if its number is new",
		Long: `Insert a record through the collection address.

If a record with the same number already exists nothing is written and
the command still succeeds.

Examples:
  phoneloc insert /phonelocation --set number=5551234 --set location=CityA --set phone_type=1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsert(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "column assignment col=value or col:null (repeatable)")
	_ = cmd.MarkFlagRequired("set")

	return cmd
}

func runInsert(opts *InsertOptions, address string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	values, err := parseSet(opts.Set)
	if err != nil {
		_ = formatter.Error(ErrCodeValidation, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --set", err)
	}

	sess, err := openSession(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer sess.Close()

	item, inserted, err := sess.provider.Insert(cmd.Context(), address, values)
	if err != nil {
		return outputFault(formatter, err)
	}
	return formatter.Success(InsertResult{Address: item, Inserted: inserted})
}
