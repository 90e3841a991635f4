package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	Where []string
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete <address>",
		Short: "Request deletion (records are never removed)",
		Long: `Request deletion of records at an address.

The store never removes records. The command always reports 0 and
leaves the data untouched.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Where, "where", "w", nil, "filter term col<op>value (repeatable)")

	return cmd
}

func runDelete(opts *DeleteOptions, address string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	filter, err := parseWhere(opts.Where)
	if err != nil {
		_ = formatter.Error(ErrCodeValidation, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --where", err)
	}

	sess, err := openSession(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer sess.Close()

	count := sess.provider.Delete(cmd.Context(), address, filter)

	if formatter.Format == "json" {
		return formatter.Success(UpdateResult{Address: address, Count: count})
	}
	fmt.Fprintf(formatter.Writer, "Deleted %d record(s)\n", count)
	return nil
}
