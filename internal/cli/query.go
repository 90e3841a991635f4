package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/phoneloc/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Where []string
	Sort  []string
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <address>",
		Short: "List records at an address",
		Long: `List the records selected by an address and optional filters.

Filters are ANDed with the address. Without --sort, records are ordered
by update_time, oldest first.

Examples:
  phoneloc query /phonelocation
  phoneloc query /phonelocation/bylocation/CityA --where "phone_type>=2"
  phoneloc query /phonelocation --sort location --sort update_time:desc --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Where, "where", "w", nil, "filter term col<op>value (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.Sort, "sort", "s", nil, "sort term col[:desc] (repeatable)")

	return cmd
}

func runQuery(opts *QueryOptions, address string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	filter, err := parseWhere(opts.Where)
	if err != nil {
		_ = formatter.Error(ErrCodeValidation, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --where", err)
	}
	sorts, err := parseSort(opts.Sort)
	if err != nil {
		_ = formatter.Error(ErrCodeValidation, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --sort", err)
	}

	sess, err := openSession(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer sess.Close()

	recs, err := sess.provider.Query(cmd.Context(), address, store.QueryOptions{Filter: filter, Sort: sorts})
	if err != nil {
		return outputFault(formatter, err)
	}

	formatter.VerboseLog("%d record(s)", len(recs))
	return formatter.Records(recs)
}
