package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	Set   []string
	Where []string
}

// UpdateResult is the result of an update or delete.
type UpdateResult struct {
	Address string `json:"address"`
	Count   int64  `json:"count"`
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <address>",
		Short: "Update records, or upsert by number",
		Long: `Write column values to records.

On a bynumber address the update is an upsert: the record with that
number is updated, or created if none exists. --where is not allowed
on bynumber addresses.

On the collection address every record matching --where is updated.
Id, phone type and location addresses are read-only.

Examples:
  phoneloc update /phonelocation/bynumber/5551234 --set location=CityB
  phoneloc update /phonelocation --set user_mark=hq --where location=CityA --where "phone_type>=2"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "column assignment col=value or col:null (repeatable)")
	_ = cmd.MarkFlagRequired("set")
	cmd.Flags().StringArrayVarP(&opts.Where, "where", "w", nil, "filter term col<op>value (repeatable)")

	return cmd
}

func runUpdate(opts *UpdateOptions, address string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	values, err := parseSet(opts.Set)
	if err != nil {
		_ = formatter.Error(ErrCodeValidation, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --set", err)
	}
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

	count, err := sess.provider.Update(cmd.Context(), address, values, filter)
	if err != nil {
		return outputFault(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(UpdateResult{Address: address, Count: count})
	}
	fmt.Fprintf(formatter.Writer, "Updated %d record(s)\n", count)
	return nil
}
