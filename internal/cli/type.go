package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/phoneloc/internal/provider"
)

// TypeResult is the result of the type command.
type TypeResult struct {
	Address string `json:"address"`
	Type    string `json:"type"`
}

// NewTypeCommand creates the type command.
func NewTypeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "type <address>",
		Short:         "Print the content type of an address",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runType(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runType(opts *RootOptions, address string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	// Type resolves the address only; no database is needed.
	typ := provider.New(nil).Type(address)
	if typ == "" {
		msg := fmt.Sprintf("address %q matches no known pattern", address)
		_ = formatter.Error(ErrCodeRouting, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	if formatter.Format == "json" {
		return formatter.Success(TypeResult{Address: address, Type: typ})
	}
	fmt.Fprintln(formatter.Writer, typ)
	return nil
}
