package cli

import (
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/passman/internal/application"
)

func (a *app) newPrintCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "print [id]",
		Short: "Show password",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := optionalID(args)
			if err != nil {
				return err
			}
			return a.withService(cmd, a.opts.Strategy, func(svc *application.EntryService) error {
				return svc.Print(cmd.Context(), all, id)
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Display all passwords")

	return cmd
}
