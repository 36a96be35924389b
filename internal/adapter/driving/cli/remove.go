package cli

import (
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/passman/internal/application"
)

func (a *app) newRemoveCommand() *cobra.Command {
	var (
		all     bool
		rewrite bool
	)

	cmd := &cobra.Command{
		Use:   "remove [id]",
		Short: "Remove password",
		Long: `Remove one password entry by id, or every entry with --all.

With --rewrite (or PASSMAN_REMOVE_STRATEGY=rewrite) the table is rewritten
without the entry, which gives every remaining entry a new id.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := optionalID(args)
			if err != nil {
				return err
			}

			strategy := a.opts.Strategy
			if rewrite {
				strategy = application.RemoveRewrite
			}

			return a.withService(cmd, strategy, func(svc *application.EntryService) error {
				return svc.Remove(cmd.Context(), id, all)
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Remove all passwords")
	cmd.Flags().BoolVar(&rewrite, "rewrite", false, "Remove by rewriting the table (renumbers remaining ids)")

	return cmd
}
