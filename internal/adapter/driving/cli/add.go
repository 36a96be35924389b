package cli

import (
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/passman/internal/application"
)

func (a *app) newAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <service> <login> [password]",
		Short: "Add password",
		Long: `Add a password entry.

When the password argument is omitted it is read from the terminal without
echo, or from the first line of standard input when it is not a terminal.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, login := args[0], args[1]

			var password string
			if len(args) == 3 {
				password = args[2]
			} else {
				var err error
				password, err = readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}

			return a.withService(cmd, a.opts.Strategy, func(svc *application.EntryService) error {
				_, err := svc.Add(cmd.Context(), service, login, password)
				return err
			})
		},
	}
}
