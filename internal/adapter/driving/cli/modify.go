package cli

import (
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/passman/internal/application"
	"github.com/ericfisherdev/passman/internal/domain/model"
)

func (a *app) newModifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modify <id> <service> <login> <password>",
		Short: "Change password",
		Long:  "Replace the service, login and password of an existing entry. The id is kept.",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c := model.Credential{ID: id, Service: args[1], Login: args[2], Password: args[3]}

			return a.withService(cmd, a.opts.Strategy, func(svc *application.EntryService) error {
				return svc.Modify(cmd.Context(), c)
			})
		},
	}
}
