package command

import (
	commandHandler "profile/internal/command/handler"

	"github.com/google/wire"
	"github.com/spf13/cobra"
)

var ProviderSet = wire.NewSet(NewCommand, commandHandler.NewRefreshHandler, commandHandler.NewProcessorHandler)

type Command struct {
	refreshCommandHandler   *commandHandler.RefreshHandler
	processorCommandHandler *commandHandler.ProcessorHandler
}

// NewCommand .
func NewCommand(
	refreshCommandHandler *commandHandler.RefreshHandler,
	processorCommandHandler *commandHandler.ProcessorHandler,
) *Command {
	return &Command{
		refreshCommandHandler:   refreshCommandHandler,
		processorCommandHandler: processorCommandHandler,
	}
}

func Register(rootCmd *cobra.Command, newCmd func() (*Command, func(), error)) {
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "processor",
			Short: "run the command processor (executes setInsured/setTenderOpened/refresh)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				command, cleanup, err := newCmd()
				if err != nil {
					return err
				}
				defer cleanup()

				return command.processorCommandHandler.Serve(cmd, args)
			},
		},
		&cobra.Command{
			Use:   "refresh [uid...]",
			Short: "rebuild redis projections from postgres; no uid means full rebuild",
			RunE: func(cmd *cobra.Command, args []string) error {
				command, cleanup, err := newCmd()
				if err != nil {
					return err
				}
				defer cleanup()

				return command.refreshCommandHandler.Refresh(cmd, args)
			},
		},
	)
}
