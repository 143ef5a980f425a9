package cli

import (
	"fmt"
	"time"

	"github.com/meower-media/notifications/pkg/notifications"
	"github.com/spf13/cobra"
)

// NewMuteExpiryCommand creates the mute-expiry command.
func NewMuteExpiryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mute-expiry <15m|1h|8h|24h|forever>",
		Short: "Print when a mute of the given duration would end",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := rootOpts.now()
			if err != nil {
				return err
			}
			d, err := notifications.ParseMuteDuration(args[0])
			if err != nil {
				return err
			}
			until, err := notifications.CalculateMuteExpiration(d, now)
			if err != nil {
				return err
			}
			if until == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "never")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), until.Format(time.RFC3339))
			return nil
		},
	}
}
