package cli

import (
	"fmt"

	"github.com/meower-media/notifications/pkg/notifications"
	"github.com/spf13/cobra"
)

var eventTypes = []notifications.EventType{
	notifications.EventDM,
	notifications.EventMention,
	notifications.EventThreadReply,
	notifications.EventMessage,
}

type PayloadOptions struct {
	Type     string
	DataPath string
}

// NewPayloadCommand creates the payload command.
func NewPayloadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PayloadOptions{}

	cmd := &cobra.Command{
		Use:   "payload",
		Short: "Render the notification shown for an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPayload(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", string(notifications.EventMessage), "event type (dm|mention|thread_reply|message)")
	cmd.Flags().StringVar(&opts.DataPath, "data", "", "event data (YAML)")
	cmd.MarkFlagRequired("data")

	return cmd
}

func runPayload(cmd *cobra.Command, rootOpts *RootOptions, opts *PayloadOptions) error {
	eventType := notifications.EventType(opts.Type)
	known := false
	for _, t := range eventTypes {
		if t == eventType {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("invalid --type %q: must be one of %v", opts.Type, eventTypes)
	}

	var data notifications.PayloadData
	if err := loadYAML(opts.DataPath, &data); err != nil {
		return err
	}

	payload := notifications.BuildNotificationPayload(eventType, data)
	return writeOutput(cmd.OutOrStdout(), rootOpts.Format, payload)
}
