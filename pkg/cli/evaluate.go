package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/meower-media/notifications/pkg/notifications"
	"github.com/meower-media/notifications/pkg/settings"
	"github.com/spf13/cobra"
)

type EvaluateOptions struct {
	SettingsPath string
	EventPath    string
	Timezone     string
}

// NewEvaluateCommand creates the evaluate command.
func NewEvaluateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Decide whether an event notifies its recipient",
		Long: `Evaluate one event for one recipient and print the decision.

The settings file describes the recipient's notification settings, the
event file the event context. Settings fields that are left out keep
their defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SettingsPath, "settings", "", "recipient settings (YAML)")
	cmd.Flags().StringVar(&opts.EventPath, "event", "", "event context (YAML)")
	cmd.Flags().StringVar(&opts.Timezone, "tz", "Local", "timezone for quiet hours when the settings have none")
	cmd.MarkFlagRequired("event")

	return cmd
}

func runEvaluate(cmd *cobra.Command, rootOpts *RootOptions, opts *EvaluateOptions) error {
	now, err := rootOpts.now()
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(opts.Timezone)
	if err != nil {
		return fmt.Errorf("invalid --tz %q: %w", opts.Timezone, err)
	}

	var ev notifications.EventContext
	if err := loadYAML(opts.EventPath, &ev); err != nil {
		return err
	}
	if ev.RecipientId == "" {
		return fmt.Errorf("%s: recipient_id is required", opts.EventPath)
	}

	repo := settings.NewMemoryRepository()
	if opts.SettingsPath != "" {
		var fixture settingsFixture
		if err := loadYAML(opts.SettingsPath, &fixture); err != nil {
			return err
		}
		s, err := fixture.settings(ev.RecipientId)
		if err != nil {
			return fmt.Errorf("%s: %w", opts.SettingsPath, err)
		}
		if s.UserId != ev.RecipientId {
			return fmt.Errorf("settings are for %q but the event recipient is %q", s.UserId, ev.RecipientId)
		}
		repo.Put(s)
	}

	engine := notifications.NewEngine(repo,
		notifications.WithClock(func() time.Time { return now }),
		notifications.WithLocation(loc),
	)
	res, err := engine.ShouldNotify(context.Background(), ev)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), rootOpts.Format, res)
}
