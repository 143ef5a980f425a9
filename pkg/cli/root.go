package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "yaml" | "json"
	Now    string // RFC3339, empty for the current time
}

var ValidFormats = []string{"yaml", "json"}

// NewRootCommand creates the root command for notifyctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "notifyctl",
		Short: "notifyctl - notification policy tools",
		Long: `Evaluate notification decisions and payloads offline, against settings
and events described in YAML files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if _, err := opts.now(); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "yaml", "output format (yaml|json)")
	cmd.PersistentFlags().StringVar(&opts.Now, "now", "", "evaluate at this instant (RFC3339)")

	cmd.AddCommand(NewEvaluateCommand(opts))
	cmd.AddCommand(NewPayloadCommand(opts))
	cmd.AddCommand(NewMuteExpiryCommand(opts))

	return cmd
}

func (o *RootOptions) now() (time.Time, error) {
	if o.Now == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, o.Now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: %w", o.Now, err)
	}
	return t, nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
