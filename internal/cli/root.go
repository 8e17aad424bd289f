// Package cli implements eventhubctl, the operator command line for an
// EventHub API.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// App carries the persistent flags.
type App struct {
	URL     string
	Timeout time.Duration
}

// NewRootCmd builds the eventhubctl command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "eventhubctl",
		Short:        "Inspect an EventHub API",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Database connectivity of a running API
  eventhubctl status --url http://localhost:3000

  # Check a password against the account rules
  eventhubctl password check 'ValidPassword123!'
`),
	}

	cmd.PersistentFlags().StringVar(&app.URL, "url", envOr("EVENTHUB_URL", "http://localhost:3000"), "Base URL of the EventHub API")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 5*time.Second, "Request timeout")

	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newPasswordCmd())

	return cmd
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(err.Error()))
	return err
}
