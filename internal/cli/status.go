package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/eventhub-dev/eventhub/internal/status"
)

type statusResponse struct {
	Message   string                  `json:"message"`
	Databases map[string]status.State `json:"databases"`
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show database connectivity reported by the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := fetchStatus(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(resp.Message))
			for _, name := range []string{status.MongoDB, status.PostgreSQL, status.Redis} {
				state, ok := resp.Databases[name]
				if !ok {
					state = status.Disconnected
				}
				fmt.Fprintf(out, "%s %s\n", labelStyle.Render(name), renderState(state))
			}
			return nil
		},
	}
}

func fetchStatus(app *App) (*statusResponse, error) {
	agent := fiber.Get(strings.TrimRight(app.URL, "/") + "/")
	if app.Timeout > 0 {
		agent.Timeout(app.Timeout)
	}
	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("status: %w", errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("status: unexpected response %d", code)
	}

	var resp statusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("status: decode response: %w", err)
	}
	return &resp, nil
}

func renderState(s status.State) string {
	switch s {
	case status.Connected:
		return okStyle.Render(string(s))
	case status.Errored:
		return errorStyle.Render(string(s))
	case status.Disconnected:
		return warnStyle.Render(string(s))
	}
	return mutedStyle.Render(string(s))
}
