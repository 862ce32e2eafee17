package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"skylight.app/cli/internal/core/domain"
)

// CallFlags holds command-line flags for the call command.
type CallFlags struct {
	Method  string
	Data    string
	NoToast bool
	Raw     bool
}

// NewCallCommand issues an ad-hoc request through the gateway client, with
// the same session handling every other command gets: identity tagging,
// bearer auth, transparent refresh and replay.
func NewCallCommand(container *CLIContainer) *cobra.Command {
	flags := &CallFlags{}

	cmd := &cobra.Command{
		Use:   "call <path>",
		Short: "Send an authenticated request to the gateway",
		Long: `Send a request to a gateway endpoint and print the response body.

Examples:
  sky call /api/files
  sky call /api/chat/channels -X POST -d '{"name":"general"}'
  sky call /api/quota --no-toast`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, container, flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.Method, "request", "X", "GET", "HTTP method")
	cmd.Flags().StringVarP(&flags.Data, "data", "d", "", "JSON request body")
	cmd.Flags().BoolVar(&flags.NoToast, "no-toast", false, "Suppress the error notification for this call")
	cmd.Flags().BoolVar(&flags.Raw, "raw", false, "Print the body without JSON re-indentation")

	return cmd
}

func runCall(cmd *cobra.Command, container *CLIContainer, flags *CallFlags, path string) error {
	var body []byte
	if flags.Data != "" {
		if !json.Valid([]byte(flags.Data)) {
			return fmt.Errorf("request body is not valid JSON")
		}
		body = []byte(flags.Data)
	}

	req, err := container.Gateway.NewRequest(cmd.Context(), strings.ToUpper(flags.Method), path, body)
	if err != nil {
		return err
	}
	if flags.NoToast {
		req.Header.Set(domain.HeaderNoToast, "true")
	}

	resp, err := container.Gateway.Do(cmd.Context(), req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if !flags.Raw && json.Valid(payload) {
		var indented bytes.Buffer
		if json.Indent(&indented, payload, "", "  ") == nil {
			indented.WriteByte('\n')
			_, err = indented.WriteTo(os.Stdout)
			return err
		}
	}

	_, err = os.Stdout.Write(payload)
	return err
}
