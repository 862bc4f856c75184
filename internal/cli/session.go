package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/gccache/internal/api/request"
	"github.com/mcoot/gccache/internal/api/response"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Remote service session commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the session state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session

			if err := client.Get(cmd.Context(), "/api/v1/session", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(newSessionLaunchCmd())

	cmd.AddCommand(&cobra.Command{
		Use:   "shutdown",
		Short: "Tear down the remote session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session

			if err := client.Post(cmd.Context(), "/api/v1/session/shutdown", nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "activate <fingerprint>",
		Short: "Make a cached profile the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session

			req := request.ActivateRequest{Fingerprint: args[0]}
			if err := client.Put(cmd.Context(), "/api/v1/session/active", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}

func newSessionLaunchCmd() *cobra.Command {
	var noWait bool

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Log in to the remote service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session

			path := "/api/v1/session/launch"
			if noWait {
				path += "?wait=false"
			}
			if err := client.Post(cmd.Context(), path, nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Return as soon as the login has started")

	return cmd
}
