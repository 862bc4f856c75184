package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/gccache/internal/api/request"
	"github.com/mcoot/gccache/internal/api/response"
)

// activeProfile is the daemon's alias for the session's active profile
const activeProfile = "active"

func profilePath(fingerprint string) string {
	return "/api/v1/profiles/" + url.PathEscape(fingerprint)
}

// profileArg returns the first positional argument, or the active alias
func profileArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return activeProfile
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Cached profile commands",
	}

	cmd.AddCommand(newProfileListCmd())
	cmd.AddCommand(newProfileCreateCmd())
	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileRenameCmd())
	cmd.AddCommand(newProfileDeleteCmd())
	cmd.AddCommand(newProfileActionCmd("save", "Persist a profile to storage"))
	cmd.AddCommand(newProfileActionCmd("sync", "Reconcile a profile with the remote service"))
	cmd.AddCommand(newProfileActionCmd("reset", "Clear a profile's scores and achievements"))

	return cmd
}

func newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.ProfileList

			if err := client.Get(cmd.Context(), "/api/v1/profiles", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newProfileCreateCmd() *cobra.Command {
	var req request.CreateProfileRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Get or create a cached profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Profile

			if err := client.Post(cmd.Context(), "/api/v1/profiles", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Profile name")
	cmd.Flags().StringVar(&req.PlayerID, "player-id", "", "Remote player ID (omit for a local profile)")
	cmd.Flags().BoolVar(&req.IsDefault, "default", false, "Use the default fallback profile")

	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [fingerprint]",
		Short: "Show a profile with its scores and achievements",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.ProfileDetail

			if err := client.Get(cmd.Context(), profilePath(profileArg(args)), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newProfileRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <fingerprint> <name>",
		Short: "Rename a profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Changed

			req := request.RenameProfileRequest{Name: args[1]}
			if err := client.Patch(cmd.Context(), profilePath(args[0]), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newProfileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <fingerprint>",
		Short: "Remove a profile from the cache and storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Removed

			if err := client.Delete(cmd.Context(), profilePath(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

// newProfileActionCmd builds save, sync and reset, which share a shape
func newProfileActionCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " [fingerprint]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := profilePath(profileArg(args)) + "/" + action

			if action == "save" {
				if err := client.Post(cmd.Context(), path, nil, nil); err != nil {
					return err
				}
				output(cmd).PrintMessage("Profile saved")
				return nil
			}

			var result response.ProfileDetail
			if err := client.Post(cmd.Context(), path, nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
