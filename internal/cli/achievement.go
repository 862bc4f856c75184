package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/gccache/internal/api/request"
	"github.com/mcoot/gccache/internal/api/response"
)

func newAchievementCmd() *cobra.Command {
	var fingerprint string

	cmd := &cobra.Command{
		Use:     "achievement",
		Aliases: []string{"ach"},
		Short:   "Achievement commands",
	}
	cmd.PersistentFlags().StringVarP(&fingerprint, "profile", "p", activeProfile, "Profile fingerprint")

	achievementPath := func(id, action string) string {
		return profilePath(fingerprint) + "/achievements/" + url.PathEscape(id) + "/" + action
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List a profile's achievement states",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Achievements

			if err := client.Get(cmd.Context(), profilePath(fingerprint)+"/achievements", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unlock <id>",
		Short: "Unlock an achievement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Changed

			if err := client.Post(cmd.Context(), achievementPath(args[0], "unlock"), nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "progress <id> <percent>",
		Short: "Report progress toward an achievement (0-100)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			progress, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid progress %q: %w", args[1], err)
			}

			var result response.Changed
			req := request.SubmitProgressRequest{Progress: &progress}
			if err := client.Post(cmd.Context(), achievementPath(args[0], "progress"), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}
