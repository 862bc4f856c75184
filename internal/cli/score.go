package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/gccache/internal/api/request"
	"github.com/mcoot/gccache/internal/api/response"
)

func newScoreCmd() *cobra.Command {
	var fingerprint string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Leaderboard score commands",
	}
	cmd.PersistentFlags().StringVarP(&fingerprint, "profile", "p", activeProfile, "Profile fingerprint")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List a profile's best scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Scores

			if err := client.Get(cmd.Context(), profilePath(fingerprint)+"/scores", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "submit <leaderboard> <score>",
		Short: "Submit a score, kept only if better than the cached best",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid score %q: %w", args[1], err)
			}

			var result response.Changed
			req := request.SubmitScoreRequest{Leaderboard: args[0], Score: &score}
			if err := client.Post(cmd.Context(), profilePath(fingerprint)+"/scores", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}
