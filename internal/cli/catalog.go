package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/gccache/internal/api/request"
	"github.com/mcoot/gccache/internal/api/response"
	"github.com/mcoot/gccache/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Registered achievement and leaderboard commands",
	}

	cmd.AddCommand(newCatalogAchievementsCmd())
	cmd.AddCommand(newCatalogLeaderboardsCmd())

	return cmd
}

func newCatalogAchievementsCmd() *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Show or replace the registered achievement IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.AchievementCatalog

			var err error
			if cmd.Flags().Changed("set") {
				req := request.RegisterAchievementsRequest{Achievements: set}
				err = client.Put(cmd.Context(), "/api/v1/catalog/achievements", req, &result)
			} else {
				err = client.Get(cmd.Context(), "/api/v1/catalog/achievements", &result)
			}
			if err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&set, "set", nil, "Replace the catalog with these IDs")

	return cmd
}

func newCatalogLeaderboardsCmd() *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "leaderboards",
		Short: "Show or replace the registered leaderboards",
		Long: `Show or replace the registered leaderboards.

Leaderboards are given as id or id:order, where order is desc (higher is
better, the default) or asc (lower is better).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.LeaderboardCatalog

			if !cmd.Flags().Changed("set") {
				if err := client.Get(cmd.Context(), "/api/v1/catalog/leaderboards", &result); err != nil {
					return err
				}
				output(cmd).Print(result)
				return nil
			}

			boards, err := catalog.ParseLeaderboards(set)
			if err != nil {
				return err
			}

			req := request.RegisterLeaderboardsRequest{Leaderboards: make([]request.Leaderboard, len(boards))}
			for i, lb := range boards {
				req.Leaderboards[i] = request.Leaderboard{ID: lb.ID, Order: string(lb.Order)}
			}
			if err := client.Put(cmd.Context(), "/api/v1/catalog/leaderboards", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&set, "set", nil, "Replace the catalog with these leaderboards (id or id:asc)")

	return cmd
}
