package score

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/regatta-score-manager-go/log"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/cmd/setup"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/config"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/scoring"
)

var appConfig config.Config

func NewScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "scores a race or a complete regatta and stores the standings",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if appConfig.RegattaID <= 0 {
				return fmt.Errorf("%w: --regatta is required", model.ErrInvalidInput)
			}
			if appConfig.Race != "" {
				if _, _, err := model.ParseRaceLabel(appConfig.Race); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd)
		},
	}
	cmd.Flags().IntVar(&appConfig.RegattaID, "regatta", 0, "id of the regatta")
	cmd.Flags().StringVar(&appConfig.Race, "race", "",
		"race to score, e.g. 3A. All races are scored if empty")
	return cmd
}

func runScore(cmd *cobra.Command) error {
	ctx := cmd.Context()
	env, err := setup.NewEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	var standings *scoring.Standings
	if appConfig.Race == "" {
		standings, err = env.Service.ScoreRegatta(ctx, appConfig.RegattaID)
	} else {
		number, div, _ := model.ParseRaceLabel(appConfig.Race)
		standings, err = env.Service.ScoreRace(ctx, appConfig.RegattaID, div, number)
	}
	if err != nil {
		log.Error("scoring failed",
			log.Int("regatta", appConfig.RegattaID),
			log.String("race", appConfig.Race),
			log.ErrorField(err))
		return err
	}
	for _, r := range standings.Overall {
		fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-40s %5d  %s\n",
			r.Rank, r.Team, r.Score, r.Explanation)
	}
	return nil
}
