package rank

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/regatta-score-manager-go/pkg/cmd/setup"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/config"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/scoring"
)

var (
	appConfig config.Config
	noStore   bool
)

func NewRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "ranks a regatta by its stored scores and prints the standings",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if appConfig.RegattaID <= 0 {
				return fmt.Errorf("%w: --regatta is required", model.ErrInvalidInput)
			}
			return checkOutput(appConfig.Output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd)
		},
	}
	cmd.Flags().IntVar(&appConfig.RegattaID, "regatta", 0, "id of the regatta")
	cmd.Flags().StringVarP(&appConfig.Output, "output", "o", outputText,
		"output format (text, json, yaml)")
	cmd.Flags().BoolVar(&noStore, "no-store", false,
		"only print the standings, don't store them")
	return cmd
}

func runRank(cmd *cobra.Command) error {
	ctx := cmd.Context()
	env, err := setup.NewEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	var standings *scoring.Standings
	if noStore {
		standings, err = env.Service.Standings(ctx, appConfig.RegattaID)
	} else {
		standings, err = env.Service.Rank(ctx, appConfig.RegattaID)
	}
	if err != nil {
		return err
	}
	return Write(cmd.OutOrStdout(), appConfig.Output, standings)
}
