package check

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/regatta-score-manager-go/log"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/cmd/setup"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/config"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
)

var (
	appConfig config.Config
	verbose   bool
)

func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "scores and ranks a regatta repeatedly without storing and compares the results",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if appConfig.RegattaID <= 0 {
				return fmt.Errorf("%w: --regatta is required", model.ErrInvalidInput)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd)
		},
	}
	cmd.Flags().IntVar(&appConfig.RegattaID, "regatta", 0, "id of the regatta")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the computed results")
	return cmd
}

func runCheck(cmd *cobra.Command) error {
	ctx := cmd.Context()
	env, err := setup.NewEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	res, err := env.Service.Check(ctx, appConfig.RegattaID)
	if err != nil {
		log.Error("check failed", log.Int("regatta", appConfig.RegattaID), log.ErrorField(err))
		return err
	}
	if verbose {
		for _, line := range res.Lines {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "regatta %d ok: %d teams, %d finishes\n",
		appConfig.RegattaID, res.Teams, res.Finishes)
	return nil
}
