package rank

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/scoring"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type (
	rankRow struct {
		Rank        int    `json:"rank" yaml:"rank"`
		Team        string `json:"team" yaml:"team"`
		Score       int    `json:"score" yaml:"score"`
		Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	}
	recordRow struct {
		Rank       int    `json:"rank" yaml:"rank"`
		Team       string `json:"team" yaml:"team"`
		Wins       int    `json:"wins" yaml:"wins"`
		Losses     int    `json:"losses" yaml:"losses"`
		Ties       int    `json:"ties" yaml:"ties"`
		WinPercent string `json:"winPercent" yaml:"winPercent"`
	}
	divisionView struct {
		Division string    `json:"division" yaml:"division"`
		Ranks    []rankRow `json:"ranks" yaml:"ranks"`
	}
	standingsView struct {
		Overall   []rankRow      `json:"overall" yaml:"overall"`
		Divisions []divisionView `json:"divisions,omitempty" yaml:"divisions,omitempty"`
		Records   []recordRow    `json:"records,omitempty" yaml:"records,omitempty"`
	}
)

func checkOutput(format string) error {
	if !slices.Contains([]string{outputText, outputJSON, outputYAML}, format) {
		return fmt.Errorf("%w: unknown output format %q", model.ErrInvalidInput, format)
	}
	return nil
}

// Write renders the standings in the given format.
func Write(w io.Writer, format string, s *scoring.Standings) error {
	v := toView(s)
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case outputText:
		return writeText(w, v)
	default:
		return checkOutput(format)
	}
}

func toView(s *scoring.Standings) *standingsView {
	toRow := func(r *model.Rank, _ int) rankRow {
		return rankRow{
			Rank: r.Rank, Team: r.Team.String(), Score: r.Score, Explanation: r.Explanation,
		}
	}
	ret := &standingsView{Overall: lo.Map(s.Overall, toRow)}
	divs := lo.Keys(s.Divisions)
	slices.SortFunc(divs, model.Division.Compare)
	for _, d := range divs {
		ret.Divisions = append(ret.Divisions, divisionView{
			Division: d.String(),
			Ranks:    lo.Map(s.Divisions[d], toRow),
		})
	}
	ret.Records = lo.Map(s.Records, func(r *model.TeamRank, _ int) recordRow {
		return recordRow{
			Rank:       r.Rank,
			Team:       r.Team.String(),
			Wins:       r.Wins,
			Losses:     r.Losses,
			Ties:       r.Ties,
			WinPercent: r.WinPercentage().StringFixed(3),
		}
	})
	return ret
}

func writeText(w io.Writer, v *standingsView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(v.Records) > 0 {
		fmt.Fprintln(tw, "RANK\tTEAM\tW\tL\tT\tPCT")
		for _, r := range v.Records {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n",
				r.Rank, r.Team, r.Wins, r.Losses, r.Ties, r.WinPercent)
		}
		return tw.Flush()
	}
	fmt.Fprintln(tw, "RANK\tTEAM\tSCORE\tEXPLANATION")
	for _, r := range v.Overall {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", r.Rank, r.Team, r.Score, r.Explanation)
	}
	for _, d := range v.Divisions {
		fmt.Fprintf(tw, "\nDIVISION %s\t\t\t\n", d.Division)
		for _, r := range d.Ranks {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", r.Rank, r.Team, r.Score, r.Explanation)
		}
	}
	return tw.Flush()
}
