package ranker

import (
	"fmt"

	"github.com/mpapenbr/regatta-score-manager-go/log"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/regatta"
)

// TeamRanker ranks team racing regattas by win/loss/tie records. Teams with
// equal records share a rank.
type TeamRanker struct {
	cfg config
}

var _ Ranker = (*TeamRanker)(nil)

func NewTeamRanker(opts ...Option) *TeamRanker {
	return &TeamRanker{cfg: newConfig(opts...)}
}

// Rank maps the records of RankTeams to ranks. Score holds the number of wins.
func (r *TeamRanker) Rank(reg regatta.Data, races []*model.Race) ([]*model.Rank, error) {
	records, err := r.RankTeams(reg, races)
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Rank, len(records))
	for i, tr := range records {
		ret[i] = &model.Rank{
			Team:        tr.Team,
			Score:       tr.Wins,
			Explanation: tr.Explanation,
			Rank:        tr.Rank,
		}
	}
	return ret, nil
}

// RankTeams builds the record of every team over the given races (all
// combined scored race numbers if races is nil) and orders them.
func (r *TeamRanker) RankTeams(reg regatta.Data, races []*model.Race) ([]*model.TeamRank, error) {
	numbers := raceNumbers(reg, races)
	divs := reg.GetDivisions()
	teams := reg.GetTeams()

	records := make(map[*model.Team]*model.TeamRank, len(teams))
	list := make([]*model.TeamRank, 0, len(teams))
	for _, t := range teams {
		tr := &model.TeamRank{Team: t}
		records[t] = tr
		list = append(list, tr)
	}

	for _, n := range numbers {
		m, err := meetingOf(reg, divs, n)
		if err != nil {
			return nil, err
		}
		t1, ok1 := records[m.team1]
		t2, ok2 := records[m.team2]
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%w: race %d references a team outside the regatta",
				ErrTeamRaceContract, n)
		}
		s1 := m.total(reg, m.team1)
		s2 := m.total(reg, m.team2)
		switch {
		case s1 < s2:
			if !m.ignore1 {
				t1.Wins++
			}
			if !m.ignore2 {
				t2.Losses++
			}
		case s1 > s2:
			if !m.ignore1 {
				t1.Losses++
			}
			if !m.ignore2 {
				t2.Wins++
			}
		default:
			if !m.ignore1 {
				t1.Ties++
			}
			if !m.ignore2 {
				t2.Ties++
			}
		}
	}

	sorted := mergeSort(list, compareRecords)
	for i, tr := range sorted {
		tr.Explanation = fmt.Sprintf("%d-%d-%d", tr.Wins, tr.Losses, tr.Ties)
		if i > 0 && compareRecords(sorted[i-1], tr) == 0 {
			tr.Rank = sorted[i-1].Rank
		} else {
			tr.Rank = i + 1
		}
	}
	r.cfg.log.Debug("ranked team racing records",
		log.Int("teams", len(sorted)),
		log.Int("races", len(numbers)))
	return sorted, nil
}

// meeting is one team race: the same race number sailed in every division
// by the same two teams.
type meeting struct {
	races   []*model.Race
	team1   *model.Team
	team2   *model.Team
	ignore1 bool
	ignore2 bool
}

func meetingOf(reg regatta.Data, divs []model.Division, number int) (*meeting, error) {
	m := &meeting{}
	for _, d := range divs {
		race := reg.GetRace(d, number)
		if race == nil {
			continue
		}
		if race.TrTeam1 == nil || race.TrTeam2 == nil || race.TrTeam1 == race.TrTeam2 {
			return nil, fmt.Errorf("%w: race %s", ErrTeamRaceContract, race)
		}
		if len(m.races) == 0 {
			m.team1, m.team2 = race.TrTeam1, race.TrTeam2
			m.ignore1, m.ignore2 = race.TrIgnore1, race.TrIgnore2
		} else if race.TrTeam1 != m.team1 || race.TrTeam2 != m.team2 {
			return nil, fmt.Errorf("%w: race %s pairs other teams than its divisions",
				ErrTeamRaceContract, race)
		}
		m.races = append(m.races, race)
	}
	if len(m.races) == 0 {
		return nil, fmt.Errorf("%w: no races numbered %d", ErrTeamRaceContract, number)
	}
	return m, nil
}

// total sums the scores of t over all divisions of the meeting
func (m *meeting) total(reg regatta.Data, t *model.Team) int {
	ret := 0
	for _, race := range m.races {
		if f := reg.GetFinish(race, t); f != nil {
			ret += f.ScoreValue()
		}
	}
	return ret
}

// compareRecords orders by win percentage and wins descending, then by
// losses ascending.
func compareRecords(a, b *model.TeamRank) int {
	if c := b.WinPercentage().Cmp(a.WinPercentage()); c != 0 {
		return c
	}
	if a.Wins != b.Wins {
		return b.Wins - a.Wins
	}
	return a.Losses - b.Losses
}

// mergeSort is a stable top-down merge sort returning a new slice.
func mergeSort[T any](list []T, cmp func(a, b T) int) []T {
	if len(list) < 2 {
		ret := make([]T, len(list))
		copy(ret, list)
		return ret
	}
	mid := len(list) / 2
	left := mergeSort(list[:mid], cmp)
	right := mergeSort(list[mid:], cmp)

	ret := make([]T, 0, len(list))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		// equal elements are taken from the left half first
		if cmp(right[j], left[i]) < 0 {
			ret = append(ret, right[j])
			j++
		} else {
			ret = append(ret, left[i])
			i++
		}
	}
	ret = append(ret, left[i:]...)
	return append(ret, right[j:]...)
}
