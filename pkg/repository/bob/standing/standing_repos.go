//nolint:whitespace // can't make both editor and linter happy
package standing

import (
	"context"

	"github.com/aarondl/opt/null"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/repository/api"
	bobCtx "github.com/mpapenbr/regatta-score-manager-go/pkg/repository/bob/context"
)

type (
	repo struct {
		conn bob.Executor
	}
	divisionRankRow struct {
		TeamID      int32            `db:"team_id"`
		Division    string           `db:"division"`
		Rank        int32            `db:"rank"`
		Score       int32            `db:"score"`
		Explanation null.Val[string] `db:"explanation"`
	}
)

var _ api.StandingRepository = (*repo)(nil)

func NewStandingRepository(conn bob.Executor) api.StandingRepository {
	return &repo{
		conn: conn,
	}
}

// UpsertDivisionRanks stores one row per team and division. Ranks without
// a division are ignored.
func (r *repo) UpsertDivisionRanks(ctx context.Context, ranks []*model.Rank) error {
	for _, rk := range ranks {
		if rk.Division == "" {
			continue
		}
		q := psql.Insert(
			im.Into("dt_team_division", "team_id", "division", "rank", "score", "explanation"),
			im.Values(psql.Arg(rk.Team.ID, string(rk.Division), rk.Rank, rk.Score,
				null.FromCond(rk.Explanation, rk.Explanation != ""))),
			im.OnConflict("team_id", "division").DoUpdate(
				im.SetExcluded("rank", "score", "explanation"),
			),
		)
		if _, err := bob.Exec(ctx, r.getExecutor(ctx), q); err != nil {
			return err
		}
	}
	return nil
}

// LoadDivisionRanks returns the stored ranks ordered by division and rank.
func (r *repo) LoadDivisionRanks(ctx context.Context, regattaID int, res api.Resolver) (
	[]*model.Rank, error,
) {
	q := psql.Select(
		sm.Columns("dt_team_division.team_id", "dt_team_division.division",
			"dt_team_division.rank", "dt_team_division.score",
			"dt_team_division.explanation"),
		sm.From("dt_team_division"),
		sm.InnerJoin("team").On(
			psql.Quote("team", "id").EQ(psql.Quote("dt_team_division", "team_id"))),
		sm.Where(psql.Quote("team", "regatta_id").EQ(psql.Arg(regattaID))),
		sm.OrderBy(psql.Quote("dt_team_division", "division")).Asc(),
		sm.OrderBy(psql.Quote("dt_team_division", "rank")).Asc(),
	)
	rows, err := bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[divisionRankRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Rank, 0, len(rows))
	for i := range rows {
		team, err := res.Team(int(rows[i].TeamID))
		if err != nil {
			return nil, err
		}
		div, err := model.ParseDivision(rows[i].Division)
		if err != nil {
			return nil, err
		}
		ret = append(ret, &model.Rank{
			Team:        team,
			Division:    div,
			Score:       int(rows[i].Score),
			Explanation: rows[i].Explanation.GetOrZero(),
			Rank:        int(rows[i].Rank),
		})
	}
	return ret, nil
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	return bobCtx.Executor(ctx, r.conn)
}
