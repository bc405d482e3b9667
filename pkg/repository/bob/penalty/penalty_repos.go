//nolint:whitespace // can't make both editor and linter happy
package penalty

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
	penaltyRow struct {
		TeamID   int32            `db:"team_id"`
		Division string           `db:"division"`
		Type     string           `db:"type"`
		Amount   int32            `db:"amount"`
		Comments null.Val[string] `db:"comments"`
	}
)

var _ api.TeamPenaltyRepository = (*repo)(nil)

func NewTeamPenaltyRepository(conn bob.Executor) api.TeamPenaltyRepository {
	return &repo{
		conn: conn,
	}
}

// Create stores the penalty. An existing penalty of the team in the same
// division is replaced.
func (r *repo) Create(ctx context.Context, p *model.TeamPenalty) error {
	q := psql.Insert(
		im.Into("team_penalty", "team_id", "division", "type", "amount", "comments"),
		im.Values(psql.Arg(p.Team.ID, string(p.Division), p.Type, p.Points(),
			null.FromCond(p.Comments, p.Comments != ""))),
		im.OnConflict("team_id", "division").DoUpdate(
			im.SetExcluded("type", "amount", "comments"),
		),
	)
	_, err := bob.Exec(ctx, r.getExecutor(ctx), q)
	return err
}

func (r *repo) LoadByRegattaID(ctx context.Context, regattaID int, res api.Resolver) (
	[]*model.TeamPenalty, error,
) {
	q := psql.Select(
		sm.Columns("team_penalty.team_id", "team_penalty.division", "team_penalty.type",
			"team_penalty.amount", "team_penalty.comments"),
		sm.From("team_penalty"),
		sm.InnerJoin("team").On(
			psql.Quote("team", "id").EQ(psql.Quote("team_penalty", "team_id"))),
		sm.Where(psql.Quote("team", "regatta_id").EQ(psql.Arg(regattaID))),
		sm.OrderBy(psql.Quote("team_penalty", "id")).Asc(),
	)
	rows, err := bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[penaltyRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.TeamPenalty, 0, len(rows))
	for i := range rows {
		team, err := res.Team(int(rows[i].TeamID))
		if err != nil {
			return nil, err
		}
		div, err := model.ParseDivision(rows[i].Division)
		if err != nil {
			return nil, err
		}
		p, err := model.NewTeamPenalty(team, div, rows[i].Type, rows[i].Comments.GetOrZero())
		if err != nil {
			return nil, err
		}
		p.Amount = int(rows[i].Amount)
		ret = append(ret, p)
	}
	return ret, nil
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	return bobCtx.Executor(ctx, r.conn)
}
