//nolint:whitespace // can't make both editor and linter happy
package team

import (
	"context"

	"github.com/aarondl/opt/null"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/repository/api"
	bobCtx "github.com/mpapenbr/regatta-score-manager-go/pkg/repository/bob/context"
)

type (
	repo struct {
		conn bob.Executor
	}
	teamRow struct {
		ID            int32                     `db:"id"`
		SchoolID      string                    `db:"school_id"`
		SchoolName    string                    `db:"school_name"`
		Name          string                    `db:"name"`
		DtRank        null.Val[int32]           `db:"dt_rank"`
		DtScore       null.Val[int32]           `db:"dt_score"`
		DtExplanation null.Val[string]          `db:"dt_explanation"`
		DtWins        int32                     `db:"dt_wins"`
		DtLosses      int32                     `db:"dt_losses"`
		DtTies        int32                     `db:"dt_ties"`
		DtWinPct      null.Val[decimal.Decimal] `db:"dt_win_pct"`
	}
)

var _ api.TeamRepository = (*repo)(nil)

func NewTeamRepository(conn bob.Executor) api.TeamRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(ctx context.Context, regattaID int, team *model.Team) error {
	q := psql.Insert(
		im.Into("team", "regatta_id", "school_id", "school_name", "name"),
		im.Values(psql.Arg(regattaID, team.School.ID, team.School.Name, team.Name)),
		im.Returning("id"),
	)
	id, err := bob.One(ctx, r.getExecutor(ctx), q, scan.SingleColumnMapper[int32])
	if err != nil {
		return err
	}
	team.ID = int(id)
	return nil
}

// LoadByRegattaID returns the teams ordered by id, which is the order they
// were added to the regatta.
func (r *repo) LoadByRegattaID(ctx context.Context, regattaID int) (
	[]*model.Team, error,
) {
	q := psql.Select(
		sm.Columns("id", "school_id", "school_name", "name",
			"dt_rank", "dt_score", "dt_explanation",
			"dt_wins", "dt_losses", "dt_ties", "dt_win_pct"),
		sm.From("team"),
		sm.Where(psql.Quote("regatta_id").EQ(psql.Arg(regattaID))),
		sm.OrderBy("id").Asc(),
	)
	rows, err := bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[teamRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Team, 0, len(rows))
	for i := range rows {
		ret = append(ret, toModel(&rows[i]))
	}
	return ret, nil
}

func (r *repo) UpdateRank(ctx context.Context, team *model.Team) error {
	q := psql.Update(
		um.Table("team"),
		um.SetCol("dt_rank").To(psql.Arg(team.DtRank)),
		um.SetCol("dt_score").To(psql.Arg(team.DtScore)),
		um.SetCol("dt_explanation").To(psql.Arg(team.DtExplanation)),
		um.SetCol("dt_wins").To(psql.Arg(team.DtWins)),
		um.SetCol("dt_losses").To(psql.Arg(team.DtLosses)),
		um.SetCol("dt_ties").To(psql.Arg(team.DtTies)),
		um.SetCol("dt_win_pct").To(psql.Arg(team.DtWinPct)),
		um.Where(psql.Quote("id").EQ(psql.Arg(team.ID))),
	)
	_, err := bob.Exec(ctx, r.getExecutor(ctx), q)
	return err
}

func toModel(row *teamRow) *model.Team {
	return &model.Team{
		ID:            int(row.ID),
		Name:          row.Name,
		School:        model.School{ID: row.SchoolID, Name: row.SchoolName},
		DtRank:        int(row.DtRank.GetOrZero()),
		DtScore:       int(row.DtScore.GetOrZero()),
		DtExplanation: row.DtExplanation.GetOrZero(),
		DtWins:        int(row.DtWins),
		DtLosses:      int(row.DtLosses),
		DtTies:        int(row.DtTies),
		DtWinPct:      row.DtWinPct.GetOrZero(),
	}
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	return bobCtx.Executor(ctx, r.conn)
}
