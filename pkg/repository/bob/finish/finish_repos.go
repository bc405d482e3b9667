//nolint:whitespace // can't make both editor and linter happy
package finish

import (
	"context"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
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
	// finish joined with its optional modifier
	finishRow struct {
		ID          int32            `db:"id"`
		RaceID      int32            `db:"race_id"`
		TeamID      int32            `db:"team_id"`
		Entered     time.Time        `db:"entered"`
		Score       null.Val[int32]  `db:"score"`
		Place       null.Val[string] `db:"place"`
		Explanation null.Val[string] `db:"explanation"`
		Earned      null.Val[int32]  `db:"earned"`
		Kind        null.Val[string] `db:"kind"`
		Type        null.Val[string] `db:"type"`
		Amount      null.Val[int32]  `db:"amount"`
		Displace    null.Val[bool]   `db:"displace"`
		Comments    null.Val[string] `db:"comments"`
	}
)

var _ api.FinishRepository = (*repo)(nil)

func NewFinishRepository(conn bob.Executor) api.FinishRepository {
	return &repo{
		conn: conn,
	}
}

// Create stores the finish and its modifier, if any.
func (r *repo) Create(ctx context.Context, finish *model.Finish) error {
	q := psql.Insert(
		im.Into("finish", "race_id", "team_id", "entered"),
		im.Values(psql.Arg(finish.Race.ID, finish.Team.ID, finish.Entered)),
		im.Returning("id"),
	)
	id, err := bob.One(ctx, r.getExecutor(ctx), q, scan.SingleColumnMapper[int32])
	if err != nil {
		return err
	}
	finish.ID = int(id)
	if m := finish.Modifier(); m != nil {
		return r.SetModifier(ctx, finish.ID, m)
	}
	return nil
}

func (r *repo) LoadByRegattaID(ctx context.Context, regattaID int, res api.Resolver) (
	[]*model.Finish, error,
) {
	q := psql.Select(
		sm.Columns(
			"finish.id", "finish.race_id", "finish.team_id", "finish.entered",
			"finish.score", "finish.place", "finish.explanation", "finish.earned",
			"finish_modifier.kind", "finish_modifier.type", "finish_modifier.amount",
			"finish_modifier.displace", "finish_modifier.comments",
		),
		sm.From("finish"),
		sm.InnerJoin("race").On(
			psql.Quote("race", "id").EQ(psql.Quote("finish", "race_id"))),
		sm.LeftJoin("finish_modifier").On(
			psql.Quote("finish_modifier", "finish_id").EQ(psql.Quote("finish", "id"))),
		sm.Where(psql.Quote("race", "regatta_id").EQ(psql.Arg(regattaID))),
		sm.OrderBy(psql.Quote("finish", "entered")).Asc(),
		sm.OrderBy(psql.Quote("finish", "id")).Asc(),
	)
	rows, err := bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[finishRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Finish, 0, len(rows))
	for i := range rows {
		f, err := toModel(&rows[i], res)
		if err != nil {
			return nil, err
		}
		ret = append(ret, f)
	}
	return ret, nil
}

func (r *repo) SetModifier(ctx context.Context, finishID int, m *model.FinishModifier) error {
	if m == nil {
		_, err := bob.Exec(ctx, r.getExecutor(ctx), psql.Delete(
			dm.From("finish_modifier"),
			dm.Where(psql.Quote("finish_id").EQ(psql.Arg(finishID))),
		))
		return err
	}
	q := psql.Insert(
		im.Into("finish_modifier", "finish_id", "kind", "type", "amount",
			"displace", "comments"),
		im.Values(psql.Arg(finishID, m.Kind.String(), m.Type, m.Amount,
			m.Displace, null.FromCond(m.Comments, m.Comments != ""))),
		im.OnConflict("finish_id").DoUpdate(
			im.SetExcluded("kind", "type", "amount", "displace", "comments"),
		),
	)
	_, err := bob.Exec(ctx, r.getExecutor(ctx), q)
	return err
}

func (r *repo) UpdateScores(ctx context.Context, finishes []*model.Finish) (int, error) {
	count := 0
	for _, f := range finishes {
		var score null.Val[int32]
		var place, explanation null.Val[string]
		if f.Score != nil {
			score = null.From(int32(f.Score.Value()))
			place = null.FromCond(f.Score.Place(), f.Score.HasPlace())
			explanation = null.From(f.Score.Explanation())
		}
		q := psql.Update(
			um.Table("finish"),
			um.SetCol("score").To(psql.Arg(score)),
			um.SetCol("place").To(psql.Arg(place)),
			um.SetCol("explanation").To(psql.Arg(explanation)),
			um.SetCol("earned").To(psql.Arg(f.Earned)),
			um.Where(psql.Quote("id").EQ(psql.Arg(f.ID))),
		)
		res, err := bob.Exec(ctx, r.getExecutor(ctx), q)
		if err != nil {
			return count, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return count, err
		}
		count += int(n)
	}
	return count, nil
}

func toModel(row *finishRow, res api.Resolver) (*model.Finish, error) {
	race, err := res.Race(int(row.RaceID))
	if err != nil {
		return nil, err
	}
	team, err := res.Team(int(row.TeamID))
	if err != nil {
		return nil, err
	}
	ret := model.NewFinish(race, team, row.Entered)
	ret.ID = int(row.ID)
	ret.Earned = int(row.Earned.GetOrZero())
	if v, ok := row.Score.Get(); ok {
		ret.SetScore(model.NewPlacedScore(int(v),
			row.Place.GetOrZero(), row.Explanation.GetOrZero()))
	}
	if kind, ok := row.Kind.Get(); ok {
		k, err := model.ParseModifierKind(kind)
		if err != nil {
			return nil, err
		}
		m, err := model.NewModifier(k, row.Type.GetOrZero(), int(row.Amount.GetOrZero()),
			row.Comments.GetOrZero(), row.Displace.GetOrZero())
		if err != nil {
			return nil, err
		}
		ret.SetModifier(m)
	}
	return ret, nil
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	return bobCtx.Executor(ctx, r.conn)
}
