//nolint:whitespace // can't make both editor and linter happy
package race

import (
	"context"
	"fmt"

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
	raceRow struct {
		ID        int32            `db:"id"`
		Division  string           `db:"division"`
		Number    int32            `db:"number"`
		Boat      null.Val[string] `db:"boat"`
		TrTeam1   null.Val[int32]  `db:"tr_team1"`
		TrTeam2   null.Val[int32]  `db:"tr_team2"`
		TrIgnore1 bool             `db:"tr_ignore1"`
		TrIgnore2 bool             `db:"tr_ignore2"`
	}
)

var _ api.RaceRepository = (*repo)(nil)

func NewRaceRepository(conn bob.Executor) api.RaceRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(ctx context.Context, regattaID int, race *model.Race) error {
	q := psql.Insert(
		im.Into("race", "regatta_id", "division", "number", "boat",
			"tr_team1", "tr_team2", "tr_ignore1", "tr_ignore2"),
		im.Values(psql.Arg(
			regattaID,
			string(race.Division),
			race.Number,
			null.FromCond(race.Boat, race.Boat != ""),
			teamID(race.TrTeam1),
			teamID(race.TrTeam2),
			race.TrIgnore1,
			race.TrIgnore2,
		)),
		im.Returning("id"),
	)
	id, err := bob.One(ctx, r.getExecutor(ctx), q, scan.SingleColumnMapper[int32])
	if err != nil {
		return err
	}
	race.ID = int(id)
	return nil
}

func (r *repo) LoadByRegattaID(ctx context.Context, regattaID int, res api.Resolver) (
	[]*model.Race, error,
) {
	q := psql.Select(
		sm.Columns("id", "division", "number", "boat",
			"tr_team1", "tr_team2", "tr_ignore1", "tr_ignore2"),
		sm.From("race"),
		sm.Where(psql.Quote("regatta_id").EQ(psql.Arg(regattaID))),
		sm.OrderBy("number").Asc(),
		sm.OrderBy("division").Asc(),
	)
	rows, err := bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[raceRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Race, 0, len(rows))
	for i := range rows {
		race, err := toModel(&rows[i], res)
		if err != nil {
			return nil, err
		}
		ret = append(ret, race)
	}
	return ret, nil
}

func toModel(row *raceRow, res api.Resolver) (*model.Race, error) {
	div, err := model.ParseDivision(row.Division)
	if err != nil {
		return nil, fmt.Errorf("race %d: %w", row.ID, err)
	}
	ret := &model.Race{
		ID:        int(row.ID),
		Division:  div,
		Number:    int(row.Number),
		Boat:      row.Boat.GetOrZero(),
		TrIgnore1: row.TrIgnore1,
		TrIgnore2: row.TrIgnore2,
	}
	if id, ok := row.TrTeam1.Get(); ok {
		if ret.TrTeam1, err = res.Team(int(id)); err != nil {
			return nil, err
		}
	}
	if id, ok := row.TrTeam2.Get(); ok {
		if ret.TrTeam2, err = res.Team(int(id)); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func teamID(t *model.Team) null.Val[int32] {
	if t == nil {
		return null.Val[int32]{}
	}
	return null.From(int32(t.ID))
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	return bobCtx.Executor(ctx, r.conn)
}
