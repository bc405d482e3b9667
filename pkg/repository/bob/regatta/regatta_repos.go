//nolint:whitespace // can't make both editor and linter happy
package regatta

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
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
	regattaRow struct {
		ID        int32     `db:"id"`
		Key       uuid.UUID `db:"regatta_key"`
		Name      string    `db:"name"`
		Scoring   string    `db:"scoring"`
		StartDate time.Time `db:"start_date"`
	}
)

var _ api.RegattaRepository = (*repo)(nil)

func NewRegattaRepository(conn bob.Executor) api.RegattaRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(ctx context.Context, info *model.RegattaInfo) error {
	if info.Key == uuid.Nil {
		info.Key = uuid.New()
	}
	if info.Scoring == "" {
		info.Scoring = model.ScoringStandard
	}
	q := psql.Insert(
		im.Into("regatta", "regatta_key", "name", "scoring", "start_date"),
		im.Values(psql.Arg(info.Key, info.Name, string(info.Scoring), info.StartDate)),
		im.Returning("id"),
	)
	id, err := bob.One(ctx, r.getExecutor(ctx), q, scan.SingleColumnMapper[int32])
	if err != nil {
		return err
	}
	info.ID = int(id)
	return nil
}

func (r *repo) LoadByID(ctx context.Context, id int) (*model.RegattaInfo, error) {
	q := psql.Select(
		sm.Columns("id", "regatta_key", "name", "scoring", "start_date"),
		sm.From("regatta"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[regattaRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, api.ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	scoring, err := model.ParseScoringFormat(row.Scoring)
	if err != nil {
		return nil, err
	}
	return &model.RegattaInfo{
		ID:        int(row.ID),
		Key:       row.Key,
		Name:      row.Name,
		Scoring:   scoring,
		StartDate: row.StartDate,
	}, nil
}

// deletes an entry from the database, returns number of rows deleted.
// Teams, races and finishes are removed by cascade.
func (r *repo) DeleteByID(ctx context.Context, id int) (int, error) {
	res, err := bob.Exec(ctx, r.getExecutor(ctx), psql.Delete(
		dm.From("regatta"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	return bobCtx.Executor(ctx, r.conn)
}
