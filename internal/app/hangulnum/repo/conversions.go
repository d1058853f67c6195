package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"hangulnum.local/internal/app/hangulnum/stats"
)

var conversionColumns = []string{"op", "number", "text", "seed", "ok", "err", "ip", "created_at"}

type ConversionsRepo struct {
	db *pgxpool.Pool
}

func NewConversionsRepo(db *pgxpool.Pool) *ConversionsRepo {
	return &ConversionsRepo{db: db}
}

var _ stats.Sink = (*ConversionsRepo)(nil)

// SaveBatch 用 COPY 一次写入整批事件。
func (r *ConversionsRepo) SaveBatch(ctx context.Context, events []stats.ConversionEvent) error {
	if len(events) == 0 {
		return nil
	}
	_, err := r.db.CopyFrom(ctx, pgx.Identifier{"conversion_events"}, conversionColumns,
		pgx.CopyFromSlice(len(events), func(i int) ([]any, error) {
			return eventRow(events[i]), nil
		}))
	return err
}

func eventRow(e stats.ConversionEvent) []any {
	var seed any // NULL
	if e.Seed != nil {
		seed = int16(*e.Seed)
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	return []any{string(e.Op), e.Number, e.Text, seed, e.OK, e.Err, e.IP, at}
}

// OpSummary 某个操作在时间窗口内的计数。
type OpSummary struct {
	Op     string `json:"op"`
	Total  int64  `json:"total"`
	Failed int64  `json:"failed"`
}

// Summary 统计 since 之后每种操作的次数，按 op 排序。
func (r *ConversionsRepo) Summary(ctx context.Context, since time.Time) ([]OpSummary, error) {
	dbctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.Query(dbctx, `
SELECT op, COUNT(*), COUNT(*) FILTER (WHERE NOT ok)
FROM conversion_events
WHERE created_at >= $1
GROUP BY op
ORDER BY op`, since)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (OpSummary, error) {
		var s OpSummary
		err := row.Scan(&s.Op, &s.Total, &s.Failed)
		return s, err
	})
}

// Ping 给 /readyz 用。
func (r *ConversionsRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
