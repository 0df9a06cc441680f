package catalog

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
)

// Stamper reports a cheap fingerprint of the catalog source. A changed
// stamp means the catalog must be reloaded.
type Stamper interface {
	Stamp(ctx context.Context) (string, error)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgxStamp fingerprints the products table by row count and last update.
type PgxStamp struct {
	DB rowQuerier
}

const stampQuery = `SELECT count(*), coalesce(max(updated_at), 'epoch'::timestamptz) FROM products WHERE status = $1`

func (s PgxStamp) Stamp(ctx context.Context) (string, error) {
	var (
		count   int64
		updated time.Time
	)
	if err := s.DB.QueryRow(ctx, stampQuery, models.ProductStatusActive).Scan(&count, &updated); err != nil {
		return "", fmt.Errorf("catalog: stamp: %w", err)
	}
	return strconv.FormatInt(count, 10) + "@" + strconv.FormatInt(updated.UnixNano(), 10), nil
}
