package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mvetten/uniprep/internal/models"
)

type PreparationRepo struct {
	pool *pgxpool.Pool
}

func NewPreparationRepo(pool *pgxpool.Pool) *PreparationRepo {
	return &PreparationRepo{pool: pool}
}

func (r *PreparationRepo) Record(ctx context.Context, p *models.Preparation) (*models.Preparation, error) {
	ts := p.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	day := ActivityDay(ts)

	row := r.pool.QueryRow(ctx,
		`INSERT INTO preparation_history
		 (timestamp, activity_day, chain_id, token_in, token_out, symbol_in, symbol_out,
		  amount_human, amount_raw, slippage_percent, approval_tx_hash, status, fail_reason)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		 RETURNING *`,
		ts, day, p.ChainID, p.TokenIn, p.TokenOut, p.SymbolIn, p.SymbolOut,
		p.AmountHuman, p.AmountRaw, p.SlippagePercent, p.ApprovalTxHash, p.Status, p.FailReason,
	)
	return scanPreparation(row)
}

// GetByDay returns preparations for a given activity day.
// If status is non-empty, filters by terminal status.
func (r *PreparationRepo) GetByDay(ctx context.Context, day, status string) ([]models.Preparation, error) {
	query := `SELECT * FROM preparation_history WHERE activity_day = $1`
	args := []any{day}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY timestamp ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPreparations(rows)
}

// GetAll returns the most recent preparations.
func (r *PreparationRepo) GetAll(ctx context.Context, limit int) ([]models.Preparation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM preparation_history ORDER BY timestamp DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPreparations(rows)
}

// GetStats returns aggregate preparation statistics.
func (r *PreparationRepo) GetStats(ctx context.Context) (*models.PreparationStats, error) {
	var s models.PreparationStats
	err := r.pool.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COUNT(CASE WHEN status = 'prepared' THEN 1 END),
			COUNT(CASE WHEN status = 'failed' THEN 1 END),
			COUNT(approval_tx_hash),
			MIN(timestamp),
			MAX(timestamp)
		 FROM preparation_history`,
	).Scan(&s.Total, &s.Prepared, &s.Failed, &s.ApprovalsSent, &s.FirstRun, &s.LastRun)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PreparationRepo) CountToday(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM preparation_history WHERE activity_day = $1`,
		ActivityDayNow(),
	).Scan(&count)
	return count, err
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

type rowsIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanPreparation(row scannable) (*models.Preparation, error) {
	var p models.Preparation
	var day time.Time
	err := row.Scan(
		&p.ID, &p.Timestamp, &day, &p.ChainID, &p.TokenIn, &p.TokenOut,
		&p.SymbolIn, &p.SymbolOut, &p.AmountHuman, &p.AmountRaw,
		&p.SlippagePercent, &p.ApprovalTxHash, &p.Status, &p.FailReason,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ActivityDay = day.Format("2006-01-02")
	return &p, nil
}

func collectPreparations(rows rowsIter) ([]models.Preparation, error) {
	var out []models.Preparation
	for rows.Next() {
		var p models.Preparation
		var day time.Time
		if err := rows.Scan(
			&p.ID, &p.Timestamp, &day, &p.ChainID, &p.TokenIn, &p.TokenOut,
			&p.SymbolIn, &p.SymbolOut, &p.AmountHuman, &p.AmountRaw,
			&p.SlippagePercent, &p.ApprovalTxHash, &p.Status, &p.FailReason,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		p.ActivityDay = day.Format("2006-01-02")
		out = append(out, p)
	}
	return out, rows.Err()
}
