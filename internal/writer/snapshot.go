package writer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/myfxbook-data/internal/model"
)

const (
	insertSnapshot = `
		INSERT INTO snapshots (snapshot_id, taken_at)
		VALUES ($1, $2)
		ON CONFLICT (snapshot_id) DO NOTHING`

	insertOutlookSymbol = `
		INSERT INTO outlook_symbols (snapshot_id, symbol, short_percentage, long_percentage,
			short_volume, long_volume, short_positions, long_positions, total_positions,
			avg_short_price, avg_long_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (snapshot_id, symbol) DO NOTHING`

	insertOutlookGeneral = `
		INSERT INTO outlook_general (snapshot_id, demo_accounts_percentage, real_accounts_percentage,
			profitable_percentage, non_profitable_percentage, funds_won, funds_lost,
			average_deposit, average_account_profit, average_account_loss, total_funds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (snapshot_id) DO NOTHING`

	insertOutlookCountry = `
		INSERT INTO outlook_countries (snapshot_id, symbol, country_code, country_name,
			long_volume, short_volume, long_positions, short_positions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (snapshot_id, symbol, country_code) DO NOTHING`

	upsertDailyGain = `
		INSERT INTO daily_gain (account_id, day, value, profit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id, day) DO UPDATE SET value = EXCLUDED.value, profit = EXCLUDED.profit`
)

// Metrics counts writer activity.
type Metrics struct {
	Snapshots int64 // Snapshots committed
	Inserts   int64 // Rows inserted or updated
	Conflicts int64 // Rows skipped as duplicates
	Errors    int64 // Failed snapshot writes
}

// Writer writes snapshots to PostgreSQL.
type Writer struct {
	db     *pgxpool.Pool
	logger *slog.Logger

	mu      sync.Mutex
	metrics Metrics
}

// New creates a Writer.
func New(db *pgxpool.Pool, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		db:     db,
		logger: logger,
	}
}

// Stats returns current metrics.
func (w *Writer) Stats() Metrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// WriteSnapshot stores s and all its rows in one transaction.
func (w *Writer) WriteSnapshot(ctx context.Context, s model.Snapshot) error {
	start := time.Now()
	batch := buildBatch(s)

	var conflicts int
	err := pgx.BeginFunc(ctx, w.db, func(tx pgx.Tx) error {
		results := tx.SendBatch(ctx, batch)
		n, err := execAll(results, batch.Len())
		if closeErr := results.Close(); err == nil {
			err = closeErr
		}
		conflicts = n
		return err
	})
	if err != nil {
		w.mu.Lock()
		w.metrics.Errors++
		w.mu.Unlock()
		return fmt.Errorf("write snapshot %s: %w", s.ID, err)
	}

	// The snapshots row itself is not counted.
	rows := batch.Len() - 1

	w.mu.Lock()
	w.metrics.Snapshots++
	w.metrics.Inserts += int64(rows - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.mu.Unlock()

	w.logger.Debug("wrote snapshot",
		"snapshot_id", s.ID,
		"rows", rows,
		"conflicts", conflicts,
		"duration", time.Since(start),
	)

	return nil
}

// execAll reads n results and counts statements that affected no rows.
// The first result is the snapshots row.
func execAll(results pgx.BatchResults, n int) (int, error) {
	conflicts := 0
	for i := 0; i < n; i++ {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if i > 0 && ct.RowsAffected() == 0 {
			conflicts++
		}
	}
	return conflicts, nil
}

// buildBatch queues the snapshots row followed by every data row.
func buildBatch(s model.Snapshot) *pgx.Batch {
	batch := &pgx.Batch{}

	batch.Queue(insertSnapshot, s.ID, s.TakenAt)

	for _, r := range s.Symbols {
		batch.Queue(insertOutlookSymbol,
			s.ID, r.Symbol, r.ShortPercentage, r.LongPercentage,
			r.ShortVolume, r.LongVolume, r.ShortPositions, r.LongPositions, r.TotalPositions,
			r.AvgShortPrice, r.AvgLongPrice,
		)
	}

	if g := s.General; g != nil {
		batch.Queue(insertOutlookGeneral,
			s.ID, g.DemoAccountsPercentage, g.RealAccountsPercentage,
			g.ProfitablePercentage, g.NonProfitablePercentage, g.FundsWon, g.FundsLost,
			g.AverageDeposit, g.AverageAccountProfit, g.AverageAccountLoss, g.TotalFunds,
		)
	}

	for _, r := range s.Countries {
		batch.Queue(insertOutlookCountry,
			s.ID, r.Symbol, r.CountryCode, r.CountryName,
			r.LongVolume, r.ShortVolume, r.LongPositions, r.ShortPositions,
		)
	}

	for _, r := range s.DailyGain {
		batch.Queue(upsertDailyGain, r.AccountID, r.Day, r.Value, r.Profit)
	}

	return batch
}
