package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/myfxbook-data/internal/model"
	"github.com/rickgao/myfxbook-data/myfxbook"
)

// ErrNoData is returned by PollOnce when every fetch in a cycle failed.
var ErrNoData = errors.New("poll produced no data")

// Source is the subset of the myfxbook client the poller needs.
type Source interface {
	GetCommunityOutlook(ctx context.Context) (*myfxbook.OutlookResponse, error)
	GetCommunityOutlookByCountry(ctx context.Context, symbol string) (*myfxbook.OutlookByCountryResponse, error)
	GetDailyGain(ctx context.Context, id int64, start, end string) (*myfxbook.DailyGainResponse, error)
}

// Store persists snapshots.
type Store interface {
	WriteSnapshot(ctx context.Context, s model.Snapshot) error
}

// StoreFunc is a function adapter for Store.
type StoreFunc func(context.Context, model.Snapshot) error

func (f StoreFunc) WriteSnapshot(ctx context.Context, s model.Snapshot) error {
	return f(ctx, s)
}

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // Poll interval (default: 15m)
	Concurrency int           // Max concurrent requests (default: 4)
	Timeout     time.Duration // Per-request timeout (default: 30s)
	Symbols     []string      // Symbols for the by-country outlook
	Accounts    []int64       // Accounts for daily gain
	HistoryDays int           // Days of daily gain per cycle, ending today (default: 7)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    15 * time.Minute,
		Concurrency: 4,
		Timeout:     30 * time.Second,
		HistoryDays: 7,
	}
}

// Stats counts poller activity.
type Stats struct {
	Cycles  int64 // Completed cycles
	Fetched int64 // Successful fetches
	Errors  int64 // Failed fetches and writes
}

// Poller periodically records Myfxbook snapshots.
type Poller struct {
	cfg    Config
	source Source
	store  Store
	logger *slog.Logger
	now    func() time.Time

	cycles   atomic.Int64
	fetched  atomic.Int64
	failures atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller. A nil store discards snapshots.
func New(cfg Config, source Source, store Store, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.HistoryDays < 1 {
		cfg.HistoryDays = def.HistoryDays
	}
	return &Poller{
		cfg:    cfg,
		source: source,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Stats returns current counters.
func (p *Poller) Stats() Stats {
	return Stats{
		Cycles:  p.cycles.Load(),
		Fetched: p.fetched.Load(),
		Errors:  p.failures.Load(),
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("snapshot poller started",
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
		"symbols", len(p.cfg.Symbols),
		"accounts", len(p.cfg.Accounts),
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("snapshot poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.cycle()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.cycle()
		}
	}
}

func (p *Poller) cycle() {
	if _, err := p.PollOnce(p.ctx); err != nil && p.ctx.Err() == nil {
		p.logger.Warn("poll cycle failed", "err", err)
	}
}

// PollOnce runs one cycle and stores the result. Individual fetch failures
// are logged and counted; the partial snapshot is still stored. It fails
// only when nothing was fetched or the store rejects the snapshot.
func (p *Poller) PollOnce(ctx context.Context) (model.Snapshot, error) {
	start := p.now().UTC()
	snap := model.Snapshot{
		ID:      uuid.New(),
		TakenAt: start,
	}

	var (
		mu     sync.Mutex
		failed atomic.Int64
	)
	fetch := func(kind string, attrs []any, fn func(ctx context.Context) error) func() error {
		return func() error {
			reqCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
			defer cancel()

			if err := fn(reqCtx); err != nil {
				failed.Add(1)
				p.logger.Warn("fetch failed", append([]any{"kind", kind, "err", err}, attrs...)...)
				return nil
			}
			p.fetched.Add(1)
			return nil
		}
	}

	var g errgroup.Group
	g.SetLimit(p.cfg.Concurrency)

	g.Go(fetch("outlook", nil, func(ctx context.Context) error {
		resp, err := p.source.GetCommunityOutlook(ctx)
		if err != nil {
			return err
		}
		symbols, general := model.FromOutlook(resp)
		mu.Lock()
		snap.Symbols, snap.General = symbols, general
		mu.Unlock()
		return nil
	}))

	for _, symbol := range p.cfg.Symbols {
		g.Go(fetch("outlook_by_country", []any{"symbol", symbol}, func(ctx context.Context) error {
			resp, err := p.source.GetCommunityOutlookByCountry(ctx, symbol)
			if err != nil {
				return err
			}
			rows := model.FromOutlookByCountry(symbol, resp)
			mu.Lock()
			snap.Countries = append(snap.Countries, rows...)
			mu.Unlock()
			return nil
		}))
	}

	end := start.Truncate(24 * time.Hour)
	from := end.AddDate(0, 0, -(p.cfg.HistoryDays - 1))
	for _, id := range p.cfg.Accounts {
		g.Go(fetch("daily_gain", []any{"account_id", id}, func(ctx context.Context) error {
			resp, err := p.source.GetDailyGain(ctx, id, myfxbook.FormatDate(from), myfxbook.FormatDate(end))
			if err != nil {
				return err
			}
			rows, err := model.FromDailyGain(id, resp)
			if err != nil {
				return err
			}
			mu.Lock()
			snap.DailyGain = append(snap.DailyGain, rows...)
			mu.Unlock()
			return nil
		}))
	}

	// Fetch functions swallow their errors.
	_ = g.Wait()

	p.failures.Add(failed.Load())

	if err := ctx.Err(); err != nil {
		return snap, err
	}
	if snap.Empty() {
		return snap, ErrNoData
	}

	if p.store != nil {
		if err := p.store.WriteSnapshot(ctx, snap); err != nil {
			p.failures.Add(1)
			return snap, err
		}
	}

	p.cycles.Add(1)
	p.logger.Info("poll cycle complete",
		"snapshot_id", snap.ID,
		"symbols", len(snap.Symbols),
		"countries", len(snap.Countries),
		"daily_gain", len(snap.DailyGain),
		"errors", failed.Load(),
		"duration", p.now().Sub(start),
	)

	return snap, nil
}
