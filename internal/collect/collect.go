// Package collect runs the poll cycle: harvest health output from the
// router over SSH, append it to the report workbook, and regenerate
// the dashboard from the accumulated history.
package collect

import (
	"context"
	"time"

	"github.com/yarninisrael/OpenInsight/internal/dashboard"
	"github.com/yarninisrael/OpenInsight/internal/errors"
	"github.com/yarninisrael/OpenInsight/internal/harvest"
	"github.com/yarninisrael/OpenInsight/internal/logger"
	"github.com/yarninisrael/OpenInsight/internal/report"
	"github.com/yarninisrael/OpenInsight/internal/router"
)

type Config struct {
	Router         router.Config
	Report         report.Config
	CommandTimeout time.Duration
}

// Collector runs collection cycles against one router and one report
// workbook.
type Collector struct {
	cfg  Config
	dial DialFunc
	open OpenStoreFunc
	now  func() time.Time
}

type Option func(*Collector)

// WithDialFunc replaces how the collector reaches the router.
func WithDialFunc(dial DialFunc) Option {
	return func(c *Collector) { c.dial = dial }
}

// WithStoreOpener replaces how the collector opens the workbook.
func WithStoreOpener(open OpenStoreFunc) Option {
	return func(c *Collector) { c.open = open }
}

// WithTimeSource replaces the snapshot timestamp source.
func WithTimeSource(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

func New(cfg Config, opts ...Option) *Collector {
	c := &Collector{
		cfg:  cfg,
		dial: defaultDial,
		open: defaultOpenStore,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cycle performs one harvest: connect, run the three probes, append
// the snapshot to both history sheets, save, and rebuild the
// dashboard. Connect and command failures abort the cycle before
// anything is recorded. A locked report file costs the cycle its rows
// but is not an error; the next cycle retries with fresh data.
func (c *Collector) Cycle(ctx context.Context) error {
	session, err := c.dial(c.cfg.Router)
	if err != nil {
		return err
	}
	defer session.Close()

	loadRaw, err := c.run(ctx, session, harvest.LoadAverageCommand)
	if err != nil {
		return err
	}
	countRaw, err := c.run(ctx, session, harvest.ProcessCountCommand)
	if err != nil {
		return err
	}
	topRaw, err := c.run(ctx, session, harvest.TopProcessesCommand)
	if err != nil {
		return err
	}

	snapshot := harvest.Extract(c.now(), loadRaw, countRaw, topRaw)

	store, err := c.open(c.cfg.Report)
	if err != nil {
		return err
	}
	defer store.Close()

	healthRow, processRow, err := store.Record(ctx, snapshot)
	if err != nil {
		return err
	}

	if err := store.Save(); err != nil {
		if errors.HasCode(err, report.ErrLocked) {
			logger.Warn().
				Str("path", c.cfg.Report.Path).
				Msg("Report file is locked, dropping this cycle's rows")
			return nil
		}
		return err
	}

	logger.Info().
		Int("health_row", healthRow).
		Int("process_row", processRow).
		Msg("Snapshot recorded")

	if err := dashboard.Rebuild(store); err != nil {
		if errors.HasCode(err, report.ErrLocked) {
			logger.Warn().
				Str("path", c.cfg.Report.Path).
				Msg("Report file is locked, dashboard not refreshed")
			return nil
		}
		return err
	}

	return nil
}

// run executes one probe under the configured per-command timeout.
func (c *Collector) run(ctx context.Context, session Session, command string) (string, error) {
	if c.cfg.CommandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.CommandTimeout)
		defer cancel()
	}
	return session.Run(ctx, command)
}
