package collect

import (
	"context"

	"github.com/yarninisrael/OpenInsight/internal/report"
	"github.com/yarninisrael/OpenInsight/internal/router"
)

// Session is the remote shell a cycle runs its probe commands on.
type Session interface {
	Run(ctx context.Context, command string) (string, error)
	Close() error
}

// DialFunc opens a session to the router.
type DialFunc func(cfg router.Config) (Session, error)

// OpenStoreFunc opens the report workbook for one cycle.
type OpenStoreFunc func(cfg report.Config) (report.Store, error)

func defaultDial(cfg router.Config) (Session, error) {
	return router.Connect(cfg)
}

func defaultOpenStore(cfg report.Config) (report.Store, error) {
	return report.Open(cfg)
}
