package report

import "github.com/yarninisrael/OpenInsight/internal/errors"

const (
	defaultDirPerm = 0o755
	defaultPath    = "router_report.xlsx"
)

type Config struct {
	Path string
}

func DefaultConfig() Config {
	return Config{
		Path: defaultPath,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()
	if c.Path == "" {
		return errFactory.New(ErrInvalidPath)
	}
	return nil
}
