package cmd

import (
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

// NewLogger builds the process logger: zap's production encoder behind the
// slog API the rest of the code takes. Call sync before exiting.
func NewLogger(level string) (logger *slog.Logger, sync func(), err error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	zl, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	return slog.New(zapslog.NewHandler(zl.Core())), func() { _ = zl.Sync() }, nil
}
