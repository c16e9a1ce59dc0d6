package loading

import (
	"context"
	"time"

	"github.com/goto/salt/log"
)

// Operation is any long-running action worth an indicator: imports,
// exports, backups, uploads.
type Operation func(ctx context.Context) error

// WithIndicator decorates an operation with start/finish reporting under
// a label. Callers compose it explicitly where they want feedback; there
// is no ambient wrapping of anything.
func WithIndicator(logger log.Logger, label string, op Operation) Operation {
	if logger == nil {
		logger = log.NewNoop()
	}

	return func(ctx context.Context) error {
		started := time.Now()
		logger.Info(label, "state", "started")

		err := op(ctx)
		elapsed := time.Since(started).Round(time.Millisecond)
		if err != nil {
			logger.Error(label, "state", "failed", "elapsed", elapsed.String(), "err", err)
			return err
		}

		logger.Info(label, "state", "done", "elapsed", elapsed.String())
		return nil
	}
}
