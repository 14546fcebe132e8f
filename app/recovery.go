package app

import (
	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ valgov.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (Recovery) Check(ctx valgov.Context, store valgov.KVStore, tx valgov.Tx, next valgov.Checker) (_ *valgov.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (Recovery) Deliver(ctx valgov.Context, store valgov.KVStore, tx valgov.Tx, next valgov.Deliverer) (_ *valgov.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ valgov.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs the result of checking a transaction
func (Logging) Check(ctx valgov.Context, store valgov.KVStore, tx valgov.Tx, next valgov.Checker) (*valgov.CheckResult, error) {
	res, err := next.Check(ctx, store, tx)
	logResult(ctx, "check", err)
	return res, err
}

// Deliver logs the result of delivering a transaction
func (Logging) Deliver(ctx valgov.Context, store valgov.KVStore, tx valgov.Tx, next valgov.Deliverer) (*valgov.DeliverResult, error) {
	res, err := next.Deliver(ctx, store, tx)
	logResult(ctx, "deliver", err)
	return res, err
}

func logResult(ctx valgov.Context, step string, err error) {
	info := valgov.GetLogger(ctx)
	if err != nil {
		info.Error(step, "err", err.Error())
		return
	}
	info.Debug(step)
}
