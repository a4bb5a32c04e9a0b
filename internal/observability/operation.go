package observability

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/doorgame/internal/game/gameerr"
)

// Operation correlates the log lines of one engine call.
type Operation struct {
	// Logger carries the op and op_id fields.
	Logger *zap.Logger
	id     string
	name   string
	start  time.Time
}

// StartOperation returns an Operation with a fresh correlation ID.
//
// Precondition: logger must be non-nil.
func StartOperation(logger *zap.Logger, name string, fields ...zap.Field) *Operation {
	id := uuid.NewString()
	fields = append([]zap.Field{zap.String("op", name), zap.String("op_id", id)}, fields...)
	return &Operation{
		Logger: logger.With(fields...),
		id:     id,
		name:   name,
		start:  time.Now(),
	}
}

// ID returns the correlation ID.
func (o *Operation) ID() string { return o.id }

// End logs the outcome. Rule violations are logged at Info with the player-facing
// reason; any other error at Error.
func (o *Operation) End(err error) {
	elapsed := zap.Duration("elapsed", time.Since(o.start))
	var ge *gameerr.Error
	switch {
	case err == nil:
		o.Logger.Info(o.name+" completed", elapsed)
	case gameerr.IsRuleViolation(err) && errors.As(err, &ge):
		o.Logger.Info(o.name+" rejected", elapsed, zap.Stringer("kind", ge.Kind), zap.String("reason", ge.Reason))
	default:
		o.Logger.Error(o.name+" failed", elapsed, zap.Error(err))
	}
}
