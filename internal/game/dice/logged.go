package dice

import "go.uber.org/zap"

// loggedSource wraps a Source and logs every draw at debug level.
type loggedSource struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedSource returns a Source that delegates to src and logs each draw.
//
// Precondition: src and logger must be non-nil.
func NewLoggedSource(src Source, logger *zap.Logger) Source {
	return &loggedSource{src: src, logger: logger}
}

// Intn draws from the wrapped source and logs the bound and result.
func (l *loggedSource) Intn(n int) int {
	v := l.src.Intn(n)
	l.logger.Debug("dice draw",
		zap.Int("n", n),
		zap.Int("value", v),
	)
	return v
}

// LoggedFactory wraps every Source produced by f with NewLoggedSource.
func LoggedFactory(f Factory, logger *zap.Logger) Factory {
	return func() Source { return NewLoggedSource(f(), logger) }
}
