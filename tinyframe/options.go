package tinyframe

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithLogger sets a logger for engine diagnostics. Without it the
// engine is silent; every outcome the host must act on is reported
// through return values.
//
// Example:
//
//	eng, err := tinyframe.New(cfg, tinyframe.PeerMaster, sink,
//	    tinyframe.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(e *Engine) {
		e.log = logger
	}
}
