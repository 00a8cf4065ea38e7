// Package transport ties a tinyframe engine to a byte-stream link such
// as a serial port, TCP connection or pipe.
//
// The engine itself is transport-agnostic and not safe for concurrent
// use; Link supplies the serialization domain: one loop owns the
// engine and multiplexes received bytes, periodic ticks and
// host-submitted operations.
//
//	link, err := transport.New(cfg, tinyframe.PeerMaster, port)
//	link.Engine().AddTypeListener(0x22, onTelemetry)
//	err = link.Run(ctx)
package transport

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/Spread0x/go-tinyframe/protocol"
	"github.com/Spread0x/go-tinyframe/tinyframe"
)

// Default link parameters.
const (
	// DefaultTickInterval drives engine timeouts at 10 ms per tick
	DefaultTickInterval = 10 * time.Millisecond

	// DefaultReadBufferSize is the read chunk size in bytes
	DefaultReadBufferSize = 512
)

// Link runs a tinyframe engine over an io.ReadWriter. All engine
// interaction after Run starts must happen from listener callbacks or
// through Do.
type Link struct {
	eng *tinyframe.Engine
	rw  io.ReadWriter
	log zerolog.Logger

	tickInterval time.Duration
	readBufSize  int
	ops          chan func(*tinyframe.Engine)
}

// Option is a functional option for configuring a Link.
type Option func(*Link)

// WithTickInterval sets the wall-clock duration of one engine tick.
// Listener and parser timeouts are expressed in these units.
func WithTickInterval(d time.Duration) Option {
	return func(l *Link) {
		if d > 0 {
			l.tickInterval = d
		}
	}
}

// WithReadBufferSize sets the read chunk size.
func WithReadBufferSize(n int) Option {
	return func(l *Link) {
		if n > 0 {
			l.readBufSize = n
		}
	}
}

// WithLogger sets the link logger. The engine's own diagnostics are
// routed through it at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Link) {
		l.log = logger
	}
}

// New builds a Link and its engine for one endpoint of a framed
// connection. The engine writes outbound frames directly to rw.
func New(cfg protocol.Config, peer tinyframe.Peer, rw io.ReadWriter, opts ...Option) (*Link, error) {
	l := &Link{
		rw:           rw,
		log:          zerolog.Nop(),
		tickInterval: DefaultTickInterval,
		readBufSize:  DefaultReadBufferSize,
		ops:          make(chan func(*tinyframe.Engine), 16),
	}
	for _, opt := range opts {
		opt(l)
	}

	eng, err := tinyframe.New(cfg, peer, l.writeFrame,
		tinyframe.WithLogger(engineLogger{log: l.log}))
	if err != nil {
		return nil, err
	}
	l.eng = eng
	return l, nil
}

// Engine returns the link's engine. Before Run starts it may be used
// directly; afterwards only from listener callbacks or through Do.
func (l *Link) Engine() *tinyframe.Engine {
	return l.eng
}

// Do submits fn to run on the link loop with exclusive access to the
// engine. It queues fn and blocks only while the operation queue (16
// entries) is full; fn itself runs asynchronously.
func (l *Link) Do(fn func(*tinyframe.Engine)) {
	l.ops <- fn
}

// Run pumps the link until ctx is cancelled or the reader fails. A
// clean EOF from the peer returns nil.
func (l *Link) Run(ctx context.Context) error {
	readCh := make(chan []byte, 16)
	errCh := make(chan error, 1)

	go l.readLoop(ctx, readCh, errCh)

	ticker := time.NewTicker(l.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-errCh:
			if errors.Is(err, io.EOF) {
				l.log.Debug().Msg("link closed by peer")
				return nil
			}
			l.log.Error().Err(err).Msg("link read failed")
			return err

		case chunk := <-readCh:
			l.eng.Accept(chunk)

		case <-ticker.C:
			l.eng.Tick()

		case fn := <-l.ops:
			fn(l.eng)
		}
	}
}

func (l *Link) readLoop(ctx context.Context, readCh chan<- []byte, errCh chan<- error) {
	buf := make([]byte, l.readBufSize)
	for {
		n, err := l.rw.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case readCh <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			select {
			case errCh <- err:
			case <-ctx.Done():
			}
			return
		}
	}
}

// writeFrame is the engine's byte sink. Transport errors are logged and
// otherwise swallowed; frame loss is recovered by the protocol's ID
// listener timeouts.
func (l *Link) writeFrame(frame []byte) {
	if _, err := l.rw.Write(frame); err != nil {
		l.log.Error().Err(err).Int("len", len(frame)).Msg("link write failed")
	}
}

// engineLogger adapts zerolog to the engine's Logger interface.
type engineLogger struct {
	log zerolog.Logger
}

func (a engineLogger) Debug(msg string, keysAndValues ...interface{}) {
	a.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (a engineLogger) Error(msg string, keysAndValues ...interface{}) {
	a.log.Error().Fields(keysAndValues).Msg(msg)
}
