package tinyframe

import (
	"github.com/Spread0x/go-tinyframe/protocol"
)

// WriteFunc is the host-provided byte sink. It receives one complete
// frame per call and is expected to emit every byte; transport errors
// are invisible to the engine and must be handled by the host (for
// example by calling ResetParser on the receiving side).
type WriteFunc func(frame []byte)

// Engine is one endpoint of a framed link. The frame buffers and listener
// tables are allocated at construction, sized by the configuration, and
// never grown. The receive and transmit paths are not allocation-free:
// the Msg handed to listener callbacks, the one-byte slice of each
// per-byte checksum update and the diagnostic log arguments escape to
// the heap.
//
// An Engine is not safe for concurrent use. All operations must run on
// a single goroutine or be serialized by the host.
type Engine struct {
	cfg   protocol.Config
	write WriteFunc
	log   Logger

	peer    Peer
	peerBit uint32
	idMask  uint32
	nextID  uint32

	// receive parser
	state     parserState
	collected int
	partial   uint32
	headCk    uint32
	payloadCk uint32
	rxID      uint32
	rxLen     int
	rxType    uint32
	rxBuf     []byte
	rxCursor  int
	idleTicks int

	// transmit frame assembly
	txBuf []byte

	idListeners   []idListener
	typeListeners []typeListener
	genListeners  []genericListener
}

// idListener waits for one frame with a specific ID, with an optional
// tick-based expiry. A slot with a nil cb is free.
type idListener struct {
	cb       Listener
	id       uint32
	userData interface{}
	ticks    int // remaining ticks; not decremented when ticksMax == 0
	ticksMax int // 0 = never expires
}

// typeListener matches frames by message type. A slot with a nil cb is
// free.
type typeListener struct {
	cb        Listener
	frameType uint32
}

// genericListener matches any frame. A slot with a nil cb is free.
type genericListener struct {
	cb Listener
}

// New builds an engine for one link endpoint. The configuration is
// validated and fatal errors are reported before any state is created;
// write is the mandatory byte sink.
//
// Example:
//
//	eng, err := tinyframe.New(protocol.DefaultConfig(), tinyframe.PeerMaster,
//	    func(frame []byte) { port.Write(frame) })
func New(cfg protocol.Config, peer Peer, write WriteFunc, opts ...Option) (*Engine, error) {
	if write == nil {
		panic("write sink cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:           cfg,
		write:         write,
		rxBuf:         make([]byte, cfg.MaxPayloadRx),
		txBuf:         make([]byte, cfg.MaxPayloadTx+cfg.Overhead()),
		idListeners:   make([]idListener, cfg.MaxIDListeners),
		typeListeners: make([]typeListener, cfg.MaxTypeListeners),
		genListeners:  make([]genericListener, cfg.MaxGenericListeners),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.Init(peer)
	return e, nil
}

// Init resets the engine completely: the parser returns to its initial
// state, all listener tables are emptied (without timeout callbacks) and
// the ID counter restarts from zero with the given peer role.
func (e *Engine) Init(peer Peer) {
	e.peer = peer
	e.peerBit = 0
	if peer == PeerMaster {
		e.peerBit = e.cfg.PeerBit()
	}
	e.idMask = e.cfg.IDMask()
	e.nextID = 0

	for i := range e.idListeners {
		e.idListeners[i] = idListener{}
	}
	for i := range e.typeListeners {
		e.typeListeners[i] = typeListener{}
	}
	for i := range e.genListeners {
		e.genListeners[i] = genericListener{}
	}

	e.resetParser()
}

// ResetParser discards any partial frame and returns the parser to its
// initial state. Registered listeners are unaffected. Intended for the
// host to call on transport-level errors (framing errors, breaks).
func (e *Engine) ResetParser() {
	e.resetParser()
}

// Config returns the link configuration the engine was built with.
func (e *Engine) Config() protocol.Config {
	return e.cfg
}

// Peer returns the local peer role.
func (e *Engine) Peer() Peer {
	return e.peer
}

// allocID produces the next outbound frame ID: the wrapping counter
// masked to the ID field with the peer bit forced to the local role.
func (e *Engine) allocID() uint32 {
	id := (e.nextID & e.idMask) | e.peerBit
	e.nextID++
	return id
}
