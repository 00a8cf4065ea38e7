package tinyframe

import "fmt"

// Peer selects the value of the peer bit, the most significant bit of
// the ID field in locally-allocated frame IDs. The two endpoints of a
// link must use opposite roles so their IDs cannot collide.
type Peer int

// Peer roles.
const (
	// PeerSlave allocates IDs with the peer bit clear
	PeerSlave Peer = 0

	// PeerMaster allocates IDs with the peer bit set
	PeerMaster Peer = 1
)

// String returns the role name.
func (p Peer) String() string {
	switch p {
	case PeerSlave:
		return "slave"
	case PeerMaster:
		return "master"
	default:
		return fmt.Sprintf("Peer(%d)", int(p))
	}
}

// Msg is the in-memory representation of a frame, handed to listener
// callbacks on receive and accepted by the send operations.
type Msg struct {
	// FrameID identifies the frame for request/response correlation.
	// Filled by the engine on send unless IsResponse is set.
	FrameID uint32

	// IsResponse instructs the send path to keep FrameID instead of
	// allocating a fresh ID. Set by Respond.
	IsResponse bool

	// Type is the application-defined message type
	Type uint32

	// Data is the payload. A nil Data on an ID listener callback means
	// the listener timed out; release anything tied to UserData.
	Data []byte

	// UserData is an opaque handle stored with an ID listener at
	// registration and returned verbatim to its callback. The engine
	// never inspects it.
	UserData interface{}
}

// Listener is a callback receiving dispatched messages. Returning true
// consumes the message and stops further dispatch for that frame.
//
// The Msg and its Data are only valid for the duration of the call; a
// listener that needs the payload later must copy it.
type Listener func(msg *Msg) bool
