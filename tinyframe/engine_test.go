package tinyframe

import (
	"errors"
	"testing"

	"github.com/Spread0x/go-tinyframe/protocol"
)

// sink captures frames emitted by an engine under test.
type sink struct {
	frames [][]byte
}

func (s *sink) write(frame []byte) {
	cp := make([]byte, len(frame))
	copy(cp, frame)
	s.frames = append(s.frames, cp)
}

func (s *sink) last() []byte {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func newTestEngine(t *testing.T, cfg protocol.Config, peer Peer) (*Engine, *sink) {
	t.Helper()
	out := &sink{}
	eng, err := New(cfg, peer, out.write)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return eng, out
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := protocol.DefaultConfig()
	cfg.IDBytes = 3

	_, err := New(cfg, PeerMaster, func([]byte) {})
	if err == nil {
		t.Fatal("New() = nil error, want config error")
	}

	var cfgErr *protocol.InvalidConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("New() error = %T, want *protocol.InvalidConfigError", err)
	}
}

func TestNewNilSinkPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on nil sink")
		}
	}()
	New(protocol.DefaultConfig(), PeerMaster, nil)
}

func TestInitClearsState(t *testing.T) {
	eng, out := newTestEngine(t, protocol.DefaultConfig(), PeerMaster)

	if err := eng.AddTypeListener(0x10, func(*Msg) bool { return true }); err != nil {
		t.Fatalf("AddTypeListener: %v", err)
	}
	if err := eng.SendSimple(0x10, nil); err != nil {
		t.Fatalf("SendSimple: %v", err)
	}

	eng.Init(PeerSlave)

	// ID counter restarted with the slave peer bit.
	msg := Msg{Type: 0x10}
	if err := eng.Send(&msg, nil, 0); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if msg.FrameID != 0x00 {
		t.Errorf("first ID after Init(PeerSlave) = 0x%02X, want 0x00", msg.FrameID)
	}

	// Type listener table emptied: a frame of that type falls through to
	// the generic tier.
	invoked := false
	eng.AddGenericListener(func(*Msg) bool { invoked = true; return true })
	eng.Accept(out.last())
	if !invoked {
		t.Error("generic listener not invoked; frame lost")
	}
	if eng.findTypeSlot(0x10) != nil {
		t.Error("type listener survived Init")
	}
}

// Two engines wired back to back: a query from the master is answered
// by a slave type listener responding from inside its callback, and the
// master's ID listener receives the response. Exercises reentrant Send
// and the full correlation path.
func TestQueryResponseLoopback(t *testing.T) {
	cfg := protocol.DefaultConfig()

	var master, slave *Engine
	var err error
	master, err = New(cfg, PeerMaster, func(frame []byte) {
		slave.Accept(frame)
	})
	if err != nil {
		t.Fatalf("New(master): %v", err)
	}
	slave, err = New(cfg, PeerSlave, func(frame []byte) {
		master.Accept(frame)
	})
	if err != nil {
		t.Fatalf("New(slave): %v", err)
	}

	const reqType = 0x22
	slave.AddTypeListener(reqType, func(msg *Msg) bool {
		reply := Msg{FrameID: msg.FrameID, Type: msg.Type, Data: []byte("pong")}
		if err := slave.Respond(&reply, false); err != nil {
			t.Errorf("Respond: %v", err)
		}
		return true
	})

	var got []byte
	var gotUserData interface{}
	err = master.QuerySimple(reqType, []byte("ping"), func(msg *Msg) bool {
		got = append([]byte(nil), msg.Data...)
		gotUserData = msg.UserData
		return true
	}, 10)
	if err != nil {
		t.Fatalf("QuerySimple: %v", err)
	}

	if string(got) != "pong" {
		t.Errorf("response payload = %q, want %q", got, "pong")
	}
	if gotUserData != nil {
		t.Errorf("UserData = %v, want nil", gotUserData)
	}

	// The ID listener was consumed; further ticks must not fire it.
	for i := 0; i < 20; i++ {
		master.Tick()
	}
	if string(got) != "pong" {
		t.Errorf("ID listener fired again after ticks; payload now %q", got)
	}
}

func TestUserDataRoundtrip(t *testing.T) {
	cfg := protocol.DefaultConfig()

	var master, slave *Engine
	master, _ = New(cfg, PeerMaster, func(frame []byte) { slave.Accept(frame) })
	slave, _ = New(cfg, PeerSlave, func(frame []byte) { master.Accept(frame) })

	slave.AddTypeListener(0x01, func(msg *Msg) bool {
		reply := Msg{FrameID: msg.FrameID, Type: msg.Type}
		slave.Respond(&reply, false)
		return true
	})

	type requestState struct{ tag string }
	want := &requestState{tag: "state"}

	var got interface{}
	msg := Msg{Type: 0x01, UserData: want}
	err := master.Send(&msg, func(m *Msg) bool {
		got = m.UserData
		return true
	}, 0)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got != want {
		t.Errorf("UserData handed back = %v, want the registered handle", got)
	}
}
