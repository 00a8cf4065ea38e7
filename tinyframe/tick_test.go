package tinyframe

import (
	"testing"

	"github.com/Spread0x/go-tinyframe/protocol"
)

// An ID listener with timeout t fires exactly once with a nil payload
// after t ticks and is then gone.
func TestIDListenerTimeout(t *testing.T) {
	eng, _ := newTestEngine(t, protocol.DefaultConfig(), PeerMaster)

	var fired int
	var timeoutMsg Msg
	msg := Msg{FrameID: 0x80, UserData: "cleanup me"}
	err := eng.AddIDListener(&msg, func(m *Msg) bool {
		fired++
		timeoutMsg = *m
		return true
	}, 5)
	if err != nil {
		t.Fatalf("AddIDListener: %v", err)
	}

	for i := 0; i < 4; i++ {
		eng.Tick()
		if fired != 0 {
			t.Fatalf("listener fired after %d ticks, want 5", i+1)
		}
	}

	eng.Tick()
	if fired != 1 {
		t.Fatalf("listener fired %d times after 5 ticks, want 1", fired)
	}
	if timeoutMsg.Data != nil {
		t.Error("timeout message carries a payload")
	}
	if timeoutMsg.IsResponse {
		t.Error("timeout message marked as response")
	}
	if timeoutMsg.FrameID != 0x80 {
		t.Errorf("timeout message FrameID = 0x%02X, want 0x80", timeoutMsg.FrameID)
	}
	if timeoutMsg.UserData != "cleanup me" {
		t.Errorf("timeout message UserData = %v, want the registered handle", timeoutMsg.UserData)
	}

	// A sixth tick does nothing.
	eng.Tick()
	if fired != 1 {
		t.Fatalf("listener fired again after expiry")
	}
	if eng.findIDSlot(0x80) != nil {
		t.Error("expired slot still occupied")
	}
}

// A zero timeout means the listener never expires.
func TestIDListenerZeroTimeoutNeverExpires(t *testing.T) {
	eng, _ := newTestEngine(t, protocol.DefaultConfig(), PeerMaster)

	var fired int
	eng.AddIDListener(&Msg{FrameID: 0x80}, func(*Msg) bool { fired++; return true }, 0)

	for i := 0; i < 1000; i++ {
		eng.Tick()
	}
	if fired != 0 {
		t.Fatalf("permanent listener fired %d times", fired)
	}
	if eng.findIDSlot(0x80) == nil {
		t.Fatal("permanent listener disappeared")
	}
}

func TestRenewIDListenerRestartsCountdown(t *testing.T) {
	eng, _ := newTestEngine(t, protocol.DefaultConfig(), PeerMaster)

	var fired int
	eng.AddIDListener(&Msg{FrameID: 0x80}, func(*Msg) bool { fired++; return true }, 3)

	eng.Tick()
	eng.Tick()
	if err := eng.RenewIDListener(0x80); err != nil {
		t.Fatalf("RenewIDListener: %v", err)
	}

	eng.Tick()
	eng.Tick()
	if fired != 0 {
		t.Fatal("renewed listener expired early")
	}
	eng.Tick()
	if fired != 1 {
		t.Fatalf("renewed listener fired %d times after full countdown, want 1", fired)
	}
}

// The timeout callback may re-register the same ID; the slot is freed
// before the callback runs.
func TestTimeoutCallbackReregisters(t *testing.T) {
	eng, _ := newTestEngine(t, protocol.DefaultConfig(), PeerMaster)

	var expiries int
	var reregister func(m *Msg) bool
	reregister = func(m *Msg) bool {
		expiries++
		if expiries < 3 {
			if err := eng.AddIDListener(&Msg{FrameID: m.FrameID}, reregister, 2); err != nil {
				t.Errorf("re-register from timeout callback: %v", err)
			}
		}
		return true
	}
	eng.AddIDListener(&Msg{FrameID: 0x80}, reregister, 2)

	for i := 0; i < 10; i++ {
		eng.Tick()
	}
	if expiries != 3 {
		t.Fatalf("expiries = %d, want 3", expiries)
	}
}

// Feeding a frame prefix then ticking past the watchdog resets the
// parser; a fresh complete frame then parses correctly.
func TestParserWatchdog(t *testing.T) {
	cfg := protocol.DefaultConfig()
	tx, out := newTestEngine(t, cfg, PeerMaster)
	if err := tx.SendSimple(0x11, []byte{0xDE, 0xAD}); err != nil {
		t.Fatalf("SendSimple: %v", err)
	}
	frame := out.last()

	rx, _ := newTestEngine(t, cfg, PeerSlave)
	var got captureListener
	rx.AddTypeListener(0x11, got.cb)

	// SOF and ID only.
	rx.Accept(frame[:2])
	if !rx.midFrame() {
		t.Fatal("parser not mid-frame after a prefix")
	}

	for i := 0; i < cfg.ParserTimeoutTicks; i++ {
		rx.Tick()
	}
	if rx.midFrame() {
		t.Fatal("watchdog did not reset the parser")
	}

	rx.Accept(frame)
	if len(got.msgs) != 1 {
		t.Fatalf("dispatched %d times after watchdog reset, want 1", len(got.msgs))
	}
}

// A byte arriving mid-frame re-arms the watchdog.
func TestWatchdogRearmsOnTraffic(t *testing.T) {
	cfg := protocol.DefaultConfig()
	tx, out := newTestEngine(t, cfg, PeerMaster)
	if err := tx.SendSimple(0x11, []byte{0x01, 0x02, 0x03}); err != nil {
		t.Fatalf("SendSimple: %v", err)
	}
	frame := out.last()

	rx, _ := newTestEngine(t, cfg, PeerSlave)
	var got captureListener
	rx.AddTypeListener(0x11, got.cb)

	// Trickle the frame one byte per ParserTimeoutTicks-1 ticks; the
	// parse must survive.
	for _, b := range frame {
		rx.AcceptByte(b)
		for i := 0; i < cfg.ParserTimeoutTicks-1; i++ {
			rx.Tick()
		}
	}

	if len(got.msgs) != 1 {
		t.Fatalf("dispatched %d times, want 1", len(got.msgs))
	}
}

// Ticking never disturbs an idle parser.
func TestTickIdleParser(t *testing.T) {
	cfg := protocol.DefaultConfig()
	rx, _ := newTestEngine(t, cfg, PeerSlave)

	for i := 0; i < 100; i++ {
		rx.Tick()
	}

	tx, out := newTestEngine(t, cfg, PeerMaster)
	if err := tx.SendSimple(0x05, nil); err != nil {
		t.Fatalf("SendSimple: %v", err)
	}
	var got captureListener
	rx.AddTypeListener(0x05, got.cb)
	rx.Accept(out.last())
	if len(got.msgs) != 1 {
		t.Fatal("frame not parsed after idle ticks")
	}
}
