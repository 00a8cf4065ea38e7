// Package tinyframe implements the TinyFrame protocol engine: a framing
// codec for point-to-point binary messaging over an unreliable or
// byte-oriented link, typically a UART.
//
// One Engine serves one link endpoint. It reassembles frames from an
// arbitrary byte stream, dispatches completed messages to registered
// listeners, builds outbound frames and hands them to a host-provided
// byte sink, and ages listener and parser timeouts on a host-driven tick.
//
// # Setup
//
// The host supplies the link configuration, the local peer role and the
// byte sink:
//
//	eng, err := tinyframe.New(protocol.DefaultConfig(), tinyframe.PeerMaster,
//	    func(frame []byte) {
//	        uart.Write(frame)
//	    })
//
// Received bytes are pushed into the engine as they arrive, in any
// chunking:
//
//	eng.Accept(buf[:n])
//
// and a periodic timer drives timeouts:
//
//	eng.Tick()
//
// The engine is not safe for concurrent use; Accept, Send, Tick and the
// listener operations must be serialized by the host. A typical
// deployment is an interrupt handler pushing bytes into a ring buffer
// and one loop draining it.
//
// # Listeners
//
// Inbound messages are dispatched to listeners in a fixed priority
// order: ID listeners (response correlation), then type listeners, then
// generic listeners. A listener returns true to consume the message and
// stop dispatch:
//
//	eng.AddTypeListener(0x22, func(msg *tinyframe.Msg) bool {
//	    fmt.Printf("got % X\n", msg.Data)
//	    return true
//	})
//
// An ID listener waits for the response to a sent frame and is removed
// after one matching frame, whether or not it consumes it:
//
//	msg := tinyframe.Msg{Type: 0x22, Data: request}
//	err := eng.Send(&msg, func(msg *tinyframe.Msg) bool {
//	    if msg.Data == nil {
//	        // timed out; release resources tied to msg.UserData
//	        return true
//	    }
//	    // handle the response
//	    return true
//	}, 50)
//
// Listener callbacks may call Send, Respond and the listener
// registration operations; the engine tolerates table mutation during
// dispatch.
package tinyframe
