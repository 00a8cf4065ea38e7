package tinyframe

import "github.com/Spread0x/go-tinyframe/protocol"

// Send transmits a message. Unless msg.IsResponse is set, a fresh frame
// ID with the local peer bit is allocated and written back into
// msg.FrameID; the ID counter only advances for non-response sends.
//
// A non-nil listener is registered as an ID listener for the outbound
// frame ID before any bytes are written, so the response cannot race
// the registration. timeoutTicks behaves as in AddIDListener. If the
// registration fails the send fails and no bytes are emitted.
//
// The complete frame is handed to the byte sink in a single call.
func (e *Engine) Send(msg *Msg, listener Listener, timeoutTicks int) error {
	if len(msg.Data) > e.cfg.MaxPayloadTx {
		return &PayloadTooLargeError{Size: len(msg.Data), Limit: e.cfg.MaxPayloadTx}
	}

	if !msg.IsResponse {
		msg.FrameID = e.allocID()
	}

	if listener != nil {
		if err := e.AddIDListener(msg, listener, timeoutTicks); err != nil {
			return err
		}
	}

	n := e.buildFrame(e.txBuf, msg)
	e.logDebug("tx frame", "id", msg.FrameID, "type", msg.Type, "len", len(msg.Data))
	e.write(e.txBuf[:n])
	return nil
}

// SendSimple transmits a message of the given type with no response
// listener.
func (e *Engine) SendSimple(frameType uint32, data []byte) error {
	msg := Msg{Type: frameType, Data: data}
	return e.Send(&msg, nil, 0)
}

// QuerySimple transmits a message of the given type and registers
// listener for the response.
func (e *Engine) QuerySimple(frameType uint32, data []byte, listener Listener, timeoutTicks int) error {
	msg := Msg{Type: frameType, Data: data}
	return e.Send(&msg, listener, timeoutTicks)
}

// Respond replies to a received message, reusing its frame ID so the
// peer's ID listener matches. With renew, a still-registered local ID
// listener for that ID has its expiry restarted first (useful while
// collecting a multi-part exchange); renewal is best-effort since the
// listener may already be gone.
func (e *Engine) Respond(msg *Msg, renew bool) error {
	msg.IsResponse = true
	if renew {
		_ = e.RenewIDListener(msg.FrameID)
	}
	return e.Send(msg, nil, 0)
}

// buildFrame serializes msg into buf and returns the frame length.
// Layout: [SOF][ID][LEN][TYPE][HEAD_CKSUM][PAYLOAD][PLD_CKSUM], with
// the checksum fields absent for ChecksumNone.
func (e *Engine) buildFrame(buf []byte, msg *Msg) int {
	ck := e.cfg.Checksum
	pos := 0

	if e.cfg.UseSOF {
		buf[pos] = e.cfg.SOFByte
		pos++
	}
	pos += protocol.PutField(buf[pos:], msg.FrameID, e.cfg.IDBytes)
	pos += protocol.PutField(buf[pos:], uint32(len(msg.Data)), e.cfg.LenBytes)
	pos += protocol.PutField(buf[pos:], msg.Type, e.cfg.TypeBytes)

	if ck != protocol.ChecksumNone {
		pos += protocol.PutField(buf[pos:], ck.Sum(buf[:pos]), ck.Size())
	}

	copy(buf[pos:], msg.Data)
	pos += len(msg.Data)

	if ck != protocol.ChecksumNone {
		pos += protocol.PutField(buf[pos:], ck.Sum(msg.Data), ck.Size())
	}

	return pos
}
