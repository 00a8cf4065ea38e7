package tinyframe

import "github.com/Spread0x/go-tinyframe/protocol"

// parserState enumerates the receive state machine states in wire
// order.
type parserState int

const (
	stateSOF parserState = iota
	stateID
	stateLen
	stateType
	stateHeadCksum
	statePayload
	statePayloadCksum
)

// initialState is where the parser waits for a new frame: the SOF hunt
// when the marker is enabled, otherwise the first ID byte.
func (e *Engine) initialState() parserState {
	if e.cfg.UseSOF {
		return stateSOF
	}
	return stateID
}

func (e *Engine) resetParser() {
	e.state = e.initialState()
	e.collected = 0
	e.partial = 0
	e.headCk = e.cfg.Checksum.Begin()
	e.payloadCk = e.cfg.Checksum.Begin()
	e.rxCursor = 0
	e.idleTicks = 0
}

// midFrame reports whether a partial frame is being collected, i.e. the
// parser watchdog should be armed.
func (e *Engine) midFrame() bool {
	return e.state != e.initialState() || e.collected > 0
}

// Accept feeds received bytes into the parser. Chunking is arbitrary;
// any partition of the byte stream parses identically.
func (e *Engine) Accept(data []byte) {
	for _, b := range data {
		e.AcceptByte(b)
	}
}

// AcceptByte feeds a single received byte into the parser. Completed
// frames are dispatched to listeners before the call returns; corrupt
// frames are silently discarded.
func (e *Engine) AcceptByte(b byte) {
	e.idleTicks = 0

	switch e.state {
	case stateSOF:
		if b != e.cfg.SOFByte {
			return
		}
		e.headCk = e.ckAdd(e.headCk, b)
		e.state = stateID

	case stateID:
		e.headCk = e.ckAdd(e.headCk, b)
		if e.collect(b, e.cfg.IDBytes) {
			e.rxID = e.takePartial()
			e.state = stateLen
		}

	case stateLen:
		e.headCk = e.ckAdd(e.headCk, b)
		if e.collect(b, e.cfg.LenBytes) {
			length := e.takePartial()
			if length > uint32(e.cfg.MaxPayloadRx) {
				// oversized announcement, treat as corruption
				e.logDebug("rx length over limit", "len", length)
				e.resetParser()
				return
			}
			e.rxLen = int(length)
			e.state = stateType
		}

	case stateType:
		e.headCk = e.ckAdd(e.headCk, b)
		if e.collect(b, e.cfg.TypeBytes) {
			e.rxType = e.takePartial()
			if e.cfg.Checksum == protocol.ChecksumNone {
				if e.rxLen == 0 {
					e.dispatch()
					e.resetParser()
					return
				}
				e.state = statePayload
			} else {
				e.state = stateHeadCksum
			}
		}

	case stateHeadCksum:
		if e.collect(b, e.cfg.Checksum.Size()) {
			want := e.cfg.Checksum.Final(e.headCk)
			if e.takePartial() != want {
				e.logDebug("rx header checksum mismatch")
				e.resetParser()
				return
			}
			if e.rxLen == 0 {
				// empty payload still carries a payload checksum
				e.state = statePayloadCksum
			} else {
				e.state = statePayload
			}
		}

	case statePayload:
		e.rxBuf[e.rxCursor] = b
		e.rxCursor++
		e.payloadCk = e.ckAdd(e.payloadCk, b)
		if e.rxCursor == e.rxLen {
			if e.cfg.Checksum == protocol.ChecksumNone {
				e.dispatch()
				e.resetParser()
				return
			}
			e.state = statePayloadCksum
		}

	case statePayloadCksum:
		if e.collect(b, e.cfg.Checksum.Size()) {
			if e.takePartial() != e.cfg.Checksum.Final(e.payloadCk) {
				e.logDebug("rx payload checksum mismatch")
				e.resetParser()
				return
			}
			e.dispatch()
			e.resetParser()
		}
	}
}

// collect shifts b into the multi-byte field accumulator and reports
// whether the field of the given width is complete.
func (e *Engine) collect(b byte, width int) bool {
	e.partial = e.partial<<8 | uint32(b)
	e.collected++
	if e.collected < width {
		return false
	}
	e.collected = 0
	return true
}

// takePartial returns the completed field value and clears the
// accumulator.
func (e *Engine) takePartial() uint32 {
	v := e.partial
	e.partial = 0
	return v
}

// ckAdd updates a running checksum with one received byte.
func (e *Engine) ckAdd(acc uint32, b byte) uint32 {
	scratch := [1]byte{b}
	return e.cfg.Checksum.Update(acc, scratch[:])
}
