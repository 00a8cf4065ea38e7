package tinyframe

// dispatch hands a completed inbound frame to listeners in strict
// priority order: ID listeners, then type listeners, then generic
// listeners. Ties within a table resolve by slot index. A frame no
// listener consumes is dropped.
//
// Iteration is by index with occupancy rechecks, so callbacks may
// register or remove listeners and call Send.
func (e *Engine) dispatch() {
	msg := Msg{
		FrameID: e.rxID,
		Type:    e.rxType,
		Data:    e.rxBuf[:e.rxLen],
	}

	e.logDebug("rx frame", "id", msg.FrameID, "type", msg.Type, "len", len(msg.Data))

	// ID tier. IDs are unique in the table, so at most one slot
	// matches. The slot is freed after one matching frame whether or
	// not the callback consumes it; a caller that wants to keep
	// waiting must re-register.
	for i := range e.idListeners {
		slot := &e.idListeners[i]
		if slot.cb == nil || slot.id != msg.FrameID {
			continue
		}
		cb := slot.cb
		msg.UserData = slot.userData
		consumed := cb(&msg)
		if slot.cb != nil && slot.id == msg.FrameID {
			*slot = idListener{}
		}
		if consumed {
			return
		}
		msg.UserData = nil
		break
	}

	// Type tier. Types are unique in the table; the match is not
	// removed.
	for i := range e.typeListeners {
		slot := &e.typeListeners[i]
		if slot.cb == nil || slot.frameType != msg.Type {
			continue
		}
		if slot.cb(&msg) {
			return
		}
		break
	}

	// Generic tier: every listener in table order until one consumes.
	for i := range e.genListeners {
		cb := e.genListeners[i].cb
		if cb == nil {
			continue
		}
		if cb(&msg) {
			return
		}
	}
}
