package tinyframe

import "reflect"

// AddIDListener registers cb to receive the first inbound frame whose ID
// equals msg.FrameID. msg.UserData is stored with the slot and handed
// back to the callback verbatim.
//
// timeoutTicks > 0 expires the listener after that many ticks; the
// callback is then invoked once with a nil-Data message so it can
// release whatever UserData refers to. timeoutTicks of zero keeps the
// listener registered until a matching frame arrives or it is removed.
func (e *Engine) AddIDListener(msg *Msg, cb Listener, timeoutTicks int) error {
	if cb == nil {
		panic("listener callback cannot be nil")
	}
	if e.findIDSlot(msg.FrameID) != nil {
		return ErrDuplicateListener
	}

	for i := range e.idListeners {
		slot := &e.idListeners[i]
		if slot.cb != nil {
			continue
		}
		*slot = idListener{
			cb:       cb,
			id:       msg.FrameID,
			userData: msg.UserData,
			ticks:    timeoutTicks,
			ticksMax: timeoutTicks,
		}
		return nil
	}
	return ErrListenerTableFull
}

// RemoveIDListener removes the listener registered for the given frame
// ID.
func (e *Engine) RemoveIDListener(id uint32) error {
	slot := e.findIDSlot(id)
	if slot == nil {
		return ErrListenerNotFound
	}
	*slot = idListener{}
	return nil
}

// RenewIDListener restarts the expiry countdown of the listener
// registered for the given frame ID.
func (e *Engine) RenewIDListener(id uint32) error {
	slot := e.findIDSlot(id)
	if slot == nil {
		return ErrListenerNotFound
	}
	slot.ticks = slot.ticksMax
	return nil
}

// AddTypeListener registers cb for every inbound frame of the given
// message type. Type listeners have no timeout and stay registered
// until removed.
func (e *Engine) AddTypeListener(frameType uint32, cb Listener) error {
	if cb == nil {
		panic("listener callback cannot be nil")
	}
	if e.findTypeSlot(frameType) != nil {
		return ErrDuplicateListener
	}

	for i := range e.typeListeners {
		slot := &e.typeListeners[i]
		if slot.cb != nil {
			continue
		}
		*slot = typeListener{cb: cb, frameType: frameType}
		return nil
	}
	return ErrListenerTableFull
}

// RemoveTypeListener removes the listener registered for the given
// message type.
func (e *Engine) RemoveTypeListener(frameType uint32) error {
	slot := e.findTypeSlot(frameType)
	if slot == nil {
		return ErrListenerNotFound
	}
	*slot = typeListener{}
	return nil
}

// AddGenericListener registers cb as a fallback receiving every frame
// no higher-priority listener consumed.
//
// Generic listeners are identified by the callback's code pointer, so a
// given function can be registered once. Note that closures created
// from the same function literal share a code pointer and count as the
// same listener.
func (e *Engine) AddGenericListener(cb Listener) error {
	if cb == nil {
		panic("listener callback cannot be nil")
	}
	key := funcKey(cb)
	for i := range e.genListeners {
		if e.genListeners[i].cb != nil && funcKey(e.genListeners[i].cb) == key {
			return ErrDuplicateListener
		}
	}

	for i := range e.genListeners {
		slot := &e.genListeners[i]
		if slot.cb != nil {
			continue
		}
		*slot = genericListener{cb: cb}
		return nil
	}
	return ErrListenerTableFull
}

// RemoveGenericListener removes the generic listener registered with
// the same code pointer as cb.
func (e *Engine) RemoveGenericListener(cb Listener) error {
	if cb == nil {
		return ErrListenerNotFound
	}
	key := funcKey(cb)
	for i := range e.genListeners {
		slot := &e.genListeners[i]
		if slot.cb != nil && funcKey(slot.cb) == key {
			*slot = genericListener{}
			return nil
		}
	}
	return ErrListenerNotFound
}

func (e *Engine) findIDSlot(id uint32) *idListener {
	for i := range e.idListeners {
		if e.idListeners[i].cb != nil && e.idListeners[i].id == id {
			return &e.idListeners[i]
		}
	}
	return nil
}

func (e *Engine) findTypeSlot(frameType uint32) *typeListener {
	for i := range e.typeListeners {
		if e.typeListeners[i].cb != nil && e.typeListeners[i].frameType == frameType {
			return &e.typeListeners[i]
		}
	}
	return nil
}

// funcKey returns the code pointer identifying a listener callback.
func funcKey(cb Listener) uintptr {
	return reflect.ValueOf(cb).Pointer()
}
