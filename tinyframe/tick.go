package tinyframe

// Tick advances the engine's time base by one unit. The host chooses
// the tick rate; every timeout in the engine is expressed in ticks.
//
// Each call ages the ID listener table and the parser watchdog:
//
//   - an ID listener with a non-zero timeout whose countdown reaches
//     zero is freed and its callback invoked exactly once with a
//     nil-Data message;
//   - a partial frame that has not advanced for ParserTimeoutTicks
//     consecutive ticks is discarded and the parser reset.
func (e *Engine) Tick() {
	for i := range e.idListeners {
		slot := &e.idListeners[i]
		if slot.cb == nil || slot.ticksMax == 0 {
			continue
		}
		slot.ticks--
		if slot.ticks > 0 {
			continue
		}

		// Free the slot before the callback so the callback can
		// re-register the same ID.
		cb := slot.cb
		msg := Msg{FrameID: slot.id, UserData: slot.userData}
		*slot = idListener{}

		e.logDebug("id listener expired", "id", msg.FrameID)
		cb(&msg)
	}

	if e.midFrame() {
		e.idleTicks++
		if e.idleTicks >= e.cfg.ParserTimeoutTicks {
			e.logDebug("parser watchdog reset")
			e.resetParser()
		}
	}
}
