package protocol

// Allowed field widths for the ID, LEN and TYPE fields.
const (
	// MinFieldBytes is the smallest allowed field width
	MinFieldBytes = 1

	// MaxFieldBytes is the largest allowed field width
	MaxFieldBytes = 4
)

// Default configuration values. Both peers of a link must be built with
// identical values, so changing any of these is a wire-format change.
const (
	// DefaultSOFByte is the default start-of-frame marker (0x01)
	DefaultSOFByte = 0x01

	// DefaultMaxPayload is the default receive/transmit payload limit
	DefaultMaxPayload = 1024

	// DefaultMaxIDListeners is the default ID listener table capacity
	DefaultMaxIDListeners = 20

	// DefaultMaxTypeListeners is the default type listener table capacity
	DefaultMaxTypeListeners = 20

	// DefaultMaxGenericListeners is the default generic listener table capacity
	DefaultMaxGenericListeners = 4

	// DefaultParserTimeoutTicks is the default parser watchdog limit
	DefaultParserTimeoutTicks = 10
)

// Config holds every link parameter of the framing protocol. The zero
// value is not usable; start from DefaultConfig and adjust.
//
// Both peers must use the same Config, otherwise frames will be rejected
// as corrupt.
type Config struct {
	// IDBytes is the width of the frame ID field (1, 2 or 4)
	IDBytes int

	// LenBytes is the width of the payload length field (1, 2 or 4)
	LenBytes int

	// TypeBytes is the width of the message type field (1, 2 or 4)
	TypeBytes int

	// Checksum selects the integrity algorithm for both checksum fields
	Checksum ChecksumKind

	// UseSOF enables the start-of-frame marker byte. Without it the
	// parser has no resynchronization point after corruption; recovery
	// is purely time-based via the parser watchdog.
	UseSOF bool

	// SOFByte is the start-of-frame marker value (only used with UseSOF)
	SOFByte byte

	// MaxPayloadRx is the largest accepted inbound payload. Frames
	// announcing a larger length are dropped as corrupt.
	MaxPayloadRx int

	// MaxPayloadTx is the largest payload the send path will produce
	MaxPayloadTx int

	// MaxIDListeners is the ID listener table capacity
	MaxIDListeners int

	// MaxTypeListeners is the type listener table capacity
	MaxTypeListeners int

	// MaxGenericListeners is the generic listener table capacity
	MaxGenericListeners int

	// ParserTimeoutTicks is the number of ticks without a received byte
	// after which a partial frame is discarded. Zero resets a stalled
	// parse on the first tick.
	ParserTimeoutTicks int
}

// DefaultConfig returns the stock configuration: 1-byte ID and TYPE,
// 2-byte LEN, CRC-16 integrity, SOF byte 0x01, 1024-byte payloads,
// 20/20/4 listener slots and a 10-tick parser watchdog.
func DefaultConfig() Config {
	return Config{
		IDBytes:             1,
		LenBytes:            2,
		TypeBytes:           1,
		Checksum:            ChecksumCRC16,
		UseSOF:              true,
		SOFByte:             DefaultSOFByte,
		MaxPayloadRx:        DefaultMaxPayload,
		MaxPayloadTx:        DefaultMaxPayload,
		MaxIDListeners:      DefaultMaxIDListeners,
		MaxTypeListeners:    DefaultMaxTypeListeners,
		MaxGenericListeners: DefaultMaxGenericListeners,
		ParserTimeoutTicks:  DefaultParserTimeoutTicks,
	}
}

// Validate checks the configuration for unusable values. A Config that
// does not validate must not be used to build an engine.
func (c Config) Validate() error {
	if !validFieldWidth(c.IDBytes) {
		return &InvalidConfigError{Field: "IDBytes", Reason: "must be 1, 2 or 4"}
	}
	if !validFieldWidth(c.LenBytes) {
		return &InvalidConfigError{Field: "LenBytes", Reason: "must be 1, 2 or 4"}
	}
	if !validFieldWidth(c.TypeBytes) {
		return &InvalidConfigError{Field: "TypeBytes", Reason: "must be 1, 2 or 4"}
	}
	switch c.Checksum {
	case ChecksumNone, ChecksumXOR8, ChecksumCRC16, ChecksumCRC32:
	default:
		return &InvalidConfigError{Field: "Checksum", Reason: "unsupported checksum kind"}
	}
	if c.MaxPayloadRx <= 0 {
		return &InvalidConfigError{Field: "MaxPayloadRx", Reason: "must be positive"}
	}
	if c.MaxPayloadTx <= 0 {
		return &InvalidConfigError{Field: "MaxPayloadTx", Reason: "must be positive"}
	}
	maxLen := maxFieldValue(c.LenBytes)
	if uint64(c.MaxPayloadRx) > maxLen {
		return &InvalidConfigError{Field: "MaxPayloadRx", Reason: "does not fit in the LEN field"}
	}
	if uint64(c.MaxPayloadTx) > maxLen {
		return &InvalidConfigError{Field: "MaxPayloadTx", Reason: "does not fit in the LEN field"}
	}
	if c.MaxIDListeners <= 0 {
		return &InvalidConfigError{Field: "MaxIDListeners", Reason: "must be positive"}
	}
	if c.MaxTypeListeners <= 0 {
		return &InvalidConfigError{Field: "MaxTypeListeners", Reason: "must be positive"}
	}
	if c.MaxGenericListeners <= 0 {
		return &InvalidConfigError{Field: "MaxGenericListeners", Reason: "must be positive"}
	}
	if c.ParserTimeoutTicks < 0 {
		return &InvalidConfigError{Field: "ParserTimeoutTicks", Reason: "must not be negative"}
	}
	return nil
}

// Overhead returns the number of non-payload bytes in a frame: the SOF
// marker (if enabled), the ID, LEN and TYPE fields and both checksum
// fields.
func (c Config) Overhead() int {
	n := c.IDBytes + c.LenBytes + c.TypeBytes + 2*c.Checksum.Size()
	if c.UseSOF {
		n++
	}
	return n
}

// PeerBit returns the mask of the peer bit: the most significant bit of
// the ID field. The master peer sets it in locally-allocated IDs, the
// slave keeps it clear, so concurrent allocations cannot collide.
func (c Config) PeerBit() uint32 {
	return 1 << (uint(c.IDBytes)*BitsPerByte - 1)
}

// IDMask returns the mask of the ID counter bits, i.e. the ID field with
// the peer bit excluded.
func (c Config) IDMask() uint32 {
	return c.PeerBit() - 1
}

func validFieldWidth(w int) bool {
	return w == 1 || w == 2 || w == 4
}

// maxFieldValue returns the largest value representable in a big-endian
// field of the given width.
func maxFieldValue(width int) uint64 {
	return 1<<(uint(width)*BitsPerByte) - 1
}
