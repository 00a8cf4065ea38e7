package protocol

// PutField encodes v into buf as a big-endian field of the given width
// (1, 2 or 4 bytes). Returns the number of bytes written.
//
// Values wider than the field are truncated to the low bytes.
func PutField(buf []byte, v uint32, width int) int {
	for i := width - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= BitsPerByte
	}
	return width
}

// Field decodes a big-endian field of the given width from the start of
// buf.
func Field(buf []byte, width int) uint32 {
	var v uint32
	for i := 0; i < width; i++ {
		v = v<<BitsPerByte | uint32(buf[i])
	}
	return v
}
