package protocol

import (
	"bytes"
	"testing"
)

func TestPutField(t *testing.T) {
	tests := []struct {
		name     string
		value    uint32
		width    int
		expected []byte
	}{
		{
			name:     "one byte",
			value:    0xAB,
			width:    1,
			expected: []byte{0xAB},
		},
		{
			name:     "two bytes big-endian",
			value:    0x1234,
			width:    2,
			expected: []byte{0x12, 0x34},
		},
		{
			name:     "four bytes big-endian",
			value:    0xDEADBEEF,
			width:    4,
			expected: []byte{0xDE, 0xAD, 0xBE, 0xEF},
		},
		{
			name:     "truncates to field width",
			value:    0x1234,
			width:    1,
			expected: []byte{0x34},
		},
		{
			name:     "zero pads high bytes",
			value:    0x05,
			width:    4,
			expected: []byte{0x00, 0x00, 0x00, 0x05},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.width)
			n := PutField(buf, tt.value, tt.width)
			if n != tt.width {
				t.Errorf("PutField() returned %d, want %d", n, tt.width)
			}
			if !bytes.Equal(buf, tt.expected) {
				t.Errorf("PutField() wrote % X, want % X", buf, tt.expected)
			}
		})
	}
}

func TestFieldRoundtrip(t *testing.T) {
	values := []uint32{0, 1, 0x7F, 0x80, 0xFF, 0x100, 0xFFFF, 0x10000, 0xFFFFFFFF}

	for _, width := range []int{1, 2, 4} {
		for _, v := range values {
			mask := uint32(maxFieldValue(width))
			buf := make([]byte, width)
			PutField(buf, v, width)
			if got := Field(buf, width); got != v&mask {
				t.Errorf("width %d value 0x%08X: roundtrip = 0x%08X, want 0x%08X",
					width, v, got, v&mask)
			}
		}
	}
}
