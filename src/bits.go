package malamute

import (
	"fmt"
	"strings"
)

// Small helpers for moving bit vectors through text interfaces.
// The core never interprets message bits; the unpacker upstream
// owns their meaning.

func BitsString(bits []uint8) string {
	var b strings.Builder
	b.Grow(len(bits))
	for _, bit := range bits {
		if bit&1 != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func BitsFromString(s string) ([]uint8, error) {
	var bits = make([]uint8, 0, len(s))
	for i, c := range s {
		switch c {
		case '0':
			bits = append(bits, 0)
		case '1':
			bits = append(bits, 1)
		default:
			return nil, fmt.Errorf("bit string position %d: %q is not 0 or 1", i, c)
		}
	}
	return bits, nil
}
