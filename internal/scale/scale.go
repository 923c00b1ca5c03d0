// internal/scale/scale.go
package scale

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/tamzrod/am2-bridge/internal/catalog"
)

// ErrComputed is returned when a Computed register is passed to Scale.
var ErrComputed = errors.New("scale: computed registers have no raw words")

// Scale converts raw register words into a scaled value.
// A nil words slice means the read failed: prev is returned unchanged.
// Numeric kinds use words[0] only.
// No IO. No side effects.
func Scale(kind catalog.ScaleKind, words []uint16, prev Value) (Value, error) {
	if kind == catalog.Computed {
		return prev, ErrComputed
	}
	if len(words) == 0 {
		return prev, nil
	}

	w := words[0]

	switch kind {
	case catalog.UnsignedInt, catalog.Raw:
		return Int(int64(w)), nil
	case catalog.Fixed10:
		return Float(float64(w)/10.0, 1), nil
	case catalog.Fixed100:
		return Float(float64(w)/100.0, 2), nil
	case catalog.Fixed1000:
		return Float(float64(w)/1000.0, 3), nil
	case catalog.SignedFixed100:
		return Float(float64(int16(w))/100.0, 2), nil
	case catalog.TwoCharASCII:
		return Str(decodeASCII(words)), nil
	default:
		return prev, fmt.Errorf("scale: unsupported kind %s", kind)
	}
}

// decodeASCII unpacks two characters per word, high byte first.
// Non-printable bytes become '?'. Trailing whitespace is trimmed.
func decodeASCII(words []uint16) string {
	var b strings.Builder
	b.Grow(len(words) * 2)

	for _, w := range words {
		b.WriteByte(printable(byte(w >> 8)))
		b.WriteByte(printable(byte(w)))
	}

	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

func printable(c byte) byte {
	if c < 0x20 || c > 0x7E {
		return '?'
	}
	return c
}
