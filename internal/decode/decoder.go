package decode

import (
	"encoding/binary"
	"fmt"
)

// Decode interprets data as a sequence of values of the given element type.
//
// Numeric types consume their fixed width per value; U16/I16 are read
// big-endian (network byte order). Bool expands each byte into eight 0/1
// values ordered from bit 0 upward. Trailing bytes that do not fill one
// more element are dropped without error; downstream row width depends on
// that, so it must not be reported.
//
// The error return covers decode failures other than buffer exhaustion.
// None are reachable with the current element set, but the contract allows
// a decoder to stop mid-packet and keep the values produced so far.
func Decode(t ElementType, data []byte) ([]int64, error) {
	switch t {
	case TypeBool:
		values := make([]int64, 0, len(data)*8)
		for _, b := range data {
			for i := 0; i < 8; i++ {
				values = append(values, int64(b>>i&1))
			}
		}
		return values, nil

	case TypeU8:
		values := make([]int64, 0, len(data))
		for _, b := range data {
			values = append(values, int64(b))
		}
		return values, nil

	case TypeI8:
		values := make([]int64, 0, len(data))
		for _, b := range data {
			values = append(values, int64(int8(b)))
		}
		return values, nil

	case TypeU16:
		values := make([]int64, 0, len(data)/2)
		for i := 0; i+2 <= len(data); i += 2 {
			values = append(values, int64(binary.BigEndian.Uint16(data[i:i+2])))
		}
		return values, nil

	case TypeI16:
		values := make([]int64, 0, len(data)/2)
		for i := 0; i+2 <= len(data); i += 2 {
			values = append(values, int64(int16(binary.BigEndian.Uint16(data[i:i+2]))))
		}
		return values, nil

	default:
		return nil, fmt.Errorf("unsupported element type %s", t)
	}
}
