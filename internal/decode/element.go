package decode

import (
	"fmt"
	"strings"
)

// ElementType declares how every byte of a packet payload is interpreted.
// It is fixed for the lifetime of the process.
type ElementType uint8

const (
	TypeBool ElementType = iota // one CSV value per bit, LSB first
	TypeU8
	TypeI8
	TypeU16
	TypeI16
)

// ParseElementType parses a case-insensitive type name. "boolean" is
// accepted as an alias for "bool".
func ParseElementType(s string) (ElementType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BOOL", "BOOLEAN":
		return TypeBool, nil
	case "U8":
		return TypeU8, nil
	case "I8":
		return TypeI8, nil
	case "U16":
		return TypeU16, nil
	case "I16":
		return TypeI16, nil
	default:
		return 0, fmt.Errorf("invalid data type %q (expected one of bool, u8, i8, u16, i16)", s)
	}
}

// Width returns the element width in bytes. Bool elements occupy one byte
// and expand to eight values.
func (t ElementType) Width() int {
	switch t {
	case TypeU16, TypeI16:
		return 2
	default:
		return 1
	}
}

// String returns the canonical lower-case type name.
func (t ElementType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeU8:
		return "u8"
	case TypeI8:
		return "i8"
	case TypeU16:
		return "u16"
	case TypeI16:
		return "i16"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}
