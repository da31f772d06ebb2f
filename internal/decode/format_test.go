package decode

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		values   []int64
		expected string
	}{
		{name: "two values", values: []int64{1, 2}, expected: "1,2"},
		{name: "single value", values: []int64{42}, expected: "42"},
		{name: "negative values", values: []int64{-1, -32768, 0}, expected: "-1,-32768,0"},
		{name: "bool bits", values: []int64{1, 0, 1, 0, 0, 0, 0, 0}, expected: "1,0,1,0,0,0,0,0"},
		{name: "no values", values: []int64{}, expected: ""},
		{name: "nil values", values: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.values); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFormatIdempotent(t *testing.T) {
	values := []int64{3, 1, 4, 1, 5, 9, 2, 6}

	first := Format(values)
	second := Format(values)

	if first != second {
		t.Errorf("Formatting the same sequence twice differed: %q vs %q", first, second)
	}
}
