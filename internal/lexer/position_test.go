package lexer

import "testing"

func TestPosition_String(t *testing.T) {
	tests := []struct {
		name     string
		pos      Position
		expected string
	}{
		{
			name: "valid position",
			pos: Position{
				Filename: "test.go",
				Line:     42,
				Column:   15,
				Offset:   100,
			},
			expected: "test.go:42:15",
		},
		{
			name:     "zero position",
			pos:      Position{},
			expected: ":0:0",
		},
		{
			name: "line 1 column 1",
			pos: Position{
				Filename: "main.go",
				Line:     1,
				Column:   1,
			},
			expected: "main.go:1:1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.pos.String()
			if result != tt.expected {
				t.Errorf("Position.String() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestItoa(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected string
	}{
		{name: "zero", input: 0, expected: "0"},
		{name: "positive number", input: 42, expected: "42"},
		{name: "negative number", input: -10, expected: "-10"},
		{name: "large number", input: 123456, expected: "123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := itoa(tt.input)
			if result != tt.expected {
				t.Errorf("itoa(%d) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}
