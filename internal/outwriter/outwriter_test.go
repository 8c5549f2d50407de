package outwriter

import (
	"testing"
)

func TestWindowsLabel(t *testing.T) {
	tests := []struct {
		name     string
		windows  []int
		expected string
	}{
		{
			name:     "default windows",
			windows:  []int{4, 6, 10},
			expected: "4, 6, 10",
		},
		{
			name:     "single window",
			windows:  []int{8},
			expected: "8",
		},
		{
			name:     "empty",
			windows:  nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := windowsLabel(tt.windows)
			if result != tt.expected {
				t.Errorf("windowsLabel() = %q, expected %q", result, tt.expected)
			}
		})
	}
}
