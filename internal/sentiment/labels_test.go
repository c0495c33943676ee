package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelPolarity(t *testing.T) {
	tests := []struct {
		label      string
		confidence float64
		want       float64
	}{
		{"POSITIVE", 0.98, 0.98},
		{"positive", 0.6, 0.6},
		{"LABEL_1", 0.7, 0.7},
		{"NEGATIVE", 0.91, -0.91},
		{"NEG", 0.5, -0.5},
		{"LABEL_0", 0.8, -0.8},
		{"NEUTRAL", 0.99, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, labelPolarity(tt.label, tt.confidence), tt.label)
	}
}
