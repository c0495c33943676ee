package sentiment

import "strings"

// labelPolarity signs a classifier confidence by its label.
func labelPolarity(label string, confidence float64) float64 {
	switch strings.ToUpper(label) {
	case "POSITIVE", "POS", "LABEL_1":
		return confidence
	case "NEGATIVE", "NEG", "LABEL_0":
		return -confidence
	default:
		return 0
	}
}
