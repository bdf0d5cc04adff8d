package extraction

import (
	"strings"
	"unicode/utf8"

	"bolx/internal/domain"
)

// MinQualityChars is the trimmed length below which text is always low
// confidence.
const MinQualityChars = 50

const structureNewlines = 5

var qualityKeywords = []string{"SHIPPER", "CONSIGNEE", "VESSEL", "B/L", "BOL"}

// AssessQuality scores text from two structural signals: presence of
// bill-of-lading keywords and more than five line breaks.
func AssessQuality(text string) domain.Confidence {
	if trimmedLen(text) < MinQualityChars {
		return domain.ConfidenceLow
	}

	upper := strings.ToUpper(text)
	hasKeywords := false
	for _, kw := range qualityKeywords {
		if strings.Contains(upper, kw) {
			hasKeywords = true
			break
		}
	}
	hasStructure := strings.Count(text, "\n") > structureNewlines

	switch {
	case hasKeywords && hasStructure:
		return domain.ConfidenceHigh
	case hasKeywords || hasStructure:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

func trimmedLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
