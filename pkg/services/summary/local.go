package summary

import (
	"strings"
	"unicode"
)

// NoActivitiesText is returned whenever there is nothing to summarize.
const NoActivitiesText = "No work activities were recorded during this period."

const maxLocalSentences = 3

// LocalSummary is the deterministic fallback summarizer: the first three
// sentences of the input, re-joined and capitalized. It never returns an
// empty string.
func LocalSummary(text string) string {
	if strings.TrimSpace(text) == "" {
		return NoActivitiesText
	}

	var sentences []string
	for _, s := range strings.Split(text, ".") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return NoActivitiesText
	}
	if len(sentences) > maxLocalSentences {
		sentences = sentences[:maxLocalSentences]
	}

	return capitalize(strings.Join(sentences, ". ") + ".")
}

func capitalize(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsSpace(r) {
			continue
		}
		runes[i] = unicode.ToUpper(r)
		break
	}
	return string(runes)
}
