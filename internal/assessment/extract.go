package assessment

import (
	"fmt"
	"strings"
)

const answersMarker = "Answers:"

// Pairs holds the ordered question and expected-answer sequences extracted
// from generator output. The two sequences are not guaranteed to have equal
// length; the scorer enforces that.
type Pairs struct {
	Questions []string
	Answers   []string
}

// ExtractPairs splits raw generator output on the literal "Answers:" marker
// and extracts the numbered items from each half.
func ExtractPairs(raw string) (*Pairs, error) {
	questionsPart, answersPart, found := strings.Cut(raw, answersMarker)
	if !found {
		return nil, fmt.Errorf("%w: missing %q marker", ErrFormat, answersMarker)
	}

	questions := extractNumbered(questionsPart)
	answers := extractNumbered(answersPart)

	if len(questions) == 0 || len(answers) == 0 {
		return nil, fmt.Errorf("%w: no numbered items extracted (questions=%d, answers=%d)",
			ErrFormat, len(questions), len(answers))
	}

	return &Pairs{Questions: questions, Answers: answers}, nil
}

// extractNumbered scans a segment for items of the form "N. text", where text
// runs until the next numbered item or the end of the segment. Items may span
// multiple lines; numbering inside a line does not start a new item. Text
// before the first numbered item is dropped. Every item is whitespace-trimmed.
func extractNumbered(segment string) []string {
	var items []string
	var current []string
	collecting := false

	flush := func() {
		if collecting {
			items = append(items, strings.TrimSpace(strings.Join(current, "\n")))
			current = current[:0]
		}
	}

	for _, line := range strings.Split(segment, "\n") {
		if rest, ok := numberedItem(line); ok {
			flush()
			collecting = true
			current = append(current, rest)
			continue
		}
		if collecting {
			current = append(current, line)
		}
	}
	flush()

	return items
}

// numberedItem reports whether the line starts a new item: optional leading
// whitespace, one or more digits, a period, then a space or end of line.
func numberedItem(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")

	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(trimmed) || trimmed[i] != '.' {
		return "", false
	}

	rest := trimmed[i+1:]
	if rest != "" && rest[0] != ' ' {
		return "", false
	}

	return strings.TrimPrefix(rest, " "), true
}
