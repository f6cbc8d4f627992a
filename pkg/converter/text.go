package converter

import (
	"fmt"
	"strings"

	"github.com/james-see/chordkit/pkg/chord"
)

// BarLine separates bars in a text progression; it carries no timing
const BarLine = "|"

// ParseProgression reads whitespace-separated chord names such as
// "Dm7 G7 | Cmaj7". Bar lines and lines starting with '#' are ignored.
func ParseProgression(text string) (*Progression, error) {
	p := &Progression{Name: "Text Progression"}
	for lineNum, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, token := range strings.Fields(line) {
			if token == BarLine {
				continue
			}
			c, err := chord.Parse(strings.Trim(token, BarLine))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum+1, err)
			}
			p.Chords = append(p.Chords, c)
		}
	}
	if len(p.Chords) == 0 {
		return nil, ErrEmptyProgression
	}
	return p, nil
}

// FormatProgression writes chord names separated by bar lines
func FormatProgression(p *Progression) string {
	return strings.Join(p.Names(), " "+BarLine+" ")
}
