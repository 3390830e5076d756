package services

import (
	"strings"
	"unicode/utf8"
)

// LineHeight is the vertical advance between wrapped lines.
const LineHeight = 6.0

// Measurer reports the rendered width of s in the current font.
type Measurer interface {
	GetStringWidth(s string) float64
}

// WrapText breaks text into lines no wider than maxWidth. Explicit newlines
// are kept, runs of spaces collapse, and a single word wider than maxWidth is
// split by rune. The result always has at least one line.
func WrapText(m Measurer, text string, maxWidth float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(m, para, maxWidth)...)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func wrapParagraph(m Measurer, para string, maxWidth float64) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	for _, w := range words {
		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		if m.GetStringWidth(candidate) <= maxWidth {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
		if m.GetStringWidth(w) <= maxWidth {
			line = w
			continue
		}
		pieces := splitWord(m, w, maxWidth)
		lines = append(lines, pieces[:len(pieces)-1]...)
		line = pieces[len(pieces)-1]
	}
	return append(lines, line)
}

// splitWord cuts an over-long word into pieces that each fit maxWidth. Every
// piece holds at least one rune so the loop always terminates.
func splitWord(m Measurer, w string, maxWidth float64) []string {
	var pieces []string
	for w != "" {
		n := 0
		for i := range w {
			if i == 0 {
				continue
			}
			if m.GetStringWidth(w[:i]) > maxWidth {
				break
			}
			n = i
		}
		if m.GetStringWidth(w) <= maxWidth {
			n = len(w)
		}
		if n == 0 {
			_, n = utf8.DecodeRuneInString(w)
		}
		pieces = append(pieces, w[:n])
		w = w[n:]
	}
	return pieces
}

// FlowText draws text wrapped to maxWidth starting at the cursor. The first
// line is drawn at the current Y; each following line advances by LineHeight
// and may break the page. It returns the number of lines drawn.
func FlowText(c Canvas, cur *Cursor, x, maxWidth float64, text string) int {
	lines := WrapText(c, text, maxWidth)
	for i, line := range lines {
		if i > 0 {
			cur.Advance(LineHeight)
			cur.RequestSpace(LineHeight)
		}
		c.Text(x, cur.Y, line)
	}
	return len(lines)
}

// rowAdvance is what remains of a row's height after FlowText has already
// moved the cursor for the extra lines of an n-line cell.
func rowAdvance(baseRowHeight float64, lines int) float64 {
	h := float64(lines) * LineHeight
	if baseRowHeight > h {
		h = baseRowHeight
	}
	return h - float64(lines-1)*LineHeight
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 3 {
		return string([]rune(s)[:n])
	}
	return string([]rune(s)[:n-3]) + "..."
}
