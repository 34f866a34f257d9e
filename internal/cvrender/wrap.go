package cvrender

import "strings"

// measureFunc returns the rendered width in mm of text set in font.
type measureFunc func(text string, font fontSpec) float64

// wrapText breaks text into lines no wider than width. A word wider than
// width is split between runes.
func wrapText(text string, width float64, font fontSpec, measure measureFunc) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := ""
	for _, word := range words {
		if measure(word, font) > width {
			if current != "" {
				lines = append(lines, current)
			}
			pieces := breakWord(word, width, font, measure)
			lines = append(lines, pieces[:len(pieces)-1]...)
			current = pieces[len(pieces)-1]
			continue
		}
		if current == "" {
			current = word
			continue
		}
		candidate := current + " " + word
		if measure(candidate, font) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}

// breakWord splits word into pieces no wider than width. Every piece holds
// at least one rune.
func breakWord(word string, width float64, font fontSpec, measure measureFunc) []string {
	var pieces []string
	var piece []rune
	for _, r := range word {
		if len(piece) > 0 && measure(string(append(piece, r)), font) > width {
			pieces = append(pieces, string(piece))
			piece = piece[:0:0]
		}
		piece = append(piece, r)
	}
	return append(pieces, string(piece))
}

// limitLines keeps at most budget lines and marks the cut on the last one.
// When fits is set, the marked line is shortened until fits accepts it.
func limitLines(lines []string, budget int, fits func(string) bool) []string {
	if len(lines) <= budget {
		return lines
	}
	kept := append([]string(nil), lines[:budget]...)
	last := []rune(strings.TrimRight(kept[budget-1], " .,;:"))
	for fits != nil && len(last) > 0 && !fits(string(last)+truncationMarker) {
		last = []rune(strings.TrimRight(string(last[:len(last)-1]), " .,;:"))
	}
	kept[budget-1] = string(last) + truncationMarker
	return kept
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
