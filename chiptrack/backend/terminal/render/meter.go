package render

import "strings"

// Meter draws level (0-255) as a bar of width cells, using eighth blocks for the
// partial cell.
func Meter(level uint8, width int) string {
	if width <= 0 {
		return ""
	}
	eighths := int(level) * width * 8 / 255
	full := eighths / 8

	var sb strings.Builder
	sb.WriteString(strings.Repeat("█", full))
	if full < width {
		if part := eighths % 8; part > 0 {
			sb.WriteRune(partialBlocks[part])
			full++
		}
		sb.WriteString(strings.Repeat("·", width-full))
	}
	return sb.String()
}

var partialBlocks = [8]rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉'}

// Truncate cuts s to width runes, marking the cut with "...".
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width > 3 {
		return string(r[:width-3]) + "..."
	}
	if width > 0 {
		return string(r[:width])
	}
	return ""
}
