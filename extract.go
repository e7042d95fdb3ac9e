package xlsheet

// Extract reads the raw values inside rng as a dense rectangle.
// The sheet is treated as infinite and sparse: absent or out-of-bounds cells,
// including negative coordinates, read as nil. The sheet is not modified.
func Extract(s *Sheet, rng Range) [][]any {
	size := rng.Size()
	if size.Height <= 0 || size.Width <= 0 {
		return [][]any{}
	}
	out := make([][]any, 0, size.Height)
	for row := rng.Start.Row; row <= rng.End.Row; row++ {
		vals := make([]any, 0, size.Width)
		for col := rng.Start.Col; col <= rng.End.Col; col++ {
			var v any
			if s != nil {
				v = s.Value(row, col)
			}
			vals = append(vals, v)
		}
		out = append(out, vals)
	}
	return out
}

// ExtractRange parses a range string like "A1:C10" and extracts it.
func ExtractRange(s *Sheet, rng string) [][]any {
	return Extract(s, ParseRange(rng))
}
