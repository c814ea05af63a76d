package match

// Levenshtein computes the edit distance between two strings, counted in runes.
func Levenshtein(x, y string) int {
	a, b := []rune(x), []rune(y)
	if len(a) > len(b) {
		a, b = b, a
	}

	// row[i] is the distance between a[:i] and the prefix of b seen so far.
	row := make([]int, len(a)+1)
	for i := range row {
		row[i] = i
	}

	for j, rb := range b {
		diag := row[0]
		row[0] = j + 1

		for i, ra := range a {
			cost := 1
			if ra == rb {
				cost = 0
			}

			next := min(row[i+1]+1, row[i]+1, diag+cost)
			diag, row[i+1] = row[i+1], next
		}
	}

	return row[len(a)]
}

// LevenshteinNormalized returns 1 - distance/longest, so 1.0 means identical.
func LevenshteinNormalized(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// Similarity compares two names after NormalizeIdent, so that
// "day_of_week" and "DayOfWeek" score 1.0.
func Similarity(a, b string) float64 {
	return LevenshteinNormalized(NormalizeIdent(a), NormalizeIdent(b))
}
