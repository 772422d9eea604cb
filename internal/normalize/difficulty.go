package normalize

import (
	"strconv"
	"strings"
)

// Difficulty is the quiz difficulty level.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// ParseDifficulty maps a difficulty name (any case) or a 1-5 rating onto a
// Difficulty. Ratings 1-2 are Easy, 3 is Medium and 4-5 are Hard. Anything
// unrecognized is Medium.
func ParseDifficulty(s string) Difficulty {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "easy":
		return Easy
	case "medium":
		return Medium
	case "hard":
		return Hard
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return difficultyFromRating(n)
	}
	return Medium
}

// Valid reports whether d is one of the three known levels.
func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

func difficultyFromRating(n float64) Difficulty {
	switch {
	case n >= 1 && n < 3:
		return Easy
	case n >= 3 && n < 4:
		return Medium
	case n >= 4 && n <= 5:
		return Hard
	}
	return Medium
}
