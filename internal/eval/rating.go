package eval

import "strings"

// Star is the glyph repeated to render a rating.
const Star = "⭐"

// Rating tiers, checked from the top.
var ratingTiers = []struct {
	min    float64
	rating int
}{
	{0.9, 5},
	{0.7, 4},
	{0.5, 3},
	{0.3, 2},
}

// RatingFor maps a satisfaction ratio to a 1-5 star rating.
func RatingFor(ratio float64) int {
	for _, tier := range ratingTiers {
		if ratio >= tier.min {
			return tier.rating
		}
	}
	return 1
}

// Stars renders a rating as repeated star glyphs, clamped to 1-5.
func Stars(rating int) string {
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat(Star, rating)
}
