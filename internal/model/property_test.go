package model

import "testing"

func TestMeanRating(t *testing.T) {
	cases := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{"no ratings", nil, 0},
		{"single", []int{4}, 4.0},
		{"pair", []int{4, 5}, 4.5},
		{"rounds down", []int{1, 1, 2}, 1.3},
		{"rounds up", []int{5, 5, 4}, 4.7},
		{"all same", []int{3, 3, 3, 3}, 3.0},
	}
	for _, tc := range cases {
		if got := MeanRating(tc.ratings); got != tc.want {
			t.Errorf("%s: MeanRating(%v) = %v, want %v", tc.name, tc.ratings, got, tc.want)
		}
	}
}

func TestValidRating(t *testing.T) {
	for r := RatingMin; r <= RatingMax; r++ {
		if !ValidRating(r) {
			t.Errorf("ValidRating(%d) = false", r)
		}
	}
	for _, r := range []int{0, -1, 6, 100} {
		if ValidRating(r) {
			t.Errorf("ValidRating(%d) = true", r)
		}
	}
}
