package review

import "testing"

func TestDecide(t *testing.T) {
	tests := []struct {
		rating int
		want   Outcome
	}{
		{1, OutcomeInternalFeedback},
		{2, OutcomeInternalFeedback},
		{3, OutcomeInternalFeedback},
		{4, OutcomeExternalRedirect},
		{5, OutcomeExternalRedirect},
	}

	for _, tt := range tests {
		if got := Decide(tt.rating); got != tt.want {
			t.Errorf("Decide(%d) = %q, want %q", tt.rating, got, tt.want)
		}
	}
}

func TestValidRating(t *testing.T) {
	tests := []struct {
		rating int
		want   bool
	}{
		{0, false},
		{1, true},
		{5, true},
		{6, false},
		{-1, false},
	}

	for _, tt := range tests {
		if got := ValidRating(tt.rating); got != tt.want {
			t.Errorf("ValidRating(%d) = %v, want %v", tt.rating, got, tt.want)
		}
	}
}
