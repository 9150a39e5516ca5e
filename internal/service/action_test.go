package service

import "testing"

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"view", ActionView},
		{"like", ActionLike},
		{"unlike", ActionUnlike},
		{"", ActionUnknown},
		{"LIKE", ActionUnknown},
		{"dislike", ActionUnknown},
	}
	for _, tt := range tests {
		if got := ParseAction(tt.in); got != tt.want {
			t.Errorf("ParseAction(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestActionIncrement(t *testing.T) {
	const base = 0.2
	tests := []struct {
		action Action
		want   float64
	}{
		{ActionLike, 0.2},
		{ActionView, 0.1},
		{ActionUnlike, -0.2},
		{ActionUnknown, 0},
	}
	for _, tt := range tests {
		if got := tt.action.Increment(base); got != tt.want {
			t.Errorf("%v.Increment(%v) = %v, want %v", tt.action, base, got, tt.want)
		}
	}
}
