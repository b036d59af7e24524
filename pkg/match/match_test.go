package match

import "testing"

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 100},
		{"same", "same", 100},
		{"abc", "xyz", 0},
		{"what is the price?", "what is the price", 95},
		{"", "abc", 0},
	}
	for _, tt := range tests {
		if got := Ratio(tt.a, tt.b); got != tt.want {
			t.Fatalf("Ratio(%q, %q)=%d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRatio_Symmetric(t *testing.T) {
	if Ratio("kitten", "sitting") != Ratio("sitting", "kitten") {
		t.Fatal("Ratio should be symmetric")
	}
}

func TestBest_EmptyCandidates(t *testing.T) {
	if _, ok := Best("anything", nil); ok {
		t.Fatal("Best on empty candidates should report ok=false")
	}
	if _, ok := Best("anything", map[string]string{}); ok {
		t.Fatal("Best on empty candidates should report ok=false")
	}
}

func TestBest_PicksClosestKey(t *testing.T) {
	candidates := map[string]string{
		"what is the price":   "It is $50",
		"where do you ship":   "Worldwide",
		"is there a warranty": "Two years",
	}

	m, ok := Best("what is the price?", candidates)
	if !ok {
		t.Fatal("Best: ok=false")
	}
	if m.Key != "what is the price" {
		t.Fatalf("Key=%q", m.Key)
	}
	if m.Reply != "It is $50" {
		t.Fatalf("Reply=%q", m.Reply)
	}
	if m.Score < 90 {
		t.Fatalf("Score=%d, want a near-exact score", m.Score)
	}
}

func TestBest_ZeroScoreStillMatches(t *testing.T) {
	m, ok := Best("zzz", map[string]string{"abc": "reply"})
	if !ok {
		t.Fatal("Best: ok=false for non-empty candidates")
	}
	if m.Score != 0 || m.Key != "abc" {
		t.Fatalf("got %+v, want the lone candidate at score 0", m)
	}
}

func TestBest_DeterministicTieBreak(t *testing.T) {
	// Both keys are equally distant from the query; the first in
	// sorted order must win every time.
	candidates := map[string]string{
		"ab": "first",
		"ad": "second",
	}
	for i := 0; i < 20; i++ {
		m, ok := Best("ac", candidates)
		if !ok {
			t.Fatal("Best: ok=false")
		}
		if m.Key != "ab" {
			t.Fatalf("iteration %d: Key=%q, want stable winner ab", i, m.Key)
		}
	}
}
