package flavor

import "testing"

func TestStats_Deterministic(t *testing.T) {
	a := Stats("appt-123")
	b := Stats("appt-123")
	if a != b {
		t.Fatalf("stats must be reproducible: %+v vs %+v", a, b)
	}
	if a.Speed == "" || a.Quality == "" {
		t.Fatalf("empty badge: %+v", a)
	}
}

func TestStats_KnownBuckets(t *testing.T) {
	// "ab" hashes to 97+98=195; 195%5=0, (195+2)%5=2.
	got := Stats("ab")
	if got.Speed != "Speed Run" || got.Quality != "Rare" {
		t.Fatalf("unexpected buckets: %+v", got)
	}
}

func TestAgentColor_Stable(t *testing.T) {
	if AgentColor("u1") != AgentColor("u1") {
		t.Fatal("agent color must be stable")
	}
}
