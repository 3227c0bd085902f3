package id

import "testing"

func TestNextMonotonic(t *testing.T) {
	g := NewGenerator()
	prev := g.Next()
	for i := 0; i < 10000; i++ {
		cur := g.Next()
		if cur <= prev {
			t.Fatalf("id went backwards: %d after %d", cur, prev)
		}
		prev = cur
	}
}

func TestNextClockBackwards(t *testing.T) {
	orig := NowMs
	defer func() { NowMs = orig }()

	now := int64(1_700_000_000_000)
	NowMs = func() int64 { return now }

	g := NewGenerator()
	a := g.Next()
	now -= 50
	b := g.Next()
	if b <= a {
		t.Fatalf("id regressed on clock skew: %d after %d", b, a)
	}
}
