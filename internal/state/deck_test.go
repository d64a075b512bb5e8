package state

import "testing"

// reverseShuffler deterministically reverses whatever it shuffles.
type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

func TestDeckDrawOrder(t *testing.T) {
	d := NewDeck(1, 2, 3)
	for want := 1; want <= 3; want++ {
		got, ok := d.Draw()
		if !ok || got != want {
			t.Fatalf("draw = %d, %v; want %d", got, ok, want)
		}
	}
	if _, ok := d.Draw(); ok {
		t.Fatal("draw from empty deck succeeded")
	}
}

func TestDeckDrawWhere(t *testing.T) {
	d := NewDeck(1, 2, 3, 4)
	got, ok := d.DrawWhere(func(c int) bool { return c%3 == 0 })
	if !ok || got != 3 {
		t.Fatalf("DrawWhere = %d, %v; want 3", got, ok)
	}
	// Skipped cards cycled to the bottom, relative order preserved.
	if want := []int{4, 1, 2}; !equalSlices(d.Cards(), want) {
		t.Fatalf("remaining = %v, want %v", d.Cards(), want)
	}
}

func TestDeckDrawWhereNoMatchRestoresOrder(t *testing.T) {
	d := NewDeck(1, 2, 3)
	if _, ok := d.DrawWhere(func(c int) bool { return c > 10 }); ok {
		t.Fatal("expected no match")
	}
	if want := []int{1, 2, 3}; !equalSlices(d.Cards(), want) {
		t.Fatalf("order after full pass = %v, want %v", d.Cards(), want)
	}
}

func TestDeckAddTopBottomPeek(t *testing.T) {
	d := NewDeck(2)
	d.AddTop(1)
	d.AddBottom(3)
	if top, ok := d.Peek(); !ok || top != 1 {
		t.Fatalf("peek = %d, %v", top, ok)
	}
	if d.Len() != 3 {
		t.Fatalf("len = %d", d.Len())
	}
	if want := []int{1, 2, 3}; !equalSlices(d.Cards(), want) {
		t.Fatalf("cards = %v, want %v", d.Cards(), want)
	}
}

func TestDeckShuffleAndClone(t *testing.T) {
	d := NewDeck(1, 2, 3, 4)
	c := d.Clone()
	d.Shuffle(reverseShuffler{})
	if want := []int{4, 3, 2, 1}; !equalSlices(d.Cards(), want) {
		t.Fatalf("shuffled = %v, want %v", d.Cards(), want)
	}
	// The clone is unaffected.
	if want := []int{1, 2, 3, 4}; !equalSlices(c.Cards(), want) {
		t.Fatalf("clone = %v, want %v", c.Cards(), want)
	}
}

func equalSlices(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
