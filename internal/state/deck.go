package state

// Shuffler supplies the randomness used to order a deck. Shuffling is
// an injected service so a replayed game can reproduce the same order.
type Shuffler interface {
	// Shuffle randomizes n elements through the swap callback, in the
	// manner of math/rand.Shuffle.
	Shuffle(n int, swap func(i, j int))
}

// Deck is an ordered pile of cards. Cards draw from the top; index 0
// is the top of the deck.
type Deck[T any] struct {
	cards []T
}

// NewDeck builds a deck with the given cards, first card on top.
func NewDeck[T any](cards ...T) Deck[T] {
	d := Deck[T]{cards: make([]T, len(cards))}
	copy(d.cards, cards)
	return d
}

// Len returns how many cards remain.
func (d *Deck[T]) Len() int { return len(d.cards) }

// Draw removes and returns the top card.
func (d *Deck[T]) Draw() (T, bool) {
	var zero T
	if len(d.cards) == 0 {
		return zero, false
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, true
}

// DrawWhere removes and returns the first card satisfying the
// predicate, cycling non-matching cards to the bottom. After a full
// pass without a match the deck is back in its original order and the
// draw reports failure.
func (d *Deck[T]) DrawWhere(match func(T) bool) (T, bool) {
	var zero T
	for i := len(d.cards); i > 0; i-- {
		c, _ := d.Draw()
		if match(c) {
			return c, true
		}
		d.AddBottom(c)
	}
	return zero, false
}

// Peek returns the top card without removing it.
func (d *Deck[T]) Peek() (T, bool) {
	var zero T
	if len(d.cards) == 0 {
		return zero, false
	}
	return d.cards[0], true
}

// AddTop places a card on top of the deck.
func (d *Deck[T]) AddTop(c T) {
	d.cards = append([]T{c}, d.cards...)
}

// AddBottom places a card at the bottom of the deck.
func (d *Deck[T]) AddBottom(c T) {
	d.cards = append(d.cards, c)
}

// Shuffle reorders the deck using the supplied shuffler.
func (d *Deck[T]) Shuffle(s Shuffler) {
	s.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Cards returns a copy of the deck's contents, top first.
func (d *Deck[T]) Cards() []T {
	out := make([]T, len(d.cards))
	copy(out, d.cards)
	return out
}

// Clone returns an independent copy of the deck.
func (d *Deck[T]) Clone() Deck[T] {
	return NewDeck(d.cards...)
}
