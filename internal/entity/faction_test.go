package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactionTiebreakersAreDistinct(t *testing.T) {
	all := append(CoreFactions(), BifurcationFactions()...)
	seen := make(map[string]FactionType)
	for _, f := range all {
		key := f.BidTiebreaker().String()
		if prev, dup := seen[key]; dup {
			t.Errorf("%s and %s share tiebreaker %s", prev, f, key)
		}
		seen[key] = f
	}
	// Base Kit always wins ties; nobody reaches its value.
	for _, f := range all {
		if f == KitCore {
			continue
		}
		assert.Negative(t, f.BidTiebreaker().Cmp(KitCore.BidTiebreaker()), "%s", f)
	}
}

func TestFactionColonySupport(t *testing.T) {
	assert.Equal(t, 0, ImdrilCore.ColonySupport(), "fleets support no colonies")
	assert.Greater(t, KjasCore.ColonySupport(), CaylionCore.ColonySupport())
	for _, f := range append(CoreFactions(), BifurcationFactions()...) {
		assert.GreaterOrEqual(t, f.ColonySupport(), 0, "%s", f)
	}
}
