// Package state holds the authoritative game state: the phase machine,
// ownership maps, bid tracks, decks and per-faction auxiliary records,
// together with the record vocabulary that is the only way any of it
// changes.
package state

import "fmt"

// Phase is the current phase of the game.
type Phase int

const (
	// PhaseInit is the setup phase before the game has started:
	// players are created and starting resources granted.
	PhaseInit Phase = iota
	// PhaseTrade is when players trade with each other and run purple
	// converters.
	PhaseTrade
	// PhaseEconomy is when the engine runs all marked white
	// converters.
	PhaseEconomy
	// PhaseColonyBid is when players commit their ships to colony and
	// tech bids and take colonies in bid order.
	PhaseColonyBid
	// PhaseTechBid is when players take research teams in bid order.
	// Ships committed to a passed colony bid cannot be reused here.
	PhaseTechBid
	// PhaseZethSteal is when Zeth stealing converters run against
	// players that did not trade with the Zeth this confluence.
	PhaseZethSteal
	// PhaseResolution is when debts resolve, after the last
	// confluence.
	PhaseResolution
	// PhaseFinish is terminal; points are totalled and a winner
	// decided.
	PhaseFinish
)

var phaseNames = map[Phase]string{
	PhaseInit:       "INIT",
	PhaseTrade:      "TRADE",
	PhaseEconomy:    "ECONOMY",
	PhaseColonyBid:  "COLONY_BID",
	PhaseTechBid:    "TECH_BID",
	PhaseZethSteal:  "ZETH_STEAL",
	PhaseResolution: "RESOLUTION",
	PhaseFinish:     "FINISH",
}

var phasesByName = func() map[string]Phase {
	m := make(map[string]Phase, len(phaseNames))
	for p, n := range phaseNames {
		m[n] = p
	}
	return m
}()

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// MarshalText encodes the phase by name so records stay readable in
// the persisted log.
func (p Phase) MarshalText() ([]byte, error) {
	name, ok := phaseNames[p]
	if !ok {
		return nil, fmt.Errorf("state: unknown phase %d", int(p))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a phase by name.
func (p *Phase) UnmarshalText(b []byte) error {
	v, ok := phasesByName[string(b)]
	if !ok {
		return fmt.Errorf("state: unknown phase %q", string(b))
	}
	*p = v
	return nil
}

// CanAdvance reports whether the game may move from p to the requested
// phase. The branch out of Economy depends on whether the current
// confluence is the last one: the final confluence skips the bidding
// phases and goes straight to Resolution. That context lives on the
// game state, not in the table, so the caller supplies it.
//
// Resolution never re-enters Trade; recurring debts across confluences
// are not part of the transition graph.
func (p Phase) CanAdvance(to Phase, finalConfluence bool) bool {
	switch p {
	case PhaseInit:
		return to == PhaseTrade
	case PhaseTrade:
		return to == PhaseEconomy
	case PhaseEconomy:
		if finalConfluence {
			return to == PhaseResolution
		}
		return to == PhaseColonyBid
	case PhaseColonyBid:
		return to == PhaseTechBid
	case PhaseTechBid:
		return to == PhaseZethSteal
	case PhaseZethSteal:
		return to == PhaseTrade
	case PhaseResolution:
		return to == PhaseFinish
	}
	return false
}
