package engine

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/cubatrice/engine/internal/entity"
	"github.com/cubatrice/engine/internal/state"
)

// Checksum computes a deterministic digest of a game state. Two states
// reached by applying the same record log compare equal, regardless of
// map iteration order. Replay verification compares these digests.
func Checksum(s *state.GameState) string {
	sum := sha256.Sum256([]byte(canonical(s)))
	return hex.EncodeToString(sum[:])
}

// canonical renders the state as a sorted line-oriented string. Maps
// are emitted in key order; slices whose order is part of the state
// (decks, bid tracks, bid orders, token lists, the applied log) keep
// their order.
func canonical(s *state.GameState) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%d|%d|%d|%d\n",
		s.Phase, s.Confluence, s.TotalConfluences, s.NextCubeID, s.NextConverterID)

	for _, p := range s.Players() {
		fmt.Fprintf(&buf, "PLAYER:%d|%s\n", p, s.Factions[p])

		cubeIDs := make([]entity.CubeID, 0, len(s.Cubes[p]))
		for id := range s.Cubes[p] {
			cubeIDs = append(cubeIDs, id)
		}
		sort.Slice(cubeIDs, func(i, j int) bool { return cubeIDs[i] < cubeIDs[j] })
		for _, id := range cubeIDs {
			c := s.Cubes[p][id]
			donation := "-"
			if c.Donation != nil {
				donation = fmt.Sprintf("%d", *c.Donation)
			}
			fmt.Fprintf(&buf, "  CUBE:%d|%s|%s\n", id, c.Type, donation)
		}
		for _, id := range s.PlayerColonies(p) {
			fmt.Fprintf(&buf, "  COLONY:%d|%s\n", id, s.Colonies[p][id].Name)
		}
		for _, tok := range s.Tokens[p] {
			fmt.Fprintf(&buf, "  TOKEN:%s|%s\n", tok.Kind, tok.Factory)
		}
	}

	convIDs := make([]entity.ConverterID, 0, len(s.Converters))
	for id := range s.Converters {
		convIDs = append(convIDs, id)
	}
	sort.Slice(convIDs, func(i, j int) bool { return convIDs[i] < convIDs[j] })
	for _, id := range convIDs {
		oc := s.Converters[id]
		loan := "-"
		if oc.LoanOrigin != nil {
			loan = fmt.Sprintf("%d", *oc.LoanOrigin)
		}
		fmt.Fprintf(&buf, "CONVERTER:%d|%d|%s|%t|%t|%s>%s\n",
			id, oc.Owner, loan, oc.Untradable, oc.Marked,
			itemsKey(oc.Conv.Input()), itemsKey(oc.Conv.Output()))
	}

	writeTechMap(&buf, "TEAM", s.TechTeams)
	writeTechMap(&buf, "INVENTED", s.Invented)
	techIDs := sortedTechs(s.InventedAt)
	for _, t := range techIDs {
		fmt.Fprintf(&buf, "INVENTED_AT:%d|%d|%t\n", t, s.InventedAt[t], s.Shared[t])
	}

	bidders := make([]entity.PlayerID, 0, len(s.Bids))
	for p := range s.Bids {
		bidders = append(bidders, p)
	}
	sort.Slice(bidders, func(i, j int) bool { return bidders[i] < bidders[j] })
	for _, p := range bidders {
		b := s.Bids[p]
		fmt.Fprintf(&buf, "BID:%d|%d|%s|%d|%s\n",
			p, b.Colony, intKey(b.ColonySplit), b.Tech, intKey(b.TechSplit))
	}

	buf.WriteString("COLONY_TRACK:" + trackKey(s.ColonyBidTrack) + "\n")
	buf.WriteString("TECH_TRACK:" + trackKey(s.TechBidTrack) + "\n")
	buf.WriteString("COLONY_ORDER:" + orderKey(s.ColonyBidOrder) + "\n")
	buf.WriteString("TECH_ORDER:" + orderKey(s.TechBidOrder) + "\n")

	fmt.Fprintf(&buf, "TECH_DECK:%v\n", s.TechDeck.Cards())
	fmt.Fprintf(&buf, "COLONY_DECK:%v\n", s.ColonyDeck.Cards())

	relics := make([]string, 0, s.Faderan.RelicDeck.Len())
	for _, r := range s.Faderan.RelicDeck.Cards() {
		relics = append(relics, string(r))
	}
	fmt.Fprintf(&buf, "RELIC_DECK:%s\n", strings.Join(relics, ","))
	writePlayerInts(&buf, "ACK", s.Faderan.Acknowledgements)

	licensees := make([]entity.PlayerID, 0, len(s.Yengii.Licenses))
	for p := range s.Yengii.Licenses {
		licensees = append(licensees, p)
	}
	sort.Slice(licensees, func(i, j int) bool { return licensees[i] < licensees[j] })
	for _, p := range licensees {
		ts := append([]entity.TechID(nil), s.Yengii.Licenses[p]...)
		sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })
		fmt.Fprintf(&buf, "LICENSE:%d|%v\n", p, ts)
	}

	writePlayerInts(&buf, "ENVOY", s.Zeth.Envoys)
	writePlayerBools(&buf, "PROTECTED", s.Zeth.Protected)
	factoryOwners := make([]entity.PlayerID, 0, len(s.Imdril.Factories))
	for p := range s.Imdril.Factories {
		factoryOwners = append(factoryOwners, p)
	}
	sort.Slice(factoryOwners, func(i, j int) bool { return factoryOwners[i] < factoryOwners[j] })
	for _, p := range factoryOwners {
		fmt.Fprintf(&buf, "FACTORY:%d|%v\n", p, s.Imdril.Factories[p])
	}
	writePlayerInts(&buf, "SERVICE", s.EniEt.Service)

	retro := make([]entity.ConverterID, 0, len(s.Unity.Retro))
	for id, used := range s.Unity.Retro {
		if used {
			retro = append(retro, id)
		}
	}
	sort.Slice(retro, func(i, j int) bool { return retro[i] < retro[j] })
	fmt.Fprintf(&buf, "RETRO:%v\n", retro)

	fmt.Fprintf(&buf, "APPLIED:%v\n", s.Applied)
	return buf.String()
}

func itemsKey(items []entity.Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, ",")
}

func intKey(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func trackKey[T entity.ColonyID | entity.TechID](track []*T) string {
	parts := make([]string, len(track))
	for i, slot := range track {
		if slot == nil {
			parts[i] = "-"
		} else {
			parts[i] = fmt.Sprintf("%d", *slot)
		}
	}
	return strings.Join(parts, ",")
}

func orderKey(order []state.BidEntry) string {
	parts := make([]string, len(order))
	for i, e := range order {
		parts[i] = fmt.Sprintf("%d:%d", e.Player, e.Ships)
	}
	return strings.Join(parts, ",")
}

func writeTechMap(buf *bytes.Buffer, label string, m map[entity.TechID]entity.PlayerID) {
	for _, t := range sortedTechs(m) {
		fmt.Fprintf(buf, "%s:%d|%d\n", label, t, m[t])
	}
}

func sortedTechs[V any](m map[entity.TechID]V) []entity.TechID {
	out := make([]entity.TechID, 0, len(m))
	for t := range m {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func writePlayerInts(buf *bytes.Buffer, label string, m map[entity.PlayerID]int) {
	ps := make([]entity.PlayerID, 0, len(m))
	for p := range m {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })
	for _, p := range ps {
		fmt.Fprintf(buf, "%s:%d|%d\n", label, p, m[p])
	}
}

func writePlayerBools(buf *bytes.Buffer, label string, m map[entity.PlayerID]bool) {
	ps := make([]entity.PlayerID, 0, len(m))
	for p, v := range m {
		if v {
			ps = append(ps, p)
		}
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })
	for _, p := range ps {
		fmt.Fprintf(buf, "%s:%d\n", label, p)
	}
}
