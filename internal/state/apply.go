package state

import (
	"fmt"
	"sort"

	"github.com/cubatrice/engine/internal/entity"
)

// Apply validates and applies a record group, returning the successor
// state. The receiver is never mutated: each record is validated
// against the evolving successor and applied to it, so a mid-group
// rejection discards the whole successor and the receiver remains the
// authoritative state. The prior state pointer is the exact inverse of
// the group, which is how the engine rolls a group back.
func (s *GameState) Apply(group RecordGroup) (*GameState, error) {
	next := s.Clone()
	for i, r := range group.Records {
		if err := next.Validate(r); err != nil {
			return nil, fmt.Errorf("group %d record %d (%s): %w", group.ID, i, r.Kind, err)
		}
		next.apply(r)
	}
	next.Applied = append(next.Applied, group.ID)
	return next, nil
}

// apply mutates the state for one already-validated record.
func (s *GameState) apply(r Record) {
	switch r.Kind {
	case RecordCreatePlayer:
		s.applyCreatePlayer(r.CreatePlayer)
	case RecordChangePhase:
		s.applyChangePhase(r.ChangePhase)
	case RecordTradeCubes:
		s.applyTradeCubes(r.TradeCubes)
	case RecordTradeColony:
		s.applyTradeColony(r.TradeColony)
	case RecordTradeConverter:
		s.applyTradeConverter(r.TradeConverter)
	case RecordRetrocontinuity:
		s.applyRetrocontinuity(r.Retrocontinuity)
	case RecordBid:
		s.applyBid(r.Bid)
	case RecordTakeColony:
		s.applyTakeColony(r.TakeColony)
	case RecordTakeResearch:
		s.applyTakeResearch(r.TakeResearch)
	case RecordInventTech:
		s.applyInventTech(r.InventTech)
	case RecordLicense:
		s.applyLicense(r.License)
	}
}

func (s *GameState) applyCreatePlayer(rec *CreatePlayer) {
	p := rec.Player
	s.Factions[p] = rec.Faction
	s.Cubes[p] = make(map[entity.CubeID]entity.Cube)
	s.Colonies[p] = make(map[entity.ColonyID]*entity.Colony)

	if items, ok := s.data.StartingResources(rec.Faction); ok {
		for _, it := range items {
			s.produceItem(p, it)
		}
	}

	convs := s.data.FactionConverters(rec.Faction)
	switch rec.Faction {
	case entity.KitCore, entity.KitAlt:
		// Kit starting converters come two to a card.
		for i := 0; i+1 < len(convs); i += 2 {
			s.grantConverter(p, entity.NewPairedConverter(convs[i], convs[i+1]))
		}
		if len(convs)%2 == 1 {
			cp := convs[len(convs)-1]
			s.grantConverter(p, &cp)
		}
	default:
		for _, c := range convs {
			cp := c
			s.grantConverter(p, &cp)
		}
	}

	if rec.Faction == entity.FaderanCore {
		s.Faderan.RelicDeck = NewDeck(entity.AllRelicWorlds()...)
	}
}

func (s *GameState) applyChangePhase(rec *ChangePhase) {
	switch rec.To {
	case PhaseTrade:
		s.Confluence++
		s.shareInventions()
		s.resetRound()
	case PhaseEconomy:
		s.runEconomy()
	case PhaseColonyBid:
		s.dealBidTracks()
	}
	s.Phase = rec.To
}

// shareInventions distributes converter prototypes invented in earlier
// confluences to the whole table. Yengii inventions are exempt; they
// reach other players only through licenses.
func (s *GameState) shareInventions() {
	ids := make([]entity.TechID, 0, len(s.Invented))
	for id := range s.Invented {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if s.Shared[id] || s.InventedAt[id] >= s.Confluence {
			continue
		}
		inventor := s.Invented[id]
		if f := s.Factions[inventor]; f == entity.YengiiCore || f == entity.YengiiAlt {
			continue
		}
		for _, p := range s.Players() {
			if p != inventor {
				s.grantPrototype(p, id)
			}
		}
		s.Shared[id] = true
	}
}

// resetRound clears the per-confluence bookkeeping when a new trade
// phase begins: pending bids, bid orders, leftover bid track cards
// (returned to the bottoms of their decks), retrocontinuity marks and
// Zeth trade protection.
func (s *GameState) resetRound() {
	s.Bids = make(map[entity.PlayerID]*PlayerBid)
	s.ColonyBidOrder = nil
	s.TechBidOrder = nil
	for _, slot := range s.ColonyBidTrack {
		if slot != nil {
			s.ColonyDeck.AddBottom(*slot)
		}
	}
	for _, slot := range s.TechBidTrack {
		if slot != nil {
			s.TechDeck.AddBottom(*slot)
		}
	}
	s.ColonyBidTrack = nil
	s.TechBidTrack = nil
	s.Unity.Retro = make(map[entity.ConverterID]bool)
	s.Zeth.Protected = make(map[entity.PlayerID]bool)
}

// runEconomy runs every marked white converter in identifier order,
// then every owned colony's white converter in player then colony
// order. Converters that ran early through retrocontinuity are
// skipped; anything whose owner cannot pay its inputs simply does not
// run.
func (s *GameState) runEconomy() {
	for _, id := range s.converterIDs() {
		oc := s.Converters[id]
		if !oc.Marked || oc.Conv.Color() != entity.ArrowWhite || s.Unity.Retro[id] {
			continue
		}
		s.runConverter(oc)
	}
	for _, p := range s.Players() {
		for _, id := range s.PlayerColonies(p) {
			c := s.Colonies[p][id]
			if c.Color() != entity.ArrowWhite {
				continue
			}
			s.runConvertible(p, c)
		}
	}
}

// dealBidTracks deals one colony and one research team per player onto
// the bid tracks, as far as the decks allow.
func (s *GameState) dealBidTracks() {
	n := len(s.Factions)
	s.ColonyBidTrack = nil
	s.TechBidTrack = nil
	for i := 0; i < n; i++ {
		id, ok := s.ColonyDeck.Draw()
		if !ok {
			break
		}
		c := id
		s.ColonyBidTrack = append(s.ColonyBidTrack, &c)
	}
	for i := 0; i < n; i++ {
		id, ok := s.TechDeck.Draw()
		if !ok {
			break
		}
		t := id
		s.TechBidTrack = append(s.TechBidTrack, &t)
	}
}

func (s *GameState) applyTradeCubes(rec *TradeCubes) {
	move := func(from, to entity.PlayerID, ids []entity.CubeID) {
		for _, id := range ids {
			c := s.Cubes[from][id]
			delete(s.Cubes[from], id)
			// A donation cube's obligation is discharged when its
			// origin trades it away.
			if c.Donation != nil && *c.Donation == from {
				c.Donation = nil
			}
			s.Cubes[to][id] = c
		}
	}
	move(rec.A, rec.B, rec.ACubes)
	move(rec.B, rec.A, rec.BCubes)

	if f := s.Factions[rec.A]; f == entity.ZethCore || f == entity.ZethAlt {
		s.Zeth.Protected[rec.B] = true
	}
	if f := s.Factions[rec.B]; f == entity.ZethCore || f == entity.ZethAlt {
		s.Zeth.Protected[rec.A] = true
	}
}

func (s *GameState) applyTradeColony(rec *TradeColony) {
	for _, id := range rec.AColonies {
		s.Colonies[rec.B][id] = s.Colonies[rec.A][id]
		delete(s.Colonies[rec.A], id)
	}
	for _, id := range rec.BColonies {
		s.Colonies[rec.A][id] = s.Colonies[rec.B][id]
		delete(s.Colonies[rec.B], id)
	}
}

func (s *GameState) applyTradeConverter(rec *TradeConverter) {
	move := func(to entity.PlayerID, ids []entity.ConverterID) {
		for _, id := range ids {
			oc := s.Converters[id]
			if rec.Permanent {
				oc.LoanOrigin = nil
			} else if oc.LoanOrigin == nil {
				origin := oc.Owner
				oc.LoanOrigin = &origin
			}
			oc.Owner = to
		}
	}
	move(rec.B, rec.AConverters)
	move(rec.A, rec.BConverters)
}

func (s *GameState) applyRetrocontinuity(rec *Retrocontinuity) {
	oc := s.Converters[rec.Converter]
	s.runConverter(oc)
	// The mark is spent even if the converter could not pay; either
	// way it will not run again this confluence.
	s.Unity.Retro[rec.Converter] = true
}

func (s *GameState) applyBid(rec *Bid) {
	b := &PlayerBid{Colony: rec.ForColony, Tech: rec.ForTech}
	if rec.ForColonyKjas != nil {
		v := *rec.ForColonyKjas
		b.ColonySplit = &v
	}
	if rec.ForTechFaderan != nil {
		v := *rec.ForTechFaderan
		b.TechSplit = &v
	}
	s.Bids[rec.Player] = b
	if len(s.Bids) == len(s.Factions) {
		s.computeBidOrders()
	}
}

// computeBidOrders resolves the pending bids into the colony and tech
// bid orders once every player has bid. Higher ship commitments act
// first; ties fall to the faction tie-break value.
func (s *GameState) computeBidOrders() {
	var colony, tech []BidEntry
	for _, p := range s.Players() {
		b := s.Bids[p]
		if b == nil {
			continue
		}
		colony = append(colony, BidEntry{Player: p, Ships: b.Colony})
		if b.ColonySplit != nil {
			colony = append(colony, BidEntry{Player: p, Ships: *b.ColonySplit})
		}
		tech = append(tech, BidEntry{Player: p, Ships: b.Tech})
		if b.TechSplit != nil {
			tech = append(tech, BidEntry{Player: p, Ships: *b.TechSplit})
		}
	}
	order := func(es []BidEntry) {
		sort.SliceStable(es, func(i, j int) bool {
			if es[i].Ships != es[j].Ships {
				return es[i].Ships > es[j].Ships
			}
			ti := s.Factions[es[i].Player].BidTiebreaker()
			tj := s.Factions[es[j].Player].BidTiebreaker()
			return ti.Cmp(tj) > 0
		})
	}
	order(colony)
	order(tech)
	s.ColonyBidOrder = colony
	s.TechBidOrder = tech
}

func (s *GameState) applyTakeColony(rec *TakeColony) {
	entry := s.ColonyBidOrder[0]
	s.ColonyBidOrder = s.ColonyBidOrder[1:]
	if rec.Colony == nil {
		return
	}
	idx := *rec.Colony
	id := *s.ColonyBidTrack[idx]
	s.ColonyBidTrack[idx] = nil
	s.grantColony(rec.Player, id)
	s.spendCubes(rec.Player, entity.CubeShip, entry.Ships)
}

func (s *GameState) applyTakeResearch(rec *TakeResearch) {
	entry := s.TechBidOrder[0]
	s.TechBidOrder = s.TechBidOrder[1:]
	if rec.Tech == nil {
		return
	}
	idx := *rec.Tech
	id := *s.TechBidTrack[idx]
	s.TechBidTrack[idx] = nil
	s.TechTeams[id] = rec.Player
	s.spendCubes(rec.Player, entity.CubeShip, entry.Ships)
}

func (s *GameState) applyInventTech(rec *InventTech) {
	// Validation in this group already rejected an absent technology.
	tech, ok := s.data.Tech(rec.Tech)
	if !ok {
		return
	}
	for _, c := range tech.Cost {
		if c.Type == rec.Cost {
			s.spendCubes(rec.Player, c.Type, c.Qty)
			break
		}
	}
	delete(s.TechTeams, rec.Tech)
	s.Invented[rec.Tech] = rec.Player
	s.InventedAt[rec.Tech] = s.Confluence
	for i := 0; i < tech.InventReward; i++ {
		s.mintCube(rec.Player, entity.CubeVictoryPoint, nil)
	}
	if tech.Invents != "" {
		s.grantPrototype(rec.Player, rec.Tech)
	}
	// Acknowledgements held by the inventor return to the Faderan.
	if s.Faderan.Acknowledgements[rec.Player] > 0 {
		if fp, ok := s.playerWithFaction(entity.FaderanCore, entity.FaderanAlt); ok && fp != rec.Player {
			s.Faderan.Acknowledgements[rec.Player]--
			s.Faderan.Acknowledgements[fp]++
		}
	}
}

func (s *GameState) applyLicense(rec *License) {
	s.grantPrototype(rec.Player, rec.Tech)
	s.Yengii.Licenses[rec.Player] = append(s.Yengii.Licenses[rec.Player], rec.Tech)
}

// playerWithFaction finds the player controlling any of the given
// factions.
func (s *GameState) playerWithFaction(factions ...entity.FactionType) (entity.PlayerID, bool) {
	for _, p := range s.Players() {
		for _, f := range factions {
			if s.Factions[p] == f {
				return p, true
			}
		}
	}
	return 0, false
}

// mintCube creates a cube owned by the player, consuming the next cube
// identifier.
func (s *GameState) mintCube(p entity.PlayerID, t entity.CubeType, donation *entity.PlayerID) entity.CubeID {
	id := s.NextCubeID
	s.NextCubeID++
	s.Cubes[p][id] = entity.Cube{Type: t, Donation: donation}
	return id
}

// grantColony instantiates a colony definition for a player.
func (s *GameState) grantColony(p entity.PlayerID, id entity.ColonyID) {
	def, ok := s.data.Colony(id)
	if !ok {
		return
	}
	c := def
	s.Colonies[p][id] = &c
}

// grantPrototype instantiates a converter prototype for a player.
func (s *GameState) grantPrototype(p entity.PlayerID, id entity.TechID) {
	proto, ok := s.data.Prototype(id)
	if !ok {
		return
	}
	cp := proto
	s.grantConverter(p, &cp)
}

// grantConverter puts a converter into play owned by the player,
// consuming the next converter identifier. New converters start marked
// to run.
func (s *GameState) grantConverter(p entity.PlayerID, conv entity.Convertible) entity.ConverterID {
	id := s.NextConverterID
	s.NextConverterID++
	s.Converters[id] = &OwnedConverter{ID: id, Owner: p, Marked: true, Conv: conv}
	return id
}

// grantToken routes a produced token into the sub-record that owns its
// bookkeeping, honoring the global quantity caps.
func (s *GameState) grantToken(p entity.PlayerID, tok entity.Token) {
	limit, capped := tok.QuantityLimit()
	switch tok.Kind {
	case entity.TokenEnvoy:
		if !capped || sumCounts(s.Zeth.Envoys) < limit {
			s.Zeth.Envoys[p]++
		}
	case entity.TokenService:
		if !capped || sumCounts(s.EniEt.Service) < limit {
			s.EniEt.Service[p]++
		}
	case entity.TokenAcknowledgement:
		s.Faderan.Acknowledgements[p]++
	case entity.TokenFactory:
		if !capped || s.factoryCount(tok.Factory) < limit {
			s.Imdril.Factories[p] = append(s.Imdril.Factories[p], tok.Factory)
		}
	default:
		s.Tokens[p] = append(s.Tokens[p], tok)
	}
}

func sumCounts(m map[entity.PlayerID]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

func (s *GameState) factoryCount(color entity.CubeType) int {
	total := 0
	for _, fs := range s.Imdril.Factories {
		for _, f := range fs {
			if f == color {
				total++
			}
		}
	}
	return total
}

func (s *GameState) runConverter(oc *OwnedConverter) bool {
	return s.runConvertible(oc.Owner, oc.Conv)
}

// runConvertible consumes a convertible's inputs from its owner and
// produces its outputs. The whole input list is planned against a
// scratch copy first; if any input cannot be paid, nothing is consumed
// and the converter does not run.
func (s *GameState) runConvertible(owner entity.PlayerID, conv entity.Convertible) bool {
	scratch := make(map[entity.CubeID]entity.Cube, len(s.Cubes[owner]))
	for id, c := range s.Cubes[owner] {
		scratch[id] = c
	}
	var cubesOwed []entity.CubeID
	var coloniesOwed []entity.ColonyID
	for _, it := range conv.Input() {
		switch it.Kind {
		case entity.ItemCubes, entity.ItemDonationCubes:
			ids, ok := pickCubes(scratch, it.Cube, it.Qty)
			if !ok {
				return false
			}
			for _, id := range ids {
				delete(scratch, id)
			}
			cubesOwed = append(cubesOwed, ids...)
		case entity.ItemColony:
			id, ok := s.pickColony(owner, coloniesOwed, it.Biome)
			if !ok {
				return false
			}
			coloniesOwed = append(coloniesOwed, id)
		case entity.ItemSpecificColony:
			if _, ok := s.Colonies[owner][it.Colony]; !ok {
				return false
			}
			coloniesOwed = append(coloniesOwed, it.Colony)
		default:
			return false
		}
	}
	for _, id := range cubesOwed {
		delete(s.Cubes[owner], id)
	}
	for _, id := range coloniesOwed {
		delete(s.Colonies[owner], id)
	}
	for _, it := range conv.Output() {
		s.produceItem(owner, it)
	}
	return true
}

// produceItem materializes one output (or starting-grant) item for a
// player.
func (s *GameState) produceItem(p entity.PlayerID, it entity.Item) {
	switch it.Kind {
	case entity.ItemCubes:
		t := concreteOutput(it.Cube)
		for i := 0; i < it.Qty; i++ {
			s.mintCube(p, t, nil)
		}
	case entity.ItemDonationCubes:
		t := concreteOutput(it.Cube)
		origin := p
		for i := 0; i < it.Qty; i++ {
			s.mintCube(p, t, &origin)
		}
	case entity.ItemColony:
		id, ok := s.ColonyDeck.DrawWhere(func(cid entity.ColonyID) bool {
			def, ok := s.data.Colony(cid)
			return ok && it.Biome.Matches(def.Type)
		})
		if ok {
			s.grantColony(p, id)
		}
	case entity.ItemSpecificColony:
		s.ColonyDeck.DrawWhere(func(cid entity.ColonyID) bool { return cid == it.Colony })
		s.grantColony(p, it.Colony)
	case entity.ItemToken:
		s.grantToken(p, it.Token)
	}
}

// concreteOutput maps a wild output type to the concrete cube that is
// minted for it.
// TODO: wild outputs should offer the owner a choice; that needs an
// output-choice record that does not exist in the vocabulary yet.
func concreteOutput(t entity.CubeType) entity.CubeType {
	switch t {
	case entity.CubeAnySmall, entity.CubeAnySmallNonUnity:
		return entity.CubeFood
	case entity.CubeAnyLarge, entity.CubeAnyLargeNonUnity:
		return entity.CubePower
	}
	return t
}

// spendCubes removes qty cubes satisfying the type from the player,
// exact type first, wild-satisfying cubes after. Reports whether the
// full quantity was paid; on failure nothing is removed.
func (s *GameState) spendCubes(p entity.PlayerID, t entity.CubeType, qty int) bool {
	ids, ok := pickCubes(s.Cubes[p], t, qty)
	if !ok {
		return false
	}
	for _, id := range ids {
		delete(s.Cubes[p], id)
	}
	return true
}

// pickCubes selects qty cube identifiers satisfying an input slot of
// the given type, preferring exact type matches over wild cubes, in
// ascending identifier order for determinism.
func pickCubes(cubes map[entity.CubeID]entity.Cube, t entity.CubeType, qty int) ([]entity.CubeID, bool) {
	var exact, wild []entity.CubeID
	for id, c := range cubes {
		switch {
		case c.Type == t:
			exact = append(exact, id)
		case t.Matches(c.Type):
			wild = append(wild, id)
		}
	}
	sort.Slice(exact, func(i, j int) bool { return exact[i] < exact[j] })
	sort.Slice(wild, func(i, j int) bool { return wild[i] < wild[j] })
	picked := append(exact, wild...)
	if len(picked) < qty {
		return nil, false
	}
	return picked[:qty], true
}

// pickColony selects an owned colony of the given biome that is not
// already spoken for, lowest identifier first.
func (s *GameState) pickColony(p entity.PlayerID, taken []entity.ColonyID, biome entity.ColonyType) (entity.ColonyID, bool) {
	ids := s.PlayerColonies(p)
	for _, id := range ids {
		used := false
		for _, t := range taken {
			if t == id {
				used = true
				break
			}
		}
		if used {
			continue
		}
		if c := s.Colonies[p][id]; c != nil && biome.Matches(c.Type) {
			return id, true
		}
	}
	return 0, false
}
