package state

import (
	"sort"

	"github.com/cubatrice/engine/internal/data"
	"github.com/cubatrice/engine/internal/entity"
)

// OwnedConverter is a converter instance in play: the runnable
// definition plus ownership bookkeeping. Marked converters run when
// their phase comes up; a loaned converter remembers its original
// owner so the loan can be recovered.
type OwnedConverter struct {
	ID         entity.ConverterID
	Owner      entity.PlayerID
	LoanOrigin *entity.PlayerID
	Untradable bool
	Marked     bool
	Conv       entity.Convertible
}

// PlayerBid is one player's pending bid for the current bidding round.
// Colony and tech ships are committed at the same time; the split
// halves are only present for the factions allowed to split.
type PlayerBid struct {
	Colony      int
	ColonySplit *int
	Tech        int
	TechSplit   *int
}

// BidEntry is one slot in a resolved bid order: the player and the
// ships committed to that slot. Split bids produce two entries for the
// same player.
type BidEntry struct {
	Player entity.PlayerID
	Ships  int
}

// FaderanState groups the Faderan-specific auxiliary state: their
// relic world deck and the acknowledgement tokens they hand out.
type FaderanState struct {
	RelicDeck        Deck[entity.RelicWorld]
	Acknowledgements map[entity.PlayerID]int
}

// YengiiState tracks which players hold a license for which Yengii
// technologies.
type YengiiState struct {
	Licenses map[entity.PlayerID][]entity.TechID
}

// ZethState tracks envoy holdings and which players traded with the
// Zeth this confluence, protecting them from the steal phase.
type ZethState struct {
	Envoys    map[entity.PlayerID]int
	Protected map[entity.PlayerID]bool
}

// ImdrilState tracks factory token placements.
type ImdrilState struct {
	Factories map[entity.PlayerID][]entity.CubeType
}

// EniEtState tracks service token holdings.
type EniEtState struct {
	Service map[entity.PlayerID]int
}

// UnityState tracks which converters already ran early this confluence
// through retrocontinuity.
type UnityState struct {
	Retro map[entity.ConverterID]bool
}

// GameState is the authoritative state of one game. It is modified
// exclusively by applying record groups; Apply never mutates its
// receiver, so any held *GameState is a stable snapshot safe for
// concurrent reads.
type GameState struct {
	Phase            Phase
	Confluence       int
	TotalConfluences int

	// Identifier counters are part of the state so generation is
	// deterministic and replayable.
	NextCubeID      entity.CubeID
	NextConverterID entity.ConverterID

	Factions   map[entity.PlayerID]entity.FactionType
	Cubes      map[entity.PlayerID]map[entity.CubeID]entity.Cube
	Colonies   map[entity.PlayerID]map[entity.ColonyID]*entity.Colony
	Converters map[entity.ConverterID]*OwnedConverter

	// TechTeams maps a technology to the player holding its research
	// team; the entry is removed when the technology is invented.
	TechTeams map[entity.TechID]entity.PlayerID
	// Invented maps a technology to its inventor; InventedAt records
	// the confluence it was invented in, driving next-confluence
	// sharing. Shared marks technologies already distributed.
	Invented   map[entity.TechID]entity.PlayerID
	InventedAt map[entity.TechID]int
	Shared     map[entity.TechID]bool

	Bids           map[entity.PlayerID]*PlayerBid
	ColonyBidTrack []*entity.ColonyID
	TechBidTrack   []*entity.TechID
	ColonyBidOrder []BidEntry
	TechBidOrder   []BidEntry

	TechDeck   Deck[entity.TechID]
	ColonyDeck Deck[entity.ColonyID]

	// Tokens holds markers with no dedicated faction sub-record.
	Tokens map[entity.PlayerID][]entity.Token

	Faderan FaderanState
	Yengii  YengiiState
	Zeth    ZethState
	Imdril  ImdrilState
	EniEt   EniEtState
	Unity   UnityState

	// Applied lists the identifiers of record groups applied so far,
	// in order.
	Applied []entity.RecordID

	data *data.Store
}

// New creates a game state in the Init phase backed by the loaded
// reference data. The technology deck is built in tier order and the
// colony deck from the base colony definitions; shuffle the decks
// before the first confluence if randomized play is wanted.
func New(store *data.Store, totalConfluences int) *GameState {
	s := &GameState{
		Phase:            PhaseInit,
		TotalConfluences: totalConfluences,
		NextCubeID:       1,
		NextConverterID:  1,
		Factions:         make(map[entity.PlayerID]entity.FactionType),
		Cubes:            make(map[entity.PlayerID]map[entity.CubeID]entity.Cube),
		Colonies:         make(map[entity.PlayerID]map[entity.ColonyID]*entity.Colony),
		Converters:       make(map[entity.ConverterID]*OwnedConverter),
		TechTeams:        make(map[entity.TechID]entity.PlayerID),
		Invented:         make(map[entity.TechID]entity.PlayerID),
		InventedAt:       make(map[entity.TechID]int),
		Shared:           make(map[entity.TechID]bool),
		Bids:             make(map[entity.PlayerID]*PlayerBid),
		Tokens:           make(map[entity.PlayerID][]entity.Token),
		Faderan:          FaderanState{Acknowledgements: make(map[entity.PlayerID]int)},
		Yengii:           YengiiState{Licenses: make(map[entity.PlayerID][]entity.TechID)},
		Zeth:             ZethState{Envoys: make(map[entity.PlayerID]int), Protected: make(map[entity.PlayerID]bool)},
		Imdril:           ImdrilState{Factories: make(map[entity.PlayerID][]entity.CubeType)},
		EniEt:            EniEtState{Service: make(map[entity.PlayerID]int)},
		Unity:            UnityState{Retro: make(map[entity.ConverterID]bool)},
		data:             store,
	}
	if store != nil {
		for _, t := range store.Technologies() {
			if t.ID < entity.UpgradedIDOffset {
				s.TechDeck.AddBottom(t.ID)
			}
		}
		for _, c := range store.Colonies() {
			if c.ID < entity.UpgradedIDOffset {
				s.ColonyDeck.AddBottom(c.ID)
			}
		}
	}
	return s
}

// Data returns the reference data store backing the game.
func (s *GameState) Data() *data.Store { return s.data }

// FinalConfluence reports whether the current confluence is the last,
// which decides the branch out of the Economy phase.
func (s *GameState) FinalConfluence() bool {
	return s.Confluence >= s.TotalConfluences
}

// LastApplied returns the identifier of the most recently applied
// record group.
func (s *GameState) LastApplied() (entity.RecordID, bool) {
	if len(s.Applied) == 0 {
		return 0, false
	}
	return s.Applied[len(s.Applied)-1], true
}

// Players returns the player identifiers in ascending order.
func (s *GameState) Players() []entity.PlayerID {
	out := make([]entity.PlayerID, 0, len(s.Factions))
	for p := range s.Factions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PlayerFaction returns the faction a player controls.
func (s *GameState) PlayerFaction(p entity.PlayerID) (entity.FactionType, bool) {
	f, ok := s.Factions[p]
	return f, ok
}

// PlayerCubes aggregates a player's cube holdings. The record is
// always derived from ownership, never stored.
func (s *GameState) PlayerCubes(p entity.PlayerID) entity.CubeRecord {
	var r entity.CubeRecord
	for _, c := range s.Cubes[p] {
		r.AddType(c.Type, 1)
	}
	return r
}

// PlayerColonies returns the identifiers of a player's colonies in
// ascending order.
func (s *GameState) PlayerColonies(p entity.PlayerID) []entity.ColonyID {
	out := make([]entity.ColonyID, 0, len(s.Colonies[p]))
	for id := range s.Colonies[p] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PlayerConverters returns the identifiers of the converters a player
// currently controls, in ascending order.
func (s *GameState) PlayerConverters(p entity.PlayerID) []entity.ConverterID {
	var out []entity.ConverterID
	for id, oc := range s.Converters {
		if oc.Owner == p {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// converterIDs returns every converter identifier in ascending order,
// the order converters run in.
func (s *GameState) converterIDs() []entity.ConverterID {
	out := make([]entity.ConverterID, 0, len(s.Converters))
	for id := range s.Converters {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns a deep copy of the state sharing only the immutable
// reference data store. Convertible definitions are copied shallowly:
// upgrades replace the whole definition and never mutate the item
// slices, so sharing them is safe.
func (s *GameState) Clone() *GameState {
	n := &GameState{
		Phase:            s.Phase,
		Confluence:       s.Confluence,
		TotalConfluences: s.TotalConfluences,
		NextCubeID:       s.NextCubeID,
		NextConverterID:  s.NextConverterID,
		Factions:         make(map[entity.PlayerID]entity.FactionType, len(s.Factions)),
		Cubes:            make(map[entity.PlayerID]map[entity.CubeID]entity.Cube, len(s.Cubes)),
		Colonies:         make(map[entity.PlayerID]map[entity.ColonyID]*entity.Colony, len(s.Colonies)),
		Converters:       make(map[entity.ConverterID]*OwnedConverter, len(s.Converters)),
		TechTeams:        make(map[entity.TechID]entity.PlayerID, len(s.TechTeams)),
		Invented:         make(map[entity.TechID]entity.PlayerID, len(s.Invented)),
		InventedAt:       make(map[entity.TechID]int, len(s.InventedAt)),
		Shared:           make(map[entity.TechID]bool, len(s.Shared)),
		Bids:             make(map[entity.PlayerID]*PlayerBid, len(s.Bids)),
		ColonyBidTrack:   append([]*entity.ColonyID(nil), s.ColonyBidTrack...),
		TechBidTrack:     append([]*entity.TechID(nil), s.TechBidTrack...),
		ColonyBidOrder:   append([]BidEntry(nil), s.ColonyBidOrder...),
		TechBidOrder:     append([]BidEntry(nil), s.TechBidOrder...),
		TechDeck:         s.TechDeck.Clone(),
		ColonyDeck:       s.ColonyDeck.Clone(),
		Tokens:           make(map[entity.PlayerID][]entity.Token, len(s.Tokens)),
		Faderan: FaderanState{
			RelicDeck:        s.Faderan.RelicDeck.Clone(),
			Acknowledgements: cloneMap(s.Faderan.Acknowledgements),
		},
		Yengii: YengiiState{Licenses: make(map[entity.PlayerID][]entity.TechID, len(s.Yengii.Licenses))},
		Zeth: ZethState{
			Envoys:    cloneMap(s.Zeth.Envoys),
			Protected: cloneMap(s.Zeth.Protected),
		},
		Imdril:  ImdrilState{Factories: make(map[entity.PlayerID][]entity.CubeType, len(s.Imdril.Factories))},
		EniEt:   EniEtState{Service: cloneMap(s.EniEt.Service)},
		Unity:   UnityState{Retro: cloneMap(s.Unity.Retro)},
		Applied: append([]entity.RecordID(nil), s.Applied...),
		data:    s.data,
	}
	for p, f := range s.Factions {
		n.Factions[p] = f
	}
	for p, cubes := range s.Cubes {
		m := make(map[entity.CubeID]entity.Cube, len(cubes))
		for id, c := range cubes {
			m[id] = c
		}
		n.Cubes[p] = m
	}
	for p, cols := range s.Colonies {
		m := make(map[entity.ColonyID]*entity.Colony, len(cols))
		for id, c := range cols {
			cp := *c
			m[id] = &cp
		}
		n.Colonies[p] = m
	}
	for id, oc := range s.Converters {
		cp := *oc
		if oc.LoanOrigin != nil {
			origin := *oc.LoanOrigin
			cp.LoanOrigin = &origin
		}
		cp.Conv = cloneConvertible(oc.Conv)
		n.Converters[id] = &cp
	}
	for t, p := range s.TechTeams {
		n.TechTeams[t] = p
	}
	for t, p := range s.Invented {
		n.Invented[t] = p
	}
	for t, c := range s.InventedAt {
		n.InventedAt[t] = c
	}
	for t, v := range s.Shared {
		n.Shared[t] = v
	}
	for p, b := range s.Bids {
		bp := *b
		if b.ColonySplit != nil {
			v := *b.ColonySplit
			bp.ColonySplit = &v
		}
		if b.TechSplit != nil {
			v := *b.TechSplit
			bp.TechSplit = &v
		}
		n.Bids[p] = &bp
	}
	for p, toks := range s.Tokens {
		n.Tokens[p] = append([]entity.Token(nil), toks...)
	}
	for p, ts := range s.Yengii.Licenses {
		n.Yengii.Licenses[p] = append([]entity.TechID(nil), ts...)
	}
	for p, fs := range s.Imdril.Factories {
		n.Imdril.Factories[p] = append([]entity.CubeType(nil), fs...)
	}
	return n
}

func cloneMap[K comparable, V int | bool](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// cloneConvertible deep-copies a converter definition over the closed
// set of Convertible implementations.
func cloneConvertible(c entity.Convertible) entity.Convertible {
	switch v := c.(type) {
	case *entity.Colony:
		cp := *v
		return &cp
	case *entity.ConverterPrototype:
		cp := *v
		return &cp
	case *entity.PairedConverter:
		return entity.NewPairedConverter(v.Left, v.Right)
	case entity.RelicWorld:
		return v
	}
	return c
}
