// Package data loads and serves the immutable reference data: colony
// and technology definitions, converter prototypes, and faction
// starting grants. The store is populated once before any record is
// applied and never mutated afterwards; a missing identifier after a
// successful load is a defect in the data files, not a runtime
// condition.
package data

import (
	"fmt"
	"sort"

	"github.com/cubatrice/engine/internal/entity"
)

// Store is the read-only lookup for game reference data.
type Store struct {
	colonies       map[entity.ColonyID]entity.Colony
	techs          map[entity.TechID]entity.Technology
	prototypes     map[entity.TechID]entity.ConverterPrototype
	factionConvs   map[string][]entity.ConverterPrototype
	startResources map[entity.FactionType][]entity.Item
}

// NewStore creates an empty store. Loading (or tests) populate it with
// the Insert helpers before it is handed to the engine.
func NewStore() *Store {
	return &Store{
		colonies:       make(map[entity.ColonyID]entity.Colony),
		techs:          make(map[entity.TechID]entity.Technology),
		prototypes:     make(map[entity.TechID]entity.ConverterPrototype),
		factionConvs:   make(map[string][]entity.ConverterPrototype),
		startResources: make(map[entity.FactionType][]entity.Item),
	}
}

// InsertColony adds a colony definition.
func (s *Store) InsertColony(c entity.Colony) {
	s.colonies[c.ID] = c
}

// InsertTech adds a technology definition.
func (s *Store) InsertTech(t entity.Technology) {
	s.techs[t.ID] = t
}

// InsertPrototype adds a converter prototype.
func (s *Store) InsertPrototype(p entity.ConverterPrototype) {
	s.prototypes[p.ID] = p
}

// InsertFactionConverters sets the starting converters for a faction
// short name.
func (s *Store) InsertFactionConverters(short string, convs []entity.ConverterPrototype) {
	s.factionConvs[short] = convs
}

// InsertStartingResources sets the starting item grants for a faction.
func (s *Store) InsertStartingResources(f entity.FactionType, items []entity.Item) {
	s.startResources[f] = items
}

// Colony looks up a colony definition by identifier.
func (s *Store) Colony(id entity.ColonyID) (entity.Colony, bool) {
	c, ok := s.colonies[id]
	return c, ok
}

// Tech looks up a technology by identifier.
func (s *Store) Tech(id entity.TechID) (entity.Technology, bool) {
	t, ok := s.techs[id]
	return t, ok
}

// Prototype looks up a converter prototype by identifier.
func (s *Store) Prototype(id entity.TechID) (entity.ConverterPrototype, bool) {
	p, ok := s.prototypes[id]
	return p, ok
}

// FactionConverters returns the starting converter prototypes for a
// faction.
func (s *Store) FactionConverters(f entity.FactionType) []entity.ConverterPrototype {
	return s.factionConvs[f.ShortName()]
}

// StartingResources returns the starting item grants for a faction.
func (s *Store) StartingResources(f entity.FactionType) ([]entity.Item, bool) {
	items, ok := s.startResources[f]
	return items, ok
}

// Technologies returns all technologies ordered by tier then id, the
// order in which the tech deck is built.
func (s *Store) Technologies() []entity.Technology {
	out := make([]entity.Technology, 0, len(s.techs))
	for _, t := range s.techs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tier != out[j].Tier {
			return out[i].Tier < out[j].Tier
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Prototypes returns all converter prototypes ordered by id.
func (s *Store) Prototypes() []entity.ConverterPrototype {
	out := make([]entity.ConverterPrototype, 0, len(s.prototypes))
	for _, p := range s.prototypes {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Colonies returns all colony definitions ordered by id.
func (s *Store) Colonies() []entity.Colony {
	out := make([]entity.Colony, 0, len(s.colonies))
	for _, c := range s.colonies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Verify checks cross references the loaders cannot check file by
// file: every colony or prototype with an upgrade must have its
// upgraded variant present. Called at the end of LoadAll so a
// mid-game lookup can never miss.
func (s *Store) Verify() error {
	for id, c := range s.colonies {
		if len(c.UpCost) > 0 && id < entity.UpgradedIDOffset {
			if _, ok := s.colonies[id+entity.UpgradedIDOffset]; !ok {
				return fmt.Errorf("data: colony %d has an upgrade cost but no upgraded variant %d",
					id, id+entity.UpgradedIDOffset)
			}
		}
	}
	for id := range s.prototypes {
		if id > 21 || id >= entity.UpgradedIDOffset {
			continue
		}
		if _, ok := s.prototypes[id+entity.UpgradedIDOffset]; !ok {
			return fmt.Errorf("data: prototype %d has upgrade pairings but no upgraded variant %d",
				id, id+entity.UpgradedIDOffset)
		}
	}
	return nil
}
