package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubatrice/engine/internal/data"
	"github.com/cubatrice/engine/internal/entity"
)

// testStore builds a small in-memory reference data set: three base
// colonies (one upgradable), one inventable technology, and starting
// grants and converters for the factions the tests use.
func testStore() *data.Store {
	s := data.NewStore()

	s.InsertColony(entity.Colony{
		Name: "Redworld", ID: 1, Type: entity.BiomeDesert,
		Converter: entity.Converter{Arrow: entity.ArrowWhite, Outputs: []entity.Item{entity.CubesItem(entity.CubeFood, 1)}},
		UpCost:    []entity.Item{entity.CubesItem(entity.CubePower, 1)},
	})
	s.InsertColony(entity.Colony{
		Name: "Redworld (upgraded)", ID: 101, Type: entity.BiomeDesert,
		Converter: entity.Converter{Arrow: entity.ArrowWhite, Outputs: []entity.Item{entity.CubesItem(entity.CubeFood, 2)}},
	})
	s.InsertColony(entity.Colony{
		Name: "Iceworld", ID: 2, Type: entity.BiomeIce,
		Converter: entity.Converter{Arrow: entity.ArrowWhite, Outputs: []entity.Item{entity.CubesItem(entity.CubePower, 1)}},
	})
	s.InsertColony(entity.Colony{
		Name: "Greenworld", ID: 3, Type: entity.BiomeJungle,
		Converter: entity.Converter{Arrow: entity.ArrowWhite, Outputs: []entity.Item{entity.CubesItem(entity.CubeBiotech, 1)}},
	})

	s.InsertTech(entity.Technology{
		ID: 1, Name: "Genetic Engineering", Invents: "Clinic", Tier: 1, InventReward: 1,
		Cost: []entity.TechCost{{Type: entity.CubeFood, Qty: 2}, {Type: entity.CubeBiotech, Qty: 1}},
	})
	s.InsertPrototype(entity.ConverterPrototype{
		ID: 1, Name: "Clinic",
		Converter: entity.Converter{
			Arrow:   entity.ArrowWhite,
			Inputs:  []entity.Item{entity.CubesItem(entity.CubeFood, 1)},
			Outputs: []entity.Item{entity.CubesItem(entity.CubeBiotech, 1)},
		},
	})
	s.InsertPrototype(entity.ConverterPrototype{
		ID: 101, Name: "Clinic (upgraded)",
		Converter: entity.Converter{
			Arrow:   entity.ArrowWhite,
			Inputs:  []entity.Item{entity.CubesItem(entity.CubeFood, 1)},
			Outputs: []entity.Item{entity.CubesItem(entity.CubeBiotech, 2)},
		},
	})

	s.InsertStartingResources(entity.CaylionCore, []entity.Item{
		entity.CubesItem(entity.CubeFood, 3),
		entity.CubesItem(entity.CubeShip, 2),
	})
	s.InsertStartingResources(entity.EniEtCore, []entity.Item{
		entity.CubesItem(entity.CubeShip, 2),
	})
	s.InsertStartingResources(entity.KitCore, []entity.Item{
		entity.CubesItem(entity.CubeShip, 1),
	})
	s.InsertStartingResources(entity.ZethCore, []entity.Item{
		entity.CubesItem(entity.CubeFood, 1),
	})
	s.InsertStartingResources(entity.YengiiCore, []entity.Item{
		entity.CubesItem(entity.CubeFood, 2),
	})

	s.InsertFactionConverters("Kit", []entity.ConverterPrototype{
		{ID: 30, Name: "Spiral Arm", Converter: entity.Converter{
			Arrow: entity.ArrowWhite, Outputs: []entity.Item{entity.CubesItem(entity.CubeCulture, 1)},
		}},
		{ID: 31, Name: "Crossed Arm", Converter: entity.Converter{
			Arrow: entity.ArrowWhite, Outputs: []entity.Item{entity.CubesItem(entity.CubeBiotech, 1)},
		}},
	})
	s.InsertFactionConverters("Cayleon", []entity.ConverterPrototype{
		{ID: 40, Name: "Hydroponics", Converter: entity.Converter{
			Arrow:   entity.ArrowWhite,
			Inputs:  []entity.Item{entity.CubesItem(entity.CubeFood, 1)},
			Outputs: []entity.Item{entity.CubesItem(entity.CubePower, 1)},
		}},
	})
	s.InsertFactionConverters("Unity", []entity.ConverterPrototype{
		{ID: 50, Name: "Matter Mirror", Converter: entity.Converter{
			Arrow:   entity.ArrowWhite,
			Inputs:  []entity.Item{entity.CubesItem(entity.CubeFood, 1)},
			Outputs: []entity.Item{entity.CubesItem(entity.CubeUltratech, 1)},
		}},
	})
	return s
}

func newGame() *GameState {
	return New(testStore(), 3)
}

// addPlayer creates a player without going through record validation,
// for tests that start mid-game.
func addPlayer(s *GameState, p entity.PlayerID, f entity.FactionType) {
	s.applyCreatePlayer(&CreatePlayer{Player: p, Faction: f})
}

func giveCubes(s *GameState, p entity.PlayerID, t entity.CubeType, n int) []entity.CubeID {
	ids := make([]entity.CubeID, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, s.mintCube(p, t, nil))
	}
	return ids
}

func mustApply(t *testing.T, s *GameState, id entity.RecordID, recs ...Record) *GameState {
	t.Helper()
	next, err := s.Apply(NewGroup(id, recs...))
	require.NoError(t, err)
	return next
}

func intp(v int) *int { return &v }

func TestNewBuildsDecks(t *testing.T) {
	s := newGame()
	assert.Equal(t, PhaseInit, s.Phase)
	// Base definitions only; upgraded variants never enter the decks.
	assert.Equal(t, []entity.ColonyID{1, 2, 3}, s.ColonyDeck.Cards())
	assert.Equal(t, []entity.TechID{1}, s.TechDeck.Cards())
}

func TestPlayerCubesAlwaysDerived(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.EniEtCore)
	giveCubes(s, 0, entity.CubeFood, 2)
	giveCubes(s, 0, entity.CubePower, 1)

	r := s.PlayerCubes(0)
	assert.Equal(t, 2, r.CountType(entity.CubeFood))
	assert.Equal(t, 1, r.CountType(entity.CubePower))
	assert.Equal(t, 2, r.Ships, "starting grant ships")

	// Removing a cube from ownership is immediately reflected.
	for id, c := range s.Cubes[0] {
		if c.Type == entity.CubePower {
			delete(s.Cubes[0], id)
			break
		}
	}
	assert.Equal(t, 0, s.PlayerCubes(0).CountType(entity.CubePower))
}

func TestCloneIndependence(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.CaylionCore)
	addPlayer(s, 1, entity.EniEtCore)
	before := s.PlayerCubes(0)

	c := s.Clone()
	giveCubes(c, 0, entity.CubeUltratech, 4)
	c.Phase = PhaseTrade
	c.Bids[1] = &PlayerBid{Colony: 1}
	for _, id := range c.PlayerConverters(0) {
		c.Converters[id].Owner = 1
	}

	assert.Equal(t, before, s.PlayerCubes(0))
	assert.Equal(t, PhaseInit, s.Phase)
	assert.Empty(t, s.Bids)
	for _, id := range s.PlayerConverters(0) {
		assert.Equal(t, entity.PlayerID(0), s.Converters[id].Owner)
	}
}
