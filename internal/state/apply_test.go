package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubatrice/engine/internal/entity"
)

func TestApplyNeverMutatesReceiver(t *testing.T) {
	s := newGame()
	next := mustApply(t, s, 1, CreatePlayerRecord(0, entity.CaylionCore))

	assert.Empty(t, s.Factions, "receiver untouched")
	assert.Empty(t, s.Applied)
	assert.Len(t, next.Factions, 1)
	assert.Equal(t, []entity.RecordID{1}, next.Applied)

	id, ok := next.LastApplied()
	require.True(t, ok)
	assert.Equal(t, entity.RecordID(1), id)
}

func TestApplyGroupIsAtomic(t *testing.T) {
	s := newGame()
	s = mustApply(t, s, 1, CreatePlayerRecord(0, entity.CaylionCore))

	// The second record in the group is illegal; the first must not
	// take hold either.
	_, err := s.Apply(NewGroup(2,
		CreatePlayerRecord(1, entity.EniEtCore),
		CreatePlayerRecord(2, entity.CaylionAlt),
	))
	require.ErrorIs(t, err, ErrFactionTaken)
	assert.Len(t, s.Factions, 1)
	assert.Equal(t, []entity.RecordID{1}, s.Applied)
}

func TestApplyValidatesAgainstEvolvingState(t *testing.T) {
	s := newGame()
	// Within one group, the second record sees the first's effects.
	next, err := s.Apply(NewGroup(1,
		CreatePlayerRecord(0, entity.CaylionCore),
		CreatePlayerRecord(1, entity.EniEtCore),
	))
	require.NoError(t, err)
	assert.Len(t, next.Factions, 2)

	_, err = s.Apply(NewGroup(2,
		CreatePlayerRecord(0, entity.CaylionCore),
		CreatePlayerRecord(1, entity.CaylionCore),
	))
	assert.ErrorIs(t, err, ErrFactionTaken)
}

func TestCreatePlayerGrants(t *testing.T) {
	s := newGame()
	s = mustApply(t, s, 1, CreatePlayerRecord(0, entity.CaylionCore))

	r := s.PlayerCubes(0)
	assert.Equal(t, 3, r.Food)
	assert.Equal(t, 2, r.Ships)

	convs := s.PlayerConverters(0)
	require.Len(t, convs, 1)
	proto, ok := s.Converters[convs[0]].Conv.(*entity.ConverterPrototype)
	require.True(t, ok)
	assert.Equal(t, "Hydroponics", proto.Name)
}

func TestCreatePlayerPairsKitConverters(t *testing.T) {
	s := newGame()
	s = mustApply(t, s, 1, CreatePlayerRecord(0, entity.KitCore))

	convs := s.PlayerConverters(0)
	require.Len(t, convs, 1, "two prototypes pair onto one card")
	paired, ok := s.Converters[convs[0]].Conv.(*entity.PairedConverter)
	require.True(t, ok)
	assert.Len(t, paired.Output(), 2)
}

func TestCreatePlayerSeedsFaderanRelicDeck(t *testing.T) {
	s := newGame()
	s = mustApply(t, s, 1, CreatePlayerRecord(0, entity.FaderanCore))
	assert.Equal(t, 12, s.Faderan.RelicDeck.Len())
}

func TestTradeCubesMovesOwnershipAndDischargesDonations(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.CaylionCore)
	addPlayer(s, 1, entity.EniEtCore)
	origin := entity.PlayerID(0)
	donated := s.mintCube(0, entity.CubeFood, &origin)
	back := giveCubes(s, 1, entity.CubePower, 1)

	next := mustApply(t, s, 1, TradeCubesRecord(0, 1, []entity.CubeID{donated}, back))

	c, ok := next.Cubes[1][donated]
	require.True(t, ok)
	assert.Nil(t, c.Donation, "donation obligation discharged by its origin trading it away")
	_, ok = next.Cubes[0][back[0]]
	assert.True(t, ok)
	_, ok = next.Cubes[0][donated]
	assert.False(t, ok)
}

func TestTradeCubesProtectsZethPartners(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.ZethCore)
	addPlayer(s, 1, entity.EniEtCore)
	ids := giveCubes(s, 0, entity.CubeFood, 1)

	next := mustApply(t, s, 1, TradeCubesRecord(0, 1, ids, nil))
	assert.True(t, next.Zeth.Protected[1])
	assert.False(t, next.Zeth.Protected[0])
}

func TestTradeConverterLoanAndPermanent(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.CaylionCore)
	addPlayer(s, 1, entity.EniEtCore)
	convs := s.PlayerConverters(0)
	require.NotEmpty(t, convs)
	id := convs[0]

	// A loan remembers the original owner.
	next := mustApply(t, s, 1, TradeConverterRecord(0, 1, []entity.ConverterID{id}, nil, false))
	oc := next.Converters[id]
	assert.Equal(t, entity.PlayerID(1), oc.Owner)
	require.NotNil(t, oc.LoanOrigin)
	assert.Equal(t, entity.PlayerID(0), *oc.LoanOrigin)

	// Loaning onward keeps the first origin.
	addPlayer(next, 2, entity.KjasCore)
	next2 := mustApply(t, next, 2, TradeConverterRecord(1, 2, []entity.ConverterID{id}, nil, false))
	require.NotNil(t, next2.Converters[id].LoanOrigin)
	assert.Equal(t, entity.PlayerID(0), *next2.Converters[id].LoanOrigin)

	// A permanent trade clears the loan.
	next3 := mustApply(t, next2, 3, TradeConverterRecord(2, 0, []entity.ConverterID{id}, nil, true))
	assert.Equal(t, entity.PlayerID(0), next3.Converters[id].Owner)
	assert.Nil(t, next3.Converters[id].LoanOrigin)
}

func TestEconomyRunsWhiteConverters(t *testing.T) {
	s := newGame()
	s = mustApply(t, s, 1, CreatePlayerRecord(0, entity.CaylionCore))
	s = mustApply(t, s, 2, ChangePhaseRecord(PhaseTrade))
	assert.Equal(t, 1, s.Confluence)

	s = mustApply(t, s, 3, ChangePhaseRecord(PhaseEconomy))
	r := s.PlayerCubes(0)
	assert.Equal(t, 2, r.Food, "hydroponics consumed one food")
	assert.Equal(t, 1, r.Power, "and produced one power")
}

func TestEconomySkipsUnpayableConverters(t *testing.T) {
	s := newGame()
	s = mustApply(t, s, 1, CreatePlayerRecord(0, entity.CaylionCore))
	s = mustApply(t, s, 2, ChangePhaseRecord(PhaseTrade))
	// Strip the food so the converter cannot pay.
	for id, c := range s.Cubes[0] {
		if c.Type == entity.CubeFood {
			delete(s.Cubes[0], id)
		}
	}

	s = mustApply(t, s, 3, ChangePhaseRecord(PhaseEconomy))
	r := s.PlayerCubes(0)
	assert.Equal(t, 0, r.Food)
	assert.Equal(t, 0, r.Power, "nothing consumed, nothing produced")
}

func TestEconomyRunsColonyConverters(t *testing.T) {
	s := newGame()
	s = mustApply(t, s, 1, CreatePlayerRecord(0, entity.EniEtCore))
	s = mustApply(t, s, 2, ChangePhaseRecord(PhaseTrade))
	// Redworld is a white no-input converter producing one food.
	s.grantColony(0, 1)

	s = mustApply(t, s, 3, ChangePhaseRecord(PhaseEconomy))
	assert.Equal(t, 1, s.PlayerCubes(0).Food, "colony converter ran")

	s = mustApply(t, s, 4,
		ChangePhaseRecord(PhaseColonyBid),
		ChangePhaseRecord(PhaseTechBid),
		ChangePhaseRecord(PhaseZethSteal),
		ChangePhaseRecord(PhaseTrade),
	)
	s = mustApply(t, s, 5, ChangePhaseRecord(PhaseEconomy))
	assert.Equal(t, 2, s.PlayerCubes(0).Food, "and runs every confluence")
}

func TestRetrocontinuityRunsDuringTrade(t *testing.T) {
	s := newGame()
	s = mustApply(t, s, 1, CreatePlayerRecord(0, entity.UnityAlt))
	giveCubes(s, 0, entity.CubeFood, 1)
	s = mustApply(t, s, 2, ChangePhaseRecord(PhaseTrade))
	convs := s.PlayerConverters(0)
	require.Len(t, convs, 1)

	s = mustApply(t, s, 3, RetrocontinuityRecord(convs[0]))
	r := s.PlayerCubes(0)
	assert.Equal(t, 0, r.Food)
	assert.Equal(t, 1, r.Ultratech, "ran during trade")

	// It does not run again during the economy phase.
	s = mustApply(t, s, 4, ChangePhaseRecord(PhaseEconomy))
	assert.Equal(t, 1, s.PlayerCubes(0).Ultratech)
}

func TestBidOrderResolution(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.KjasCore)
	addPlayer(s, 1, entity.EniEtCore)
	giveCubes(s, 0, entity.CubeShip, 6)
	giveCubes(s, 1, entity.CubeShip, 3)
	s.Phase = PhaseColonyBid

	split := Record{Kind: RecordBid, Bid: &Bid{Player: 0, ForColony: 2, ForColonyKjas: intp(2), ForTech: 1}}
	s = mustApply(t, s, 1, split)
	assert.Empty(t, s.ColonyBidOrder, "order resolves once everyone has bid")

	s = mustApply(t, s, 2, BidRecord(1, 2, 2))

	// Colony: 2-ship bids tie; Kjas (6) outranks Eni Et (3). The Kjas
	// split produces two slots.
	require.Len(t, s.ColonyBidOrder, 3)
	assert.Equal(t, BidEntry{Player: 0, Ships: 2}, s.ColonyBidOrder[0])
	assert.Equal(t, BidEntry{Player: 0, Ships: 2}, s.ColonyBidOrder[1])
	assert.Equal(t, BidEntry{Player: 1, Ships: 2}, s.ColonyBidOrder[2])

	// Tech: Eni Et's two ships beat the Kjas single.
	require.Len(t, s.TechBidOrder, 2)
	assert.Equal(t, BidEntry{Player: 1, Ships: 2}, s.TechBidOrder[0])
	assert.Equal(t, BidEntry{Player: 0, Ships: 1}, s.TechBidOrder[1])
}

func TestTakeColonyGrantsAndSpendsShips(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.CaylionCore)
	s.Phase = PhaseColonyBid
	c1 := entity.ColonyID(1)
	s.ColonyBidTrack = []*entity.ColonyID{&c1}
	s.ColonyBidOrder = []BidEntry{{Player: 0, Ships: 2}}

	next := mustApply(t, s, 1, TakeColonyRecord(0, intp(0)))

	assert.Equal(t, []entity.ColonyID{1}, next.PlayerColonies(0))
	assert.Equal(t, 0, next.PlayerCubes(0).Ships, "both committed ships spent")
	assert.Nil(t, next.ColonyBidTrack[0], "slot emptied")
	assert.Empty(t, next.ColonyBidOrder)
}

func TestTakeColonyAfterTradingShipsAway(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.CaylionCore)
	addPlayer(s, 1, entity.EniEtCore)
	s.Phase = PhaseColonyBid
	c1 := entity.ColonyID(1)
	s.ColonyBidTrack = []*entity.ColonyID{&c1}
	s.ColonyBidOrder = []BidEntry{{Player: 0, Ships: 2}}

	ships := make([]entity.CubeID, 0, 2)
	for id, c := range s.Cubes[0] {
		if c.Type == entity.CubeShip {
			ships = append(ships, id)
		}
	}
	require.Len(t, ships, 2)

	// Ships committed at bid time can be traded away before the take;
	// the take must then fail instead of granting the colony free.
	_, err := s.Apply(NewGroup(1,
		TradeCubesRecord(0, 1, ships, nil),
		TakeColonyRecord(0, intp(0)),
	))
	assert.ErrorIs(t, err, ErrInsufficientShips)

	// Passing stays legal without ships.
	next, err := s.Apply(NewGroup(2,
		TradeCubesRecord(0, 1, ships, nil),
		TakeColonyRecord(0, nil),
	))
	require.NoError(t, err)
	assert.Empty(t, next.PlayerColonies(0))
}

func TestTakeColonyPassKeepsShips(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.CaylionCore)
	s.Phase = PhaseColonyBid
	c1 := entity.ColonyID(1)
	s.ColonyBidTrack = []*entity.ColonyID{&c1}
	s.ColonyBidOrder = []BidEntry{{Player: 0, Ships: 2}}

	next := mustApply(t, s, 1, TakeColonyRecord(0, nil))
	assert.Equal(t, 2, next.PlayerCubes(0).Ships)
	assert.NotNil(t, next.ColonyBidTrack[0])
}

func TestTakeResearchGrantsTeam(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.CaylionCore)
	s.Phase = PhaseTechBid
	t1 := entity.TechID(1)
	s.TechBidTrack = []*entity.TechID{&t1}
	s.TechBidOrder = []BidEntry{{Player: 0, Ships: 1}}

	next := mustApply(t, s, 1, TakeResearchRecord(0, intp(0)))
	assert.Equal(t, entity.PlayerID(0), next.TechTeams[1])
	assert.Nil(t, next.TechBidTrack[0])
}

func TestInventTechEffects(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.CaylionCore)
	s.TechTeams[1] = 0
	before := len(s.PlayerConverters(0))

	next := mustApply(t, s, 1, InventTechRecord(0, 1, entity.CubeFood))

	r := next.PlayerCubes(0)
	assert.Equal(t, 1, r.Food, "two food paid")
	assert.Equal(t, 1, r.Points, "invent reward")
	_, held := next.TechTeams[1]
	assert.False(t, held, "research team consumed")
	assert.Equal(t, entity.PlayerID(0), next.Invented[1])
	assert.Len(t, next.PlayerConverters(0), before+1, "prototype granted")
}

func TestInventionsShareNextConfluence(t *testing.T) {
	s := newGame()
	s = mustApply(t, s, 1,
		CreatePlayerRecord(0, entity.CaylionCore),
		CreatePlayerRecord(1, entity.EniEtCore),
	)
	s = mustApply(t, s, 2, ChangePhaseRecord(PhaseTrade))
	s.TechTeams[1] = 0
	s = mustApply(t, s, 3, InventTechRecord(0, 1, entity.CubeFood))
	assert.Empty(t, s.PlayerConverters(1), "not shared in the confluence it was invented")

	for i, to := range []Phase{PhaseEconomy, PhaseColonyBid, PhaseTechBid, PhaseZethSteal, PhaseTrade} {
		s = mustApply(t, s, entity.RecordID(4+i), ChangePhaseRecord(to))
	}
	assert.Equal(t, 2, s.Confluence)
	require.Len(t, s.PlayerConverters(1), 1, "shared with the table next confluence")
	assert.True(t, s.Shared[1])
}

func TestYengiiInventionsNeedLicenses(t *testing.T) {
	s := newGame()
	s = mustApply(t, s, 1,
		CreatePlayerRecord(0, entity.YengiiCore),
		CreatePlayerRecord(1, entity.EniEtCore),
	)
	s = mustApply(t, s, 2, ChangePhaseRecord(PhaseTrade))
	s.TechTeams[1] = 0
	s = mustApply(t, s, 3, InventTechRecord(0, 1, entity.CubeFood))

	for i, to := range []Phase{PhaseEconomy, PhaseColonyBid, PhaseTechBid, PhaseZethSteal, PhaseTrade} {
		s = mustApply(t, s, entity.RecordID(4+i), ChangePhaseRecord(to))
	}
	assert.Empty(t, s.PlayerConverters(1), "Yengii inventions never share")

	s = mustApply(t, s, 10, LicenseRecord(1, 1))
	assert.Len(t, s.PlayerConverters(1), 1)
	assert.Equal(t, []entity.TechID{1}, s.Yengii.Licenses[1])
}

func TestNewConfluenceResetsRound(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.CaylionCore)
	s.Phase = PhaseZethSteal
	s.Confluence = 1
	s.Bids[0] = &PlayerBid{Colony: 1}
	c1 := entity.ColonyID(2)
	s.ColonyBidTrack = []*entity.ColonyID{&c1}
	s.ColonyBidOrder = []BidEntry{{Player: 0, Ships: 1}}
	s.Zeth.Protected[0] = true
	s.Unity.Retro[9] = true
	deckBefore := s.ColonyDeck.Len()

	next := mustApply(t, s, 1, ChangePhaseRecord(PhaseTrade))

	assert.Equal(t, 2, next.Confluence)
	assert.Empty(t, next.Bids)
	assert.Empty(t, next.ColonyBidOrder)
	assert.Empty(t, next.ColonyBidTrack)
	assert.Empty(t, next.Zeth.Protected)
	assert.Empty(t, next.Unity.Retro)
	assert.Equal(t, deckBefore+1, next.ColonyDeck.Len(), "leftover track card returned to the deck")
}

func TestColonyBidDealsTracks(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.CaylionCore)
	addPlayer(s, 1, entity.EniEtCore)
	s.Phase = PhaseEconomy
	s.Confluence = 1

	next := mustApply(t, s, 1, ChangePhaseRecord(PhaseColonyBid))

	assert.Len(t, next.ColonyBidTrack, 2, "one colony per player")
	assert.Len(t, next.TechBidTrack, 1, "deck ran out after one tech")
	assert.Equal(t, 1, next.ColonyDeck.Len())
	assert.Equal(t, 0, next.TechDeck.Len())
}
