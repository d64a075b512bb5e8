package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubatrice/engine/internal/entity"
)

func TestValidateCreatePlayer(t *testing.T) {
	s := newGame()
	require.NoError(t, s.Validate(CreatePlayerRecord(0, entity.CaylionCore)))
	addPlayer(s, 0, entity.CaylionCore)

	assert.ErrorIs(t, s.Validate(CreatePlayerRecord(1, entity.CaylionCore)), ErrFactionTaken)
	assert.ErrorIs(t, s.Validate(CreatePlayerRecord(1, entity.CaylionAlt)), ErrFactionTaken,
		"bifurcation of a taken faction is also taken")
	assert.ErrorIs(t, s.Validate(CreatePlayerRecord(0, entity.EniEtCore)), ErrPlayerExists)
	assert.NoError(t, s.Validate(CreatePlayerRecord(1, entity.EniEtCore)))

	s.Phase = PhaseTrade
	assert.ErrorIs(t, s.Validate(CreatePlayerRecord(1, entity.EniEtCore)), ErrWrongPhase)
}

func TestValidateChangePhase(t *testing.T) {
	s := newGame()
	s.Phase = PhaseEconomy
	s.Confluence = 1

	assert.NoError(t, s.Validate(ChangePhaseRecord(PhaseColonyBid)))
	assert.ErrorIs(t, s.Validate(ChangePhaseRecord(PhaseResolution)), ErrBadPhase)

	s.Confluence = s.TotalConfluences
	assert.NoError(t, s.Validate(ChangePhaseRecord(PhaseResolution)))
	assert.ErrorIs(t, s.Validate(ChangePhaseRecord(PhaseColonyBid)), ErrBadPhase)

	s.Phase = PhaseFinish
	for _, to := range []Phase{PhaseInit, PhaseTrade, PhaseResolution} {
		assert.ErrorIs(t, s.Validate(ChangePhaseRecord(to)), ErrBadPhase)
	}
}

func TestValidateTradeCubesSymmetry(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.CaylionCore)
	addPlayer(s, 1, entity.EniEtCore)
	a := giveCubes(s, 0, entity.CubeFood, 2)
	b := giveCubes(s, 1, entity.CubePower, 1)

	ok := TradeCubesRecord(0, 1, []entity.CubeID{a[0]}, []entity.CubeID{b[0]})
	assert.NoError(t, s.Validate(ok))

	// Offering a cube the party does not own fails.
	bad := TradeCubesRecord(0, 1, []entity.CubeID{b[0]}, nil)
	assert.ErrorIs(t, s.Validate(bad), ErrNotOwned)

	assert.ErrorIs(t, s.Validate(TradeCubesRecord(0, 0, nil, nil)), ErrSelfTrade)
	assert.ErrorIs(t, s.Validate(TradeCubesRecord(0, 9, nil, nil)), ErrUnknownPlayer)
}

func TestValidateTradeConverter(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.CaylionCore)
	addPlayer(s, 1, entity.EniEtCore)
	convs := s.PlayerConverters(0)
	require.NotEmpty(t, convs)

	rec := TradeConverterRecord(0, 1, convs[:1], nil, false)
	assert.NoError(t, s.Validate(rec))

	s.Converters[convs[0]].Untradable = true
	assert.ErrorIs(t, s.Validate(rec), ErrUntradable)
	s.Converters[convs[0]].Untradable = false

	// A converter the party does not control cannot be offered.
	assert.ErrorIs(t, s.Validate(TradeConverterRecord(1, 0, convs[:1], nil, false)), ErrNotOwned)
}

func TestValidateBid(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.KjasCore)
	addPlayer(s, 1, entity.EniEtCore)
	giveCubes(s, 0, entity.CubeShip, 6)

	rec := BidRecord(0, 2, 1)
	assert.ErrorIs(t, s.Validate(rec), ErrWrongPhase)

	s.Phase = PhaseColonyBid
	assert.NoError(t, s.Validate(rec))

	s.Bids[0] = &PlayerBid{Colony: 2, Tech: 1}
	assert.ErrorIs(t, s.Validate(rec), ErrAlreadyBid)
	delete(s.Bids, 0)

	// Kjas may split their colony bid; the halves differ by at most
	// one ship.
	split := rec
	split.Bid = &Bid{Player: 0, ForColony: 2, ForColonyKjas: intp(1), ForTech: 1}
	assert.NoError(t, s.Validate(split))
	split.Bid = &Bid{Player: 0, ForColony: 3, ForColonyKjas: intp(1), ForTech: 1}
	assert.ErrorIs(t, s.Validate(split), ErrUnevenSplit)

	// Nobody else may split, and alt Faderan alone splits tech bids.
	other := Record{Kind: RecordBid, Bid: &Bid{Player: 1, ForColony: 1, ForColonyKjas: intp(1), ForTech: 0}}
	assert.ErrorIs(t, s.Validate(other), ErrSplitNotAllowed)
	other.Bid = &Bid{Player: 1, ForTech: 1, ForTechFaderan: intp(1)}
	assert.ErrorIs(t, s.Validate(other), ErrSplitNotAllowed)

	// Total ships across categories and halves are capped by holdings.
	over := Record{Kind: RecordBid, Bid: &Bid{Player: 0, ForColony: 3, ForColonyKjas: intp(2), ForTech: 2}}
	assert.ErrorIs(t, s.Validate(over), ErrInsufficientShips)

	// The two starting ships cover a two-ship bid for Eni Et.
	assert.NoError(t, s.Validate(BidRecord(1, 1, 1)))
	assert.ErrorIs(t, s.Validate(BidRecord(1, 2, 1)), ErrInsufficientShips)
}

func TestValidateTakeColony(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.CaylionCore)
	addPlayer(s, 1, entity.EniEtCore)
	s.Phase = PhaseColonyBid
	c1, c2 := entity.ColonyID(1), entity.ColonyID(2)
	s.ColonyBidTrack = []*entity.ColonyID{&c1, &c2}
	s.ColonyBidOrder = []BidEntry{{Player: 0, Ships: 2}, {Player: 1, Ships: 1}}

	assert.NoError(t, s.Validate(TakeColonyRecord(0, intp(0))))
	assert.NoError(t, s.Validate(TakeColonyRecord(0, nil)), "pass is always legal")
	assert.ErrorIs(t, s.Validate(TakeColonyRecord(1, intp(0))), ErrNotBidTurn)
	assert.ErrorIs(t, s.Validate(TakeColonyRecord(0, intp(5))), ErrEmptyBidSlot)

	s.ColonyBidTrack[0] = nil
	assert.ErrorIs(t, s.Validate(TakeColonyRecord(0, intp(0))), ErrEmptyBidSlot)

	s.Phase = PhaseTrade
	assert.ErrorIs(t, s.Validate(TakeColonyRecord(0, nil)), ErrWrongPhase)
}

func TestValidateTakeColonySupportLimit(t *testing.T) {
	s := newGame()
	// Im'dril fleets support no colonies at all.
	addPlayer(s, 0, entity.ImdrilCore)
	s.Phase = PhaseColonyBid
	c1 := entity.ColonyID(1)
	s.ColonyBidTrack = []*entity.ColonyID{&c1}
	s.ColonyBidOrder = []BidEntry{{Player: 0, Ships: 1}}

	assert.ErrorIs(t, s.Validate(TakeColonyRecord(0, intp(0))), ErrColonyLimit)
	assert.NoError(t, s.Validate(TakeColonyRecord(0, nil)))
}

func TestValidateTakeResearch(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.CaylionCore)
	s.Phase = PhaseTechBid
	t1 := entity.TechID(1)
	s.TechBidTrack = []*entity.TechID{&t1}
	s.TechBidOrder = []BidEntry{{Player: 0, Ships: 1}}

	assert.NoError(t, s.Validate(TakeResearchRecord(0, intp(0))))
	assert.ErrorIs(t, s.Validate(TakeResearchRecord(0, intp(1))), ErrEmptyBidSlot)

	s.TechBidOrder = nil
	assert.ErrorIs(t, s.Validate(TakeResearchRecord(0, intp(0))), ErrNotBidTurn)
}

func TestValidateTakeResearchRequiresHeldShips(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.CaylionCore)
	s.Phase = PhaseTechBid
	t1 := entity.TechID(1)
	s.TechBidTrack = []*entity.TechID{&t1}
	s.TechBidOrder = []BidEntry{{Player: 0, Ships: 1}}

	require.NoError(t, s.Validate(TakeResearchRecord(0, intp(0))))

	// Committed ships traded away since the bid fail the take.
	for id, c := range s.Cubes[0] {
		if c.Type == entity.CubeShip {
			delete(s.Cubes[0], id)
		}
	}
	assert.ErrorIs(t, s.Validate(TakeResearchRecord(0, intp(0))), ErrInsufficientShips)
	assert.NoError(t, s.Validate(TakeResearchRecord(0, nil)), "pass needs no ships")
}

func TestValidateInventTech(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.CaylionCore)
	addPlayer(s, 1, entity.EniEtCore)

	rec := InventTechRecord(0, 1, entity.CubeFood)
	assert.ErrorIs(t, s.Validate(rec), ErrNoTechTeam)

	s.TechTeams[1] = 0
	assert.NoError(t, s.Validate(rec), "three starting food cover the two-food cost")

	// The chosen cost must be listed and affordable.
	assert.ErrorIs(t, s.Validate(InventTechRecord(0, 1, entity.CubeUltratech)), ErrCannotAfford)
	assert.ErrorIs(t, s.Validate(InventTechRecord(0, 1, entity.CubeBiotech)), ErrCannotAfford)

	s.TechTeams[1] = 1
	assert.ErrorIs(t, s.Validate(rec), ErrNoTechTeam)
}

func TestValidateLicense(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.YengiiCore)
	addPlayer(s, 1, entity.EniEtCore)

	rec := LicenseRecord(1, 1)
	assert.ErrorIs(t, s.Validate(rec), ErrNotLicensable)

	s.Invented[1] = 0
	require.NoError(t, s.Validate(rec))

	assert.ErrorIs(t, s.Validate(LicenseRecord(0, 1)), ErrNotLicensable,
		"the inventor does not license to themselves")

	s.Yengii.Licenses[1] = []entity.TechID{1}
	assert.ErrorIs(t, s.Validate(rec), ErrAlreadyLicensed)

	// Inventions by anyone else are shared, not licensed.
	s.Invented[1] = 1
	assert.ErrorIs(t, s.Validate(LicenseRecord(0, 1)), ErrNotLicensable)
}

func TestValidateRetrocontinuity(t *testing.T) {
	s := newGame()
	addPlayer(s, 0, entity.UnityAlt)
	addPlayer(s, 1, entity.EniEtCore)
	convs := s.PlayerConverters(0)
	require.NotEmpty(t, convs)

	rec := RetrocontinuityRecord(convs[0])
	assert.ErrorIs(t, s.Validate(rec), ErrWrongPhase)

	s.Phase = PhaseTrade
	assert.NoError(t, s.Validate(rec))

	s.Unity.Retro[convs[0]] = true
	assert.ErrorIs(t, s.Validate(rec), ErrRetroUsed)
	delete(s.Unity.Retro, convs[0])

	// Only a Unity player's converters can run retroactively.
	s.Converters[convs[0]].Owner = 1
	assert.ErrorIs(t, s.Validate(rec), ErrMalformedRecord)
}

func TestValidateMalformed(t *testing.T) {
	s := newGame()
	assert.ErrorIs(t, s.Validate(Record{Kind: RecordBid}), ErrMalformedRecord)
	assert.ErrorIs(t, s.Validate(Record{Kind: "NOPE"}), ErrMalformedRecord)
}
