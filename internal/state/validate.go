package state

import (
	"errors"
	"fmt"

	"github.com/cubatrice/engine/internal/entity"
)

// Validation rejections. These report an illegal action back to the
// caller; they never indicate engine failure and validation never
// mutates state.
var (
	ErrMalformedRecord   = errors.New("malformed record")
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrPlayerExists      = errors.New("player already exists")
	ErrFactionTaken      = errors.New("faction or its bifurcation already taken")
	ErrBadPhase          = errors.New("illegal phase transition")
	ErrWrongPhase        = errors.New("record not legal in this phase")
	ErrSelfTrade         = errors.New("trade parties must differ")
	ErrNotOwned          = errors.New("unit not owned by that party")
	ErrUntradable        = errors.New("converter is untradable")
	ErrAlreadyBid        = errors.New("player already bid this round")
	ErrSplitNotAllowed   = errors.New("split bid not allowed for faction")
	ErrUnevenSplit       = errors.New("split bid halves differ by more than one ship")
	ErrInsufficientShips = errors.New("not enough ships for bid")
	ErrNotBidTurn        = errors.New("not at the head of the bid order")
	ErrEmptyBidSlot      = errors.New("bid track slot is empty")
	ErrColonyLimit       = errors.New("faction colony support exceeded")
	ErrNoTechTeam        = errors.New("player does not hold the research team")
	ErrUnknownTech       = errors.New("unknown technology")
	ErrCannotAfford      = errors.New("cannot afford technology cost")
	ErrNotLicensable     = errors.New("technology not licensable")
	ErrAlreadyLicensed   = errors.New("player already holds that license")
	ErrRetroUsed         = errors.New("converter already ran this confluence")

	// ErrNotApplied is a contract violation: an undo was requested for
	// a record group that is not the most recently applied one.
	ErrNotApplied = errors.New("record group was not applied")
)

// Validate checks a record against the current state without mutating
// it. A nil return means the record is legal to apply right now.
func (s *GameState) Validate(r Record) error {
	switch r.Kind {
	case RecordCreatePlayer:
		if r.CreatePlayer == nil {
			return ErrMalformedRecord
		}
		return s.validateCreatePlayer(r.CreatePlayer)
	case RecordChangePhase:
		if r.ChangePhase == nil {
			return ErrMalformedRecord
		}
		return s.validateChangePhase(r.ChangePhase)
	case RecordTradeCubes:
		if r.TradeCubes == nil {
			return ErrMalformedRecord
		}
		return s.validateTradeCubes(r.TradeCubes)
	case RecordTradeColony:
		if r.TradeColony == nil {
			return ErrMalformedRecord
		}
		return s.validateTradeColony(r.TradeColony)
	case RecordTradeConverter:
		if r.TradeConverter == nil {
			return ErrMalformedRecord
		}
		return s.validateTradeConverter(r.TradeConverter)
	case RecordRetrocontinuity:
		if r.Retrocontinuity == nil {
			return ErrMalformedRecord
		}
		return s.validateRetrocontinuity(r.Retrocontinuity)
	case RecordBid:
		if r.Bid == nil {
			return ErrMalformedRecord
		}
		return s.validateBid(r.Bid)
	case RecordTakeColony:
		if r.TakeColony == nil {
			return ErrMalformedRecord
		}
		return s.validateTakeColony(r.TakeColony)
	case RecordTakeResearch:
		if r.TakeResearch == nil {
			return ErrMalformedRecord
		}
		return s.validateTakeResearch(r.TakeResearch)
	case RecordInventTech:
		if r.InventTech == nil {
			return ErrMalformedRecord
		}
		return s.validateInventTech(r.InventTech)
	case RecordLicense:
		if r.License == nil {
			return ErrMalformedRecord
		}
		return s.validateLicense(r.License)
	}
	return fmt.Errorf("%w: kind %q", ErrMalformedRecord, r.Kind)
}

func (s *GameState) validateCreatePlayer(rec *CreatePlayer) error {
	if s.Phase != PhaseInit {
		return fmt.Errorf("%w: players join during %s only", ErrWrongPhase, PhaseInit)
	}
	if _, ok := s.Factions[rec.Player]; ok {
		return fmt.Errorf("%w: player %d", ErrPlayerExists, rec.Player)
	}
	for _, f := range s.Factions {
		if f == rec.Faction || f == rec.Faction.Bifurcate() {
			return fmt.Errorf("%w: %s", ErrFactionTaken, rec.Faction)
		}
	}
	return nil
}

func (s *GameState) validateChangePhase(rec *ChangePhase) error {
	if !s.Phase.CanAdvance(rec.To, s.FinalConfluence()) {
		return fmt.Errorf("%w: %s -> %s", ErrBadPhase, s.Phase, rec.To)
	}
	return nil
}

func (s *GameState) validateTradeCubes(rec *TradeCubes) error {
	if rec.A == rec.B {
		return ErrSelfTrade
	}
	for _, p := range []entity.PlayerID{rec.A, rec.B} {
		if _, ok := s.Factions[p]; !ok {
			return fmt.Errorf("%w: player %d", ErrUnknownPlayer, p)
		}
	}
	for _, id := range rec.ACubes {
		if _, ok := s.Cubes[rec.A][id]; !ok {
			return fmt.Errorf("%w: cube %d not owned by player %d", ErrNotOwned, id, rec.A)
		}
	}
	for _, id := range rec.BCubes {
		if _, ok := s.Cubes[rec.B][id]; !ok {
			return fmt.Errorf("%w: cube %d not owned by player %d", ErrNotOwned, id, rec.B)
		}
	}
	return nil
}

func (s *GameState) validateTradeColony(rec *TradeColony) error {
	if rec.A == rec.B {
		return ErrSelfTrade
	}
	for _, p := range []entity.PlayerID{rec.A, rec.B} {
		if _, ok := s.Factions[p]; !ok {
			return fmt.Errorf("%w: player %d", ErrUnknownPlayer, p)
		}
	}
	for _, id := range rec.AColonies {
		if _, ok := s.Colonies[rec.A][id]; !ok {
			return fmt.Errorf("%w: colony %d not owned by player %d", ErrNotOwned, id, rec.A)
		}
	}
	for _, id := range rec.BColonies {
		if _, ok := s.Colonies[rec.B][id]; !ok {
			return fmt.Errorf("%w: colony %d not owned by player %d", ErrNotOwned, id, rec.B)
		}
	}
	return nil
}

func (s *GameState) validateTradeConverter(rec *TradeConverter) error {
	if rec.A == rec.B {
		return ErrSelfTrade
	}
	for _, p := range []entity.PlayerID{rec.A, rec.B} {
		if _, ok := s.Factions[p]; !ok {
			return fmt.Errorf("%w: player %d", ErrUnknownPlayer, p)
		}
	}
	check := func(owner entity.PlayerID, ids []entity.ConverterID) error {
		for _, id := range ids {
			oc, ok := s.Converters[id]
			if !ok || oc.Owner != owner {
				return fmt.Errorf("%w: converter %d not owned by player %d", ErrNotOwned, id, owner)
			}
			if oc.Untradable {
				return fmt.Errorf("%w: converter %d", ErrUntradable, id)
			}
		}
		return nil
	}
	if err := check(rec.A, rec.AConverters); err != nil {
		return err
	}
	return check(rec.B, rec.BConverters)
}

func (s *GameState) validateRetrocontinuity(rec *Retrocontinuity) error {
	if s.Phase != PhaseTrade {
		return fmt.Errorf("%w: retrocontinuity runs during %s", ErrWrongPhase, PhaseTrade)
	}
	oc, ok := s.Converters[rec.Converter]
	if !ok {
		return fmt.Errorf("%w: converter %d", ErrNotOwned, rec.Converter)
	}
	f, ok := s.Factions[oc.Owner]
	if !ok || (f != entity.UnityCore && f != entity.UnityAlt) {
		return fmt.Errorf("%w: retrocontinuity is a Unity ability", ErrMalformedRecord)
	}
	if oc.Conv.Color() != entity.ArrowWhite {
		return fmt.Errorf("%w: converter %d is not a white converter", ErrMalformedRecord, rec.Converter)
	}
	if s.Unity.Retro[rec.Converter] {
		return fmt.Errorf("%w: converter %d", ErrRetroUsed, rec.Converter)
	}
	return nil
}

func (s *GameState) validateBid(rec *Bid) error {
	if s.Phase != PhaseColonyBid {
		return fmt.Errorf("%w: bids are made during %s", ErrWrongPhase, PhaseColonyBid)
	}
	f, ok := s.Factions[rec.Player]
	if !ok {
		return fmt.Errorf("%w: player %d", ErrUnknownPlayer, rec.Player)
	}
	if _, ok := s.Bids[rec.Player]; ok {
		return fmt.Errorf("%w: player %d", ErrAlreadyBid, rec.Player)
	}
	if rec.ForColony < 0 || rec.ForTech < 0 {
		return fmt.Errorf("%w: negative bid", ErrMalformedRecord)
	}
	ships := rec.ForColony + rec.ForTech
	if rec.ForColonyKjas != nil {
		if f != entity.KjasCore {
			return fmt.Errorf("%w: colony split is a base Kjas ability", ErrSplitNotAllowed)
		}
		if *rec.ForColonyKjas < 0 {
			return fmt.Errorf("%w: negative bid", ErrMalformedRecord)
		}
		if diff := rec.ForColony - *rec.ForColonyKjas; diff > 1 || diff < -1 {
			return ErrUnevenSplit
		}
		ships += *rec.ForColonyKjas
	}
	if rec.ForTechFaderan != nil {
		if f != entity.FaderanAlt {
			return fmt.Errorf("%w: tech split is an alt Faderan ability", ErrSplitNotAllowed)
		}
		if *rec.ForTechFaderan < 0 {
			return fmt.Errorf("%w: negative bid", ErrMalformedRecord)
		}
		if diff := rec.ForTech - *rec.ForTechFaderan; diff > 1 || diff < -1 {
			return ErrUnevenSplit
		}
		ships += *rec.ForTechFaderan
	}
	if have := s.PlayerCubes(rec.Player).CountType(entity.CubeShip); ships > have {
		return fmt.Errorf("%w: committed %d, have %d", ErrInsufficientShips, ships, have)
	}
	return nil
}

func (s *GameState) validateTakeColony(rec *TakeColony) error {
	if s.Phase != PhaseColonyBid {
		return fmt.Errorf("%w: colonies are taken during %s", ErrWrongPhase, PhaseColonyBid)
	}
	if len(s.ColonyBidOrder) == 0 || s.ColonyBidOrder[0].Player != rec.Player {
		return fmt.Errorf("%w: player %d", ErrNotBidTurn, rec.Player)
	}
	if rec.Colony == nil {
		return nil
	}
	idx := *rec.Colony
	if idx < 0 || idx >= len(s.ColonyBidTrack) || s.ColonyBidTrack[idx] == nil {
		return fmt.Errorf("%w: slot %d", ErrEmptyBidSlot, idx)
	}
	if f, ok := s.Factions[rec.Player]; ok {
		if len(s.Colonies[rec.Player]) >= f.ColonySupport() {
			return fmt.Errorf("%w: %s supports %d", ErrColonyLimit, f, f.ColonySupport())
		}
	}
	// Holdings are re-checked here: the ships committed at bid time may
	// have been traded away since.
	if s.PlayerCubes(rec.Player).CountType(entity.CubeShip) < s.ColonyBidOrder[0].Ships {
		return fmt.Errorf("%w: %d committed", ErrInsufficientShips, s.ColonyBidOrder[0].Ships)
	}
	return nil
}

func (s *GameState) validateTakeResearch(rec *TakeResearch) error {
	if s.Phase != PhaseTechBid {
		return fmt.Errorf("%w: research teams are taken during %s", ErrWrongPhase, PhaseTechBid)
	}
	if len(s.TechBidOrder) == 0 || s.TechBidOrder[0].Player != rec.Player {
		return fmt.Errorf("%w: player %d", ErrNotBidTurn, rec.Player)
	}
	if rec.Tech == nil {
		return nil
	}
	idx := *rec.Tech
	if idx < 0 || idx >= len(s.TechBidTrack) || s.TechBidTrack[idx] == nil {
		return fmt.Errorf("%w: slot %d", ErrEmptyBidSlot, idx)
	}
	if s.PlayerCubes(rec.Player).CountType(entity.CubeShip) < s.TechBidOrder[0].Ships {
		return fmt.Errorf("%w: %d committed", ErrInsufficientShips, s.TechBidOrder[0].Ships)
	}
	return nil
}

func (s *GameState) validateInventTech(rec *InventTech) error {
	if _, ok := s.Factions[rec.Player]; !ok {
		return fmt.Errorf("%w: player %d", ErrUnknownPlayer, rec.Player)
	}
	if holder, ok := s.TechTeams[rec.Tech]; !ok || holder != rec.Player {
		return fmt.Errorf("%w: tech %d", ErrNoTechTeam, rec.Tech)
	}
	tech, ok := s.data.Tech(rec.Tech)
	if !ok {
		return fmt.Errorf("%w: tech %d", ErrUnknownTech, rec.Tech)
	}
	have := s.PlayerCubes(rec.Player)
	for _, c := range tech.Cost {
		if c.Type != rec.Cost {
			continue
		}
		if have.CountType(c.Type) >= c.Qty {
			return nil
		}
		return fmt.Errorf("%w: %d %s needed", ErrCannotAfford, c.Qty, c.Type)
	}
	return fmt.Errorf("%w: %s is not a listed cost of tech %d", ErrCannotAfford, rec.Cost, rec.Tech)
}

func (s *GameState) validateLicense(rec *License) error {
	if _, ok := s.Factions[rec.Player]; !ok {
		return fmt.Errorf("%w: player %d", ErrUnknownPlayer, rec.Player)
	}
	inventor, ok := s.Invented[rec.Tech]
	if !ok {
		return fmt.Errorf("%w: tech %d has not been invented", ErrNotLicensable, rec.Tech)
	}
	f := s.Factions[inventor]
	if f != entity.YengiiCore && f != entity.YengiiAlt {
		return fmt.Errorf("%w: tech %d is shared, not licensed", ErrNotLicensable, rec.Tech)
	}
	if rec.Player == inventor {
		return fmt.Errorf("%w: inventor already holds tech %d", ErrNotLicensable, rec.Tech)
	}
	for _, t := range s.Yengii.Licenses[rec.Player] {
		if t == rec.Tech {
			return fmt.Errorf("%w: tech %d", ErrAlreadyLicensed, rec.Tech)
		}
	}
	return nil
}
