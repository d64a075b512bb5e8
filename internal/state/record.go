package state

import (
	"github.com/cubatrice/engine/internal/entity"
)

// RecordKind discriminates the Record union.
type RecordKind string

const (
	RecordTradeCubes      RecordKind = "TRADE_CUBES"
	RecordTradeColony     RecordKind = "TRADE_COLONY"
	RecordTradeConverter  RecordKind = "TRADE_CONVERTER"
	RecordCreatePlayer    RecordKind = "CREATE_PLAYER"
	RecordRetrocontinuity RecordKind = "RETROCONTINUITY"
	RecordChangePhase     RecordKind = "CHANGE_PHASE"
	RecordBid             RecordKind = "BID"
	RecordTakeColony      RecordKind = "TAKE_COLONY"
	RecordTakeResearch    RecordKind = "TAKE_RESEARCH"
	RecordInventTech      RecordKind = "INVENT_TECH"
	RecordLicense         RecordKind = "LICENSE"
)

// Record describes one legal state mutation. Exactly the payload field
// matching Kind is set; records are the only way game state changes.
type Record struct {
	Kind RecordKind `json:"kind"`

	TradeCubes      *TradeCubes      `json:"trade_cubes,omitempty"`
	TradeColony     *TradeColony     `json:"trade_colony,omitempty"`
	TradeConverter  *TradeConverter  `json:"trade_converter,omitempty"`
	CreatePlayer    *CreatePlayer    `json:"create_player,omitempty"`
	Retrocontinuity *Retrocontinuity `json:"retrocontinuity,omitempty"`
	ChangePhase     *ChangePhase     `json:"change_phase,omitempty"`
	Bid             *Bid             `json:"bid,omitempty"`
	TakeColony      *TakeColony      `json:"take_colony,omitempty"`
	TakeResearch    *TakeResearch    `json:"take_research,omitempty"`
	InventTech      *InventTech      `json:"invent_tech,omitempty"`
	License         *License         `json:"license,omitempty"`
}

// TradeCubes is the cube portion of a trade, transferring cube
// ownership between two players.
type TradeCubes struct {
	A entity.PlayerID `json:"a"`
	B entity.PlayerID `json:"b"`
	// ACubes are cubes currently owned by A, transferred to B.
	ACubes []entity.CubeID `json:"a_cubes"`
	// BCubes are cubes currently owned by B, transferred to A.
	BCubes []entity.CubeID `json:"b_cubes"`
}

// TradeColony is the colony portion of a trade.
type TradeColony struct {
	A         entity.PlayerID   `json:"a"`
	B         entity.PlayerID   `json:"b"`
	AColonies []entity.ColonyID `json:"a_colonies"`
	BColonies []entity.ColonyID `json:"b_colonies"`
}

// TradeConverter is the converter portion of a trade. A non-permanent
// trade is a loan: the converter remembers its original owner so it
// can be recovered.
type TradeConverter struct {
	A           entity.PlayerID      `json:"a"`
	B           entity.PlayerID      `json:"b"`
	AConverters []entity.ConverterID `json:"a_converters"`
	BConverters []entity.ConverterID `json:"b_converters"`
	Permanent   bool                 `json:"permanent"`
}

// CreatePlayer adds a player with a given faction along with all of
// the faction's starting resources and converters.
type CreatePlayer struct {
	Player  entity.PlayerID    `json:"player"`
	Faction entity.FactionType `json:"faction"`
}

// Retrocontinuity runs a white converter during the trade phase
// instead of the economy phase.
type Retrocontinuity struct {
	Converter entity.ConverterID `json:"converter"`
}

// ChangePhase moves the game to the named phase, which must follow the
// current phase in the transition graph.
type ChangePhase struct {
	To Phase `json:"to"`
}

// Bid commits ships to the colony and tech bid tracks. Both bids are
// made at the same time. Base Kjas may split their colony bid in two
// and alt Faderan may split their tech bid in two.
type Bid struct {
	Player         entity.PlayerID `json:"player"`
	ForColony      int             `json:"for_colony"`
	ForColonyKjas  *int            `json:"for_colony_kjas,omitempty"`
	ForTech        int             `json:"for_tech"`
	ForTechFaderan *int            `json:"for_tech_faderan,omitempty"`
}

// TakeColony takes a colony from the bid track after bidding. A nil
// index is a pass.
type TakeColony struct {
	Player entity.PlayerID `json:"player"`
	Colony *int            `json:"colony,omitempty"`
}

// TakeResearch takes a research team from the bid track after bidding.
// A nil index is a pass.
type TakeResearch struct {
	Player entity.PlayerID `json:"player"`
	Tech   *int            `json:"tech,omitempty"`
}

// InventTech invents a technology the player holds the research team
// for, paying one of its alternate costs.
type InventTech struct {
	Player entity.PlayerID `json:"player"`
	Tech   entity.TechID   `json:"tech"`
	Cost   entity.CubeType `json:"cost"`
}

// License grants a player the use of a technology invented by the
// Yengii, whose inventions are not shared with the table.
type License struct {
	Player entity.PlayerID `json:"player"`
	Tech   entity.TechID   `json:"tech"`
}

// RecordGroup bundles one or more records under one identifier. A
// single player turn-action may decompose into multiple primitive
// effects that must apply together or not at all.
type RecordGroup struct {
	ID      entity.RecordID `json:"id"`
	Records []Record        `json:"records"`
}

// NewGroup builds a record group.
func NewGroup(id entity.RecordID, records ...Record) RecordGroup {
	return RecordGroup{ID: id, Records: records}
}

// Constructors for the record union, one per kind.

func TradeCubesRecord(a, b entity.PlayerID, aCubes, bCubes []entity.CubeID) Record {
	return Record{Kind: RecordTradeCubes, TradeCubes: &TradeCubes{A: a, B: b, ACubes: aCubes, BCubes: bCubes}}
}

func TradeColonyRecord(a, b entity.PlayerID, aColonies, bColonies []entity.ColonyID) Record {
	return Record{Kind: RecordTradeColony, TradeColony: &TradeColony{A: a, B: b, AColonies: aColonies, BColonies: bColonies}}
}

func TradeConverterRecord(a, b entity.PlayerID, aConverters, bConverters []entity.ConverterID, permanent bool) Record {
	return Record{Kind: RecordTradeConverter, TradeConverter: &TradeConverter{
		A: a, B: b, AConverters: aConverters, BConverters: bConverters, Permanent: permanent,
	}}
}

func CreatePlayerRecord(p entity.PlayerID, f entity.FactionType) Record {
	return Record{Kind: RecordCreatePlayer, CreatePlayer: &CreatePlayer{Player: p, Faction: f}}
}

func RetrocontinuityRecord(c entity.ConverterID) Record {
	return Record{Kind: RecordRetrocontinuity, Retrocontinuity: &Retrocontinuity{Converter: c}}
}

func ChangePhaseRecord(to Phase) Record {
	return Record{Kind: RecordChangePhase, ChangePhase: &ChangePhase{To: to}}
}

func BidRecord(p entity.PlayerID, forColony, forTech int) Record {
	return Record{Kind: RecordBid, Bid: &Bid{Player: p, ForColony: forColony, ForTech: forTech}}
}

func TakeColonyRecord(p entity.PlayerID, colony *int) Record {
	return Record{Kind: RecordTakeColony, TakeColony: &TakeColony{Player: p, Colony: colony}}
}

func TakeResearchRecord(p entity.PlayerID, tech *int) Record {
	return Record{Kind: RecordTakeResearch, TakeResearch: &TakeResearch{Player: p, Tech: tech}}
}

func InventTechRecord(p entity.PlayerID, tech entity.TechID, cost entity.CubeType) Record {
	return Record{Kind: RecordInventTech, InventTech: &InventTech{Player: p, Tech: tech, Cost: cost}}
}

func LicenseRecord(p entity.PlayerID, tech entity.TechID) Record {
	return Record{Kind: RecordLicense, License: &License{Player: p, Tech: tech}}
}
