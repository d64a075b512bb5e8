package entity

import "fmt"

// ItemKind discriminates the Item union.
type ItemKind string

const (
	// ItemCubes is a quantity of cubes of one type.
	ItemCubes ItemKind = "CUBES"
	// ItemDonationCubes is a quantity of cubes that must be traded
	// away this trade phase.
	ItemDonationCubes ItemKind = "DONATION_CUBES"
	// ItemColony is a colony of a given biome (or any). Only seen as
	// input for the Faderan relic world 'paradise converter'.
	ItemColony ItemKind = "COLONY"
	// ItemSpecificColony is a colony with a specific identifier. Only
	// ever seen as output for the alt Caylion 'hyperspace consortium'.
	ItemSpecificColony ItemKind = "SPECIFIC_COLONY"
	// ItemToken is some kind of token. Only ever seen as output.
	ItemToken ItemKind = "TOKEN"
)

// Item is a generic resource unit appearing in converter inputs,
// outputs, upgrade costs and starting grants. It is a specification of
// what a converter needs or produces, distinct from the CubeRecord
// aggregate holding.
type Item struct {
	Kind   ItemKind   `json:"kind"`
	Cube   CubeType   `json:"cube,omitempty"`
	Qty    int        `json:"qty,omitempty"`
	Biome  ColonyType `json:"biome,omitempty"`
	Colony ColonyID   `json:"colony,omitempty"`
	Token  Token      `json:"token,omitempty"`
}

// CubesItem builds a cube-quantity item.
func CubesItem(t CubeType, qty int) Item {
	return Item{Kind: ItemCubes, Cube: t, Qty: qty}
}

// DonationCubesItem builds a must-trade-away cube-quantity item.
func DonationCubesItem(t CubeType, qty int) Item {
	return Item{Kind: ItemDonationCubes, Cube: t, Qty: qty}
}

// ColonyItem builds an any-or-specific-biome colony item.
func ColonyItem(biome ColonyType) Item {
	return Item{Kind: ItemColony, Biome: biome}
}

// SpecificColonyItem builds an item naming one colony.
func SpecificColonyItem(id ColonyID) Item {
	return Item{Kind: ItemSpecificColony, Colony: id}
}

// TokenItem builds a token item.
func TokenItem(t Token) Item {
	return Item{Kind: ItemToken, Token: t}
}

func (i Item) String() string {
	switch i.Kind {
	case ItemCubes:
		return fmt.Sprintf("%d %s", i.Qty, i.Cube)
	case ItemDonationCubes:
		return fmt.Sprintf("%d [D]%s", i.Qty, i.Cube)
	case ItemColony:
		return fmt.Sprintf("colony (%s)", i.Biome)
	case ItemSpecificColony:
		return fmt.Sprintf("colony #%d", i.Colony)
	case ItemToken:
		return fmt.Sprintf("token %s", i.Token.Kind)
	}
	return string(i.Kind)
}

// TokenKind discriminates the Token union.
type TokenKind string

const (
	// TokenAcknowledgement is given by the Faderan to other factions
	// to acknowledge their help. Worth a victory point, returned to
	// the Faderan when the holder invents a technology.
	TokenAcknowledgement TokenKind = "ACKNOWLEDGEMENT"
	// TokenEnvoy is given along with resources by the Zeth. Holding
	// envoys makes a player an easier steal target; envoys are not
	// removed when the Zeth steal.
	TokenEnvoy TokenKind = "ENVOY"
	// TokenRegret comes attached to research teams invented by the
	// Society of Falling Light; untradable, -1 VP at game end, and
	// holders go last in bidding.
	TokenRegret TokenKind = "REGRET"
	// TokenService halves the input cost of white converters (rounded
	// up) and sticks once the converter has run.
	TokenService TokenKind = "SERVICE"
	// TokenCrossColonization is placed on colonies by the Charity
	// Syndicate and returned when the colony is consumed.
	TokenCrossColonization TokenKind = "CROSS_COLONIZATION"
	// TokenFactory produces small cubes of its color.
	TokenFactory TokenKind = "FACTORY"
)

// Token is a special marker. Factory tokens carry the cube type they
// produce.
type Token struct {
	Kind    TokenKind `json:"kind,omitempty"`
	Factory CubeType  `json:"factory,omitempty"`
}

// QuantityLimit returns the global cap on how many of this token may
// exist at once, if the token is quantity limited. The cap is enforced
// by the owning subsystem, not here. Factory tokens are capped per
// color.
func (t Token) QuantityLimit() (int, bool) {
	switch t.Kind {
	case TokenEnvoy:
		return 7, true
	case TokenCrossColonization:
		return 3, true
	case TokenService:
		return 17, true
	case TokenFactory:
		return 3, true
	}
	return 0, false
}

// UpgradeKind discriminates the Upgrade union.
type UpgradeKind string

const (
	// UpgradeCubes pays a quantity of one cube type.
	UpgradeCubes UpgradeKind = "CUBES"
	// UpgradeColonyAndCubes consumes a colony of a biome plus a cube
	// delta.
	UpgradeColonyAndCubes UpgradeKind = "COLONY_AND_CUBES"
	// UpgradeColoniesAndCubes consumes several colonies plus a cube
	// delta.
	UpgradeColoniesAndCubes UpgradeKind = "COLONIES_AND_CUBES"
	// UpgradeConverterCard consumes an owned converter card.
	UpgradeConverterCard UpgradeKind = "CONVERTER_CARD"
	// UpgradeConverterCardOtherPlayer consumes a converter card owned
	// by another player.
	UpgradeConverterCardOtherPlayer UpgradeKind = "CONVERTER_CARD_OTHER_PLAYER"
	// UpgradeKitTechShared triggers when the paired technology is
	// shared with the table.
	UpgradeKitTechShared UpgradeKind = "KIT_TECH_SHARED"
	// UpgradeCrossColonizedPlanetBought triggers when a
	// cross-colonized colony is bought.
	UpgradeCrossColonizedPlanetBought UpgradeKind = "CROSS_COLONIZED_PLANET_BOUGHT"
)

// Upgrade describes the inputs used to exercise one upgrade option on
// a converter.
type Upgrade struct {
	Kind     UpgradeKind  `json:"kind"`
	Cube     CubeType     `json:"cube,omitempty"`
	Qty      int          `json:"qty,omitempty"`
	Tech     TechID       `json:"tech,omitempty"`
	Colonies []ColonyType `json:"colonies,omitempty"`
	InCubes  CubeRecord   `json:"in_cubes,omitempty"`
	OutCubes CubeRecord   `json:"out_cubes,omitempty"`
}

// UpgradeToken is a limited-supply authorization required to exercise
// certain converter upgrades.
type UpgradeToken string

const (
	// UpgradeTokenColony upgrades colonies; 2 can be invented.
	UpgradeTokenColony UpgradeToken = "COLONY"
	// UpgradeTokenTierOne upgrades tier one converters; 2 can be
	// invented.
	UpgradeTokenTierOne UpgradeToken = "TIER_ONE"
	// UpgradeTokenTierTwo upgrades tier two converters; 1 can be
	// invented.
	UpgradeTokenTierTwo UpgradeToken = "TIER_TWO"
)
