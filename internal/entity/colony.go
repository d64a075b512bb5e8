package entity

import (
	"github.com/cubatrice/engine/internal/numeric"
)

// ColonyType is the biome of a colony. Some converters and upgrades
// care about colonies of specific biomes.
type ColonyType string

const (
	// BiomeDesert is also known as a 'red' colony.
	BiomeDesert ColonyType = "DESERT"
	// BiomeIce is also known as a 'white' colony.
	BiomeIce ColonyType = "ICE"
	// BiomeJungle is also known as a 'green' colony.
	BiomeJungle ColonyType = "JUNGLE"
	// BiomeOcean is also known as a 'blue' colony.
	BiomeOcean ColonyType = "OCEAN"
	// BiomeAny matches any biome.
	BiomeAny ColonyType = "ANY"
)

// Matches reports whether a colony of biome rhs satisfies a
// requirement for biome t.
func (t ColonyType) Matches(rhs ColonyType) bool {
	return t == BiomeAny || t == rhs
}

// Colony is an immutable colony definition: name, identifier, biome,
// an embedded converter, and an optional upgrade cost. Ownership of a
// colony instance is tracked by game state, not here. Paying UpCost
// replaces the colony with the definition at ID+UpgradedIDOffset.
type Colony struct {
	Name string     `json:"name"`
	ID   ColonyID   `json:"id"`
	Type ColonyType `json:"type"`
	Converter
	UpCost []Item `json:"up_cost,omitempty"`
}

// Input implements Convertible.
func (c *Colony) Input() []Item { return c.Inputs }

// Output implements Convertible.
func (c *Colony) Output() []Item { return c.Outputs }

// InputValue implements Convertible.
func (c *Colony) InputValue() numeric.Fraction { return itemsValue(c.Inputs) }

// OutputValue implements Convertible.
func (c *Colony) OutputValue() numeric.Fraction { return itemsValue(c.Outputs) }

// InputValueAdjusted implements Convertible.
func (c *Colony) InputValueAdjusted(rate numeric.Fraction, turnsLeft int) (numeric.Fraction, error) {
	return itemsValueAdjusted(c.Inputs, rate, turnsLeft)
}

// OutputValueAdjusted implements Convertible.
func (c *Colony) OutputValueAdjusted(rate numeric.Fraction, turnsLeft int) (numeric.Fraction, error) {
	return itemsValueAdjusted(c.Outputs, rate, turnsLeft)
}

// Free implements Convertible.
func (c *Colony) Free() bool { return len(c.Inputs) == 0 }

// Upgradable reports whether the colony has an upgrade cost and is not
// already an upgraded variant.
func (c *Colony) Upgradable() bool {
	return len(c.UpCost) > 0 && c.ID < UpgradedIDOffset
}

// UpgradeOpts implements Convertible. Colonies have a single upgrade
// path.
func (c *Colony) UpgradeOpts() (int, bool) {
	if !c.Upgradable() {
		return 0, false
	}
	return 1, true
}

// UpgradeCost implements Convertible.
func (c *Colony) UpgradeCost(opt int) (Upgrade, bool) {
	if opt != 0 || !c.Upgradable() {
		return Upgrade{}, false
	}
	first := c.UpCost[0]
	return Upgrade{Kind: UpgradeCubes, Cube: first.Cube, Qty: first.Qty}, true
}

// Upgrade replaces the colony's identity and converter with the
// definition at ID+UpgradedIDOffset. No-op if the colony is already
// upgraded, the option is invalid, or the upgraded definition is
// missing (a load-time validation catches the latter).
func (c *Colony) Upgrade(ref ReferenceStore, opt int) {
	if opt != 0 || !c.Upgradable() {
		return
	}
	up, ok := ref.Colony(c.ID + UpgradedIDOffset)
	if !ok {
		return
	}
	*c = up
}

// UpgradeToken implements Convertible. Colony upgrades consume a
// colony upgrade token.
func (c *Colony) UpgradeToken() (UpgradeToken, bool) {
	if !c.Upgradable() {
		return "", false
	}
	return UpgradeTokenColony, true
}

// Color implements Convertible.
func (c *Colony) Color() Arrow { return c.Converter.Arrow }
