package entity

import (
	"github.com/cubatrice/engine/internal/numeric"
)

// UpgradesWith returns the two technologies whose ownership unlocks an
// upgrade option for the converter invented by this technology. The
// pairing is static reference data.
func (id TechID) UpgradesWith() (TechID, TechID, bool) {
	pairs := map[TechID][2]TechID{
		1: {2, 6},
		2: {1, 7},
		3: {4, 5},
		4: {3, 7},
		5: {3, 6},
		6: {4, 5},
		7: {1, 2},

		8:  {10, 12},
		9:  {11, 13},
		10: {8, 14},
		11: {10, 12},
		12: {8, 11},
		13: {9, 14},
		14: {9, 13},

		15: {17, 21},
		16: {18, 20},
		17: {19, 21},
		18: {16, 19},
		19: {18, 20},
		20: {15, 16},
		21: {15, 17},
	}
	p, ok := pairs[id]
	if !ok {
		return 0, 0, false
	}
	return p[0], p[1], true
}

// TechCost is one alternate cost of inventing a technology.
type TechCost struct {
	Type CubeType `json:"type"`
	Qty  int      `json:"qty"`
}

// Technology is a technology card. Exactly one of its alternate costs
// must be paid to invent it. Technologies are initially available only
// to the inventor and are shared with all players in the next
// confluence, except under Yengii licensing.
type Technology struct {
	// ID is unique per technology.
	ID TechID `json:"id"`
	// Cost lists the alternate costs. Tier 1-3 techs have 2 choices,
	// tier 4 techs have 3.
	Cost []TechCost `json:"cost"`
	// Name of the technology.
	Name string `json:"name"`
	// Invents names the invented converter. Tier 4 technologies
	// invent nothing.
	Invents string `json:"invents,omitempty"`
	// Tier of the technology; techs are released in tier order, 1
	// through 4.
	Tier int `json:"tier"`
	// InventReward is the victory point reward for inventing, in
	// addition to the sharing bonus.
	InventReward int `json:"invent_reward"`
}

// ConverterPrototype is the runnable converter a technology card
// grants once invented, without ownership or faction-specific data.
type ConverterPrototype struct {
	ID   TechID `json:"id"`
	Name string `json:"name"`
	Converter
}

// lastUpgradableTech bounds the prototypes with upgrade pairings; tier
// four converters (and upgraded variants) are never upgradable.
const lastUpgradableTech TechID = 21

// Input implements Convertible.
func (p *ConverterPrototype) Input() []Item { return p.Inputs }

// Output implements Convertible.
func (p *ConverterPrototype) Output() []Item { return p.Outputs }

// InputValue implements Convertible.
func (p *ConverterPrototype) InputValue() numeric.Fraction { return itemsValue(p.Inputs) }

// OutputValue implements Convertible.
func (p *ConverterPrototype) OutputValue() numeric.Fraction { return itemsValue(p.Outputs) }

// InputValueAdjusted implements Convertible.
func (p *ConverterPrototype) InputValueAdjusted(rate numeric.Fraction, turnsLeft int) (numeric.Fraction, error) {
	return itemsValueAdjusted(p.Inputs, rate, turnsLeft)
}

// OutputValueAdjusted implements Convertible.
func (p *ConverterPrototype) OutputValueAdjusted(rate numeric.Fraction, turnsLeft int) (numeric.Fraction, error) {
	return itemsValueAdjusted(p.Outputs, rate, turnsLeft)
}

// Free implements Convertible.
func (p *ConverterPrototype) Free() bool { return len(p.Inputs) == 0 }

// Upgradable implements Convertible.
func (p *ConverterPrototype) Upgradable() bool {
	return p.ID <= lastUpgradableTech
}

// UpgradeOpts implements Convertible. Each upgradable prototype has
// two paths, one per paired technology.
func (p *ConverterPrototype) UpgradeOpts() (int, bool) {
	if !p.Upgradable() {
		return 0, false
	}
	return 2, true
}

// UpgradeCost implements Convertible.
func (p *ConverterPrototype) UpgradeCost(opt int) (Upgrade, bool) {
	a, b, ok := p.ID.UpgradesWith()
	if !ok {
		return Upgrade{}, false
	}
	switch opt {
	case 0:
		return Upgrade{Kind: UpgradeConverterCard, Tech: a}, true
	case 1:
		return Upgrade{Kind: UpgradeConverterCard, Tech: b}, true
	}
	return Upgrade{}, false
}

// Upgrade replaces the prototype with its upgraded variant at
// ID+UpgradedIDOffset. No-op when already upgraded, the option is
// invalid, or the variant is missing from the reference data.
func (p *ConverterPrototype) Upgrade(ref ReferenceStore, opt int) {
	if opt > 1 || !p.Upgradable() || p.ID >= UpgradedIDOffset {
		return
	}
	up, ok := ref.Prototype(p.ID + UpgradedIDOffset)
	if !ok {
		return
	}
	*p = up
}

// UpgradeToken implements Convertible. Tier one and two converters
// consume the matching tier token.
func (p *ConverterPrototype) UpgradeToken() (UpgradeToken, bool) {
	switch {
	case p.ID <= 7:
		return UpgradeTokenTierOne, true
	case p.ID <= 14:
		return UpgradeTokenTierTwo, true
	}
	return "", false
}

// Color implements Convertible.
func (p *ConverterPrototype) Color() Arrow { return p.Converter.Arrow }
