package entity

import (
	"github.com/cubatrice/engine/internal/numeric"
)

// Arrow determines during which phase a converter is eligible to run.
type Arrow string

const (
	// ArrowWhite runs during the economy phase.
	ArrowWhite Arrow = "WHITE"
	// ArrowPurple runs during the trade phase (research teams, relic
	// worlds).
	ArrowPurple Arrow = "PURPLE"
	// ArrowRed is a stealing converter, run during the Zeth steal
	// phase.
	ArrowRed Arrow = "RED"
)

// Converter is the inner converter definition embedded wherever a card
// needs one: a phase color plus input and output item lists.
type Converter struct {
	Arrow   Arrow  `json:"color"`
	Inputs  []Item `json:"input"`
	Outputs []Item `json:"output"`
}

// ReferenceStore is the read-only slice of the loaded reference data a
// converter needs when resolving its upgraded definition. The full
// store satisfies it.
type ReferenceStore interface {
	Colony(id ColonyID) (Colony, bool)
	Prototype(id TechID) (ConverterPrototype, bool)
}

// Convertible is the capability contract implemented by every
// resource-transforming entity: colonies, technology-card converters,
// relic worlds and paired starting converters. The set of
// implementations is closed; game state dispatches over the known
// concrete types.
type Convertible interface {
	// Input returns the items required to run the converter.
	// Converters with empty input run for free and are always
	// scheduled when their phase color is active.
	Input() []Item

	// Output returns the items produced when the converter runs.
	Output() []Item

	// InputValue returns the raw valuation of cube-bearing inputs.
	InputValue() numeric.Fraction

	// OutputValue returns the raw valuation of cube-bearing outputs.
	OutputValue() numeric.Fraction

	// InputValueAdjusted returns the input valuation adjusted for
	// inflation at the given rate over the remaining turns. Turns
	// remaining is 6 on the first confluence.
	InputValueAdjusted(rate numeric.Fraction, turnsLeft int) (numeric.Fraction, error)

	// OutputValueAdjusted is the output counterpart of
	// InputValueAdjusted.
	OutputValueAdjusted(rate numeric.Fraction, turnsLeft int) (numeric.Fraction, error)

	// Free reports whether the converter runs without input cost.
	Free() bool

	// Upgradable reports whether the converter can be upgraded.
	Upgradable() bool

	// UpgradeOpts returns how many mutually exclusive upgrade paths
	// exist. Guaranteed present iff the converter is upgradable.
	UpgradeOpts() (int, bool)

	// UpgradeCost returns the cost of a given path. Guaranteed
	// present iff the path index is valid.
	UpgradeCost(opt int) (Upgrade, bool)

	// Upgrade mutates the converter in place to its upgraded form,
	// reading the upgraded definition from the reference store. It is
	// a no-op if the converter is already upgraded or the option is
	// invalid. The caller must already have deducted the cost; this
	// never touches ownership or payment.
	Upgrade(ref ReferenceStore, opt int)

	// UpgradeToken returns which limited-supply authorization token
	// is consumed to exercise an upgrade, if any.
	UpgradeToken() (UpgradeToken, bool)

	// Color returns the phase color of the converter.
	Color() Arrow
}

// itemsValue sums the raw valuation of cube-bearing items. Colonies
// and tokens contribute zero.
func itemsValue(items []Item) numeric.Fraction {
	sum := numeric.Zero()
	for _, it := range items {
		if it.Kind != ItemCubes && it.Kind != ItemDonationCubes {
			continue
		}
		sum = sum.Add(it.Cube.Value().MulInt(int64(it.Qty)))
	}
	return sum
}

// itemsValueAdjusted sums cube-bearing items with commodity cubes
// adjusted for inflation. The compounded rate is applied to every
// contribution except ships (face value) and victory points (six times
// their nominal per-unit weight); the sum is divided by the compounded
// rate once at the end, so turnsLeft of 1 applies no discount.
func itemsValueAdjusted(items []Item, rate numeric.Fraction, turnsLeft int) (numeric.Fraction, error) {
	compound := numeric.One()
	for i := 1; i < turnsLeft; i++ {
		compound = compound.Mul(rate)
	}
	sum := numeric.Zero()
	for _, it := range items {
		if it.Kind != ItemCubes && it.Kind != ItemDonationCubes {
			continue
		}
		switch it.Cube {
		case CubeShip:
			sum = sum.AddInt(int64(it.Qty))
		case CubeVictoryPoint:
			sum = sum.AddInt(int64(6 * it.Qty))
		default:
			sum = sum.Add(compound.Mul(it.Cube.Value().MulInt(int64(it.Qty))))
		}
	}
	return sum.Div(compound)
}
