package entity

import (
	"github.com/cubatrice/engine/internal/numeric"
)

// PairedConverter is a Kit starting converter: two converters printed
// on one card. Input is the left side's input only; output is the
// concatenation of both sides' outputs, kept in a cache rebuilt
// whenever either side changes. Upgrade option indices 0-1 address the
// left side and 2-3 the right, with the numbering collapsing when the
// left side is not upgradable.
type PairedConverter struct {
	Left  ConverterPrototype `json:"left"`
	Right ConverterPrototype `json:"right"`

	cache []Item
}

// NewPairedConverter builds a paired converter and primes its output
// cache.
func NewPairedConverter(left, right ConverterPrototype) *PairedConverter {
	p := &PairedConverter{Left: left, Right: right}
	p.rebuildCache()
	return p
}

func (p *PairedConverter) rebuildCache() {
	p.cache = p.cache[:0]
	p.cache = append(p.cache, p.Left.Output()...)
	p.cache = append(p.cache, p.Right.Output()...)
}

// Input implements Convertible. The right side's input costs are
// absorbed by the pairing.
func (p *PairedConverter) Input() []Item { return p.Left.Input() }

// Output implements Convertible.
func (p *PairedConverter) Output() []Item {
	if p.cache == nil {
		p.rebuildCache()
	}
	return p.cache
}

// InputValue implements Convertible.
func (p *PairedConverter) InputValue() numeric.Fraction { return itemsValue(p.Input()) }

// OutputValue implements Convertible.
func (p *PairedConverter) OutputValue() numeric.Fraction { return itemsValue(p.Output()) }

// InputValueAdjusted implements Convertible.
func (p *PairedConverter) InputValueAdjusted(rate numeric.Fraction, turnsLeft int) (numeric.Fraction, error) {
	return itemsValueAdjusted(p.Input(), rate, turnsLeft)
}

// OutputValueAdjusted implements Convertible.
func (p *PairedConverter) OutputValueAdjusted(rate numeric.Fraction, turnsLeft int) (numeric.Fraction, error) {
	return itemsValueAdjusted(p.Output(), rate, turnsLeft)
}

// Free implements Convertible.
func (p *PairedConverter) Free() bool { return len(p.Input()) == 0 }

// Upgradable implements Convertible.
func (p *PairedConverter) Upgradable() bool {
	return p.Left.Upgradable() || p.Right.Upgradable()
}

// UpgradeOpts implements Convertible: four paths when both sides are
// upgradable, two when only one side is.
func (p *PairedConverter) UpgradeOpts() (int, bool) {
	if p.Left.Upgradable() && p.Right.Upgradable() {
		return 4, true
	}
	if p.Upgradable() {
		return 2, true
	}
	return 0, false
}

// UpgradeCost implements Convertible, delegating by option index with
// the collapsed numbering.
func (p *PairedConverter) UpgradeCost(opt int) (Upgrade, bool) {
	if opt < 2 && p.Left.Upgradable() {
		return p.Left.UpgradeCost(opt)
	}
	if p.Left.Upgradable() {
		return p.Right.UpgradeCost(opt - 2)
	}
	return p.Right.UpgradeCost(opt)
}

// Upgrade implements Convertible, delegating by option index and
// refreshing the output cache.
func (p *PairedConverter) Upgrade(ref ReferenceStore, opt int) {
	if opt < 2 && p.Left.Upgradable() {
		p.Left.Upgrade(ref, opt)
	} else if p.Left.Upgradable() {
		p.Right.Upgrade(ref, opt-2)
	} else {
		p.Right.Upgrade(ref, opt)
	}
	p.rebuildCache()
}

// UpgradeToken implements Convertible. Paired starting converters
// never consume an upgrade token.
func (p *PairedConverter) UpgradeToken() (UpgradeToken, bool) { return "", false }

// Color implements Convertible. Paired starting converters always run
// during the economy phase.
func (p *PairedConverter) Color() Arrow { return ArrowWhite }
