package entity

import (
	"github.com/cubatrice/engine/internal/numeric"
)

// RelicWorld is the closed enumeration of Faderan relic artifacts.
// Each carries a fixed (possibly empty) input/output and phase color
// baked into its identity. Relic worlds are never upgradable.
type RelicWorld string

const (
	GiftOfTheDuruntai        RelicWorld = "GIFT_OF_THE_DURUNTAI"
	ContextualIntegratorCache RelicWorld = "CONTEXTUAL_INTEGRATOR_CACHE"
	AutomatedTransportNetwork RelicWorld = "AUTOMATED_TRANSPORT_NETWORK"
	RelicDetector            RelicWorld = "RELIC_DETECTOR"
	LibraryOfEntelechy       RelicWorld = "LIBRARY_OF_ENTELECHY"
	TransmutiveDecomposer    RelicWorld = "TRANSMUTIVE_DECOMPOSER"
	NalgorianGrindstone      RelicWorld = "NALGORIAN_GRINDSTONE"
	StarsRuin                RelicWorld = "STARS_RUIN"
	ParadiseConverter        RelicWorld = "PARADISE_CONVERTER"
	BarianTradeArmada        RelicWorld = "BARIAN_TRADE_ARMADA"
	ThilsDemiring            RelicWorld = "THILS_DEMIRING"
	TheGrandArmilla          RelicWorld = "THE_GRAND_ARMILLA"
)

// AllRelicWorlds lists every relic world in canonical order.
func AllRelicWorlds() []RelicWorld {
	return []RelicWorld{
		GiftOfTheDuruntai, ContextualIntegratorCache,
		AutomatedTransportNetwork, RelicDetector, LibraryOfEntelechy,
		TransmutiveDecomposer, NalgorianGrindstone, StarsRuin,
		ParadiseConverter, BarianTradeArmada, ThilsDemiring,
		TheGrandArmilla,
	}
}

var (
	atnOut = []Item{CubesItem(CubeFood, 1)}

	libraryOut = []Item{
		DonationCubesItem(CubeVictoryPoint, 1),
		DonationCubesItem(CubeInformation, 1),
		DonationCubesItem(CubeFood, 1),
		DonationCubesItem(CubeCulture, 1),
	}

	transmutiveIn  = []Item{CubesItem(CubeShip, 2)}
	transmutiveOut = []Item{
		CubesItem(CubeUltratech, 1),
		CubesItem(CubePower, 1),
		CubesItem(CubeIndustry, 1),
		CubesItem(CubeFood, 1),
	}

	nalgorianIn  = []Item{CubesItem(CubeVictoryPoint, 1)}
	nalgorianOut = []Item{
		CubesItem(CubeBiotech, 1),
		CubesItem(CubeInformation, 1),
		CubesItem(CubeIndustry, 1),
		CubesItem(CubeFood, 1),
	}

	paradiseIn  = []Item{ColonyItem(BiomeAny)}
	paradiseOut = []Item{CubesItem(CubeVictoryPoint, 2)}

	thilsIn = []Item{
		CubesItem(CubeInformation, 1),
		CubesItem(CubePower, 1),
	}
	thilsOut = []Item{CubesItem(CubeVictoryPoint, 2)}

	armillaOut = []Item{CubesItem(CubeShip, 4)}
)

// Input implements Convertible.
func (w RelicWorld) Input() []Item {
	switch w {
	case TransmutiveDecomposer:
		return transmutiveIn
	case NalgorianGrindstone:
		return nalgorianIn
	case ParadiseConverter:
		return paradiseIn
	case ThilsDemiring:
		return thilsIn
	}
	return nil
}

// Output implements Convertible.
func (w RelicWorld) Output() []Item {
	switch w {
	case AutomatedTransportNetwork:
		return atnOut
	case LibraryOfEntelechy:
		return libraryOut
	case TransmutiveDecomposer:
		return transmutiveOut
	case NalgorianGrindstone:
		return nalgorianOut
	case ParadiseConverter:
		return paradiseOut
	case ThilsDemiring:
		return thilsOut
	case TheGrandArmilla:
		return armillaOut
	}
	return nil
}

// InputValue implements Convertible.
func (w RelicWorld) InputValue() numeric.Fraction { return itemsValue(w.Input()) }

// OutputValue implements Convertible.
func (w RelicWorld) OutputValue() numeric.Fraction { return itemsValue(w.Output()) }

// InputValueAdjusted implements Convertible.
func (w RelicWorld) InputValueAdjusted(rate numeric.Fraction, turnsLeft int) (numeric.Fraction, error) {
	return itemsValueAdjusted(w.Input(), rate, turnsLeft)
}

// OutputValueAdjusted implements Convertible.
func (w RelicWorld) OutputValueAdjusted(rate numeric.Fraction, turnsLeft int) (numeric.Fraction, error) {
	return itemsValueAdjusted(w.Output(), rate, turnsLeft)
}

// Free implements Convertible.
func (w RelicWorld) Free() bool { return len(w.Input()) == 0 }

// Upgradable implements Convertible. Relic worlds never upgrade.
func (w RelicWorld) Upgradable() bool { return false }

// UpgradeOpts implements Convertible.
func (w RelicWorld) UpgradeOpts() (int, bool) { return 0, false }

// UpgradeCost implements Convertible.
func (w RelicWorld) UpgradeCost(opt int) (Upgrade, bool) { return Upgrade{}, false }

// Upgrade implements Convertible as a no-op.
func (w RelicWorld) Upgrade(ref ReferenceStore, opt int) {}

// UpgradeToken implements Convertible.
func (w RelicWorld) UpgradeToken() (UpgradeToken, bool) { return "", false }

// Color implements Convertible. Only the paradise converter runs
// during the trade phase.
func (w RelicWorld) Color() Arrow {
	if w == ParadiseConverter {
		return ArrowPurple
	}
	return ArrowWhite
}
