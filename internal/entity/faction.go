package entity

import (
	"github.com/cubatrice/engine/internal/numeric"
)

// FactionType is the closed set of playable factions: nine core
// factions, each paired with one alternate ("bifurcation"). Exactly
// one of a pair may be in play per game.
type FactionType string

const (
	CaylionCore FactionType = "CAYLION_CORE"
	EniEtCore   FactionType = "ENI_ET_CORE"
	FaderanCore FactionType = "FADERAN_CORE"
	ImdrilCore  FactionType = "IMDRIL_CORE"
	KitCore     FactionType = "KIT_CORE"
	KjasCore    FactionType = "KJAS_CORE"
	UnityCore   FactionType = "UNITY_CORE"
	YengiiCore  FactionType = "YENGII_CORE"
	ZethCore    FactionType = "ZETH_CORE"
	CaylionAlt  FactionType = "CAYLION_ALT"
	EniEtAlt    FactionType = "ENI_ET_ALT"
	FaderanAlt  FactionType = "FADERAN_ALT"
	ImdrilAlt   FactionType = "IMDRIL_ALT"
	KitAlt      FactionType = "KIT_ALT"
	KjasAlt     FactionType = "KJAS_ALT"
	UnityAlt    FactionType = "UNITY_ALT"
	YengiiAlt   FactionType = "YENGII_ALT"
	ZethAlt     FactionType = "ZETH_ALT"
)

// BidTiebreaker returns the faction's fixed bid tie-break value.
// Higher wins ties.
func (f FactionType) BidTiebreaker() numeric.Fraction {
	switch f {
	case KitCore:
		return frac(100, 1)
	case KitAlt:
		return frac(10, 1)
	case ImdrilCore:
		return frac(8, 1)
	case KjasAlt:
		return frac(15, 2)
	case FaderanCore:
		return frac(7, 1)
	case YengiiAlt:
		return frac(13, 2)
	case KjasCore:
		return frac(6, 1)
	case ImdrilAlt:
		return frac(11, 2)
	case YengiiCore:
		return frac(5, 1)
	case ZethAlt:
		return frac(9, 2)
	case UnityCore:
		return frac(4, 1)
	case UnityAlt:
		return frac(22, 7)
	case EniEtCore:
		return frac(3, 1)
	case ZethCore:
		return frac(2, 1)
	case EniEtAlt:
		return frac(3, 2)
	case CaylionCore:
		return frac(1, 1)
	case CaylionAlt:
		return frac(0, 1)
	case FaderanAlt:
		return frac(-1, 1)
	}
	return numeric.Zero()
}

// ColonySupport returns how many colonies the faction can support.
func (f FactionType) ColonySupport() int {
	switch f {
	case CaylionCore, EniEtCore, YengiiCore, ZethCore,
		CaylionAlt, EniEtAlt, KitAlt, UnityAlt, YengiiAlt:
		return 3
	case FaderanCore:
		return 4
	case ImdrilCore, ImdrilAlt, ZethAlt:
		return 0
	case KitCore:
		return 100
	case KjasCore:
		return 6
	case UnityCore:
		return 1
	case FaderanAlt:
		return 8
	case KjasAlt:
		return 5
	}
	return 0
}

// Name returns the faction's display name.
func (f FactionType) Name() string {
	switch f {
	case CaylionCore:
		return "Cayleon Plutocracy"
	case EniEtCore:
		return "Eni Et Ascendancy"
	case FaderanCore:
		return "Faderan Conclave"
	case ImdrilCore:
		return "Im'dril Nomads"
	case KitCore:
		return "Kt'zr'kt'rtl Adhocracy"
	case KjasCore:
		return "Kjasjavikalimm Directorate"
	case UnityCore:
		return "Unity"
	case YengiiCore:
		return "Yengii Society"
	case ZethCore:
		return "Zeth Anocracy"
	case CaylionAlt:
		return "Caylion Collaborative"
	case EniEtAlt:
		return "Eni Et Engineers"
	case FaderanAlt:
		return "Society of Falling Light"
	case ImdrilAlt:
		return "Grand Fleet"
	case KitAlt:
		return "Kt'zr'kt'rtl Technophiles"
	case KjasAlt:
		return "Kjasjavikalimm Independent Nations"
	case UnityAlt:
		return "Deep Unity"
	case YengiiAlt:
		return "Yengii Jii"
	case ZethAlt:
		return "Charity Syndicate"
	}
	return string(f)
}

// ShortName returns the shared short name of a core faction and its
// bifurcation, used to key faction data files.
func (f FactionType) ShortName() string {
	switch f {
	case CaylionCore, CaylionAlt:
		return "Cayleon"
	case EniEtCore, EniEtAlt:
		return "Eni Et"
	case FaderanCore, FaderanAlt:
		return "Faderan"
	case ImdrilCore, ImdrilAlt:
		return "Imdril"
	case KitCore, KitAlt:
		return "Kit"
	case KjasCore, KjasAlt:
		return "Kjas"
	case UnityCore, UnityAlt:
		return "Unity"
	case YengiiCore, YengiiAlt:
		return "Yengii"
	case ZethCore, ZethAlt:
		return "Zeth"
	}
	return string(f)
}

// Difficulty returns the faction's play difficulty rating.
func (f FactionType) Difficulty() int {
	switch f {
	case FaderanAlt:
		return 7
	case YengiiCore:
		return 6
	case EniEtCore, UnityCore, ImdrilAlt, KitAlt, ZethAlt:
		return 5
	case ImdrilCore, EniEtAlt, KjasAlt, YengiiAlt:
		return 4
	case FaderanCore, ZethCore, CaylionAlt:
		return 3
	case CaylionCore, KjasCore, UnityAlt:
		return 2
	case KitCore:
		return 1
	}
	return 0
}

// Impact returns the faction's table-impact rating.
func (f FactionType) Impact() int {
	switch f {
	case CaylionAlt:
		return 3
	case ZethCore, FaderanAlt, YengiiAlt:
		return 2
	case EniEtCore, KitAlt, ZethAlt:
		return 1
	}
	return 0
}

// Bifurcate returns the paired faction: the alternate for a core
// faction and the core for an alternate. The mapping is symmetric.
func (f FactionType) Bifurcate() FactionType {
	switch f {
	case CaylionCore:
		return CaylionAlt
	case EniEtCore:
		return EniEtAlt
	case FaderanCore:
		return FaderanAlt
	case ImdrilCore:
		return ImdrilAlt
	case KitCore:
		return KitAlt
	case KjasCore:
		return KjasAlt
	case YengiiCore:
		return YengiiAlt
	case UnityCore:
		return UnityAlt
	case ZethCore:
		return ZethAlt
	case CaylionAlt:
		return CaylionCore
	case EniEtAlt:
		return EniEtCore
	case FaderanAlt:
		return FaderanCore
	case ImdrilAlt:
		return ImdrilCore
	case KitAlt:
		return KitCore
	case KjasAlt:
		return KjasCore
	case YengiiAlt:
		return YengiiCore
	case UnityAlt:
		return UnityCore
	case ZethAlt:
		return ZethCore
	}
	return f
}

// CoreFactions lists the nine core factions.
func CoreFactions() []FactionType {
	return []FactionType{
		CaylionCore, EniEtCore, FaderanCore, ImdrilCore, KitCore,
		KjasCore, YengiiCore, UnityCore, ZethCore,
	}
}

// BifurcationFactions lists the nine alternate factions.
func BifurcationFactions() []FactionType {
	return []FactionType{
		CaylionAlt, EniEtAlt, FaderanAlt, ImdrilAlt, KitAlt,
		KjasAlt, YengiiAlt, UnityAlt, ZethAlt,
	}
}

// StartingResources pairs a faction with its starting item grants in
// the reference data files.
type StartingResources struct {
	Faction FactionType `json:"faction"`
	Items   []Item      `json:"items"`
}
