// Package entity holds the closed game vocabularies (cubes, items,
// tokens, colonies, technologies, factions) and the Convertible
// capability shared by every resource-transforming entity.
package entity

import (
	"github.com/cubatrice/engine/internal/numeric"
)

// CubeType is the closed set of resource unit types. Some types exist
// only virtually, as inputs or outputs on cards; physical cubes that
// players own can only be of concrete types.
type CubeType string

const (
	CubeShip             CubeType = "SHIP"
	CubeCulture          CubeType = "CULTURE"
	CubeFood             CubeType = "FOOD"
	CubeIndustry         CubeType = "INDUSTRY"
	CubeUnitySmall       CubeType = "UNITY_SMALL"
	CubeAnySmall         CubeType = "ANY_SMALL"
	CubeAnySmallNonUnity CubeType = "ANY_SMALL_NON_UNITY"
	CubePower            CubeType = "POWER"
	CubeBiotech          CubeType = "BIOTECH"
	CubeInformation      CubeType = "INFORMATION"
	CubeUnityLarge       CubeType = "UNITY_LARGE"
	CubeAnyLarge         CubeType = "ANY_LARGE"
	CubeAnyLargeNonUnity CubeType = "ANY_LARGE_NON_UNITY"
	CubeUltratech        CubeType = "ULTRATECH"
	CubeVictoryPoint     CubeType = "VICTORY_POINT"
)

// frac builds a fraction from constants known to have a nonzero
// denominator.
func frac(n, d int64) numeric.Fraction {
	f, err := numeric.New(n, d)
	if err != nil {
		panic(err)
	}
	return f
}

// Value returns the suggested raw value of this cube type. Perceived
// value of cubes may change based on supply and demand.
func (t CubeType) Value() numeric.Fraction {
	switch t {
	case CubeCulture, CubeFood, CubeIndustry, CubeShip,
		CubeUnitySmall, CubeAnySmall, CubeAnySmallNonUnity:
		return frac(1, 1)
	case CubePower, CubeBiotech, CubeInformation,
		CubeUnityLarge, CubeAnyLarge, CubeAnyLargeNonUnity:
		return frac(3, 2)
	case CubeUltratech, CubeVictoryPoint:
		return frac(3, 1)
	}
	return numeric.Zero()
}

// IsVirtual reports whether the type is a 'virtual cube'. Virtual
// cubes can only appear as converter inputs or outputs and are never
// instantiated as owned cubes.
func (t CubeType) IsVirtual() bool {
	switch t {
	case CubeAnySmall, CubeAnySmallNonUnity, CubeAnyLarge, CubeAnyLargeNonUnity:
		return true
	}
	return false
}

// Matches reports whether a cube of type rhs satisfies an input slot
// of type t on a converter.
func (t CubeType) Matches(rhs CubeType) bool {
	if t == rhs {
		return true
	}
	switch t {
	case CubeCulture, CubeFood, CubeIndustry:
		return rhs == CubeUnitySmall
	case CubeAnySmallNonUnity:
		return rhs == CubeCulture || rhs == CubeFood || rhs == CubeIndustry
	case CubeAnySmall:
		return rhs == CubeCulture || rhs == CubeFood ||
			rhs == CubeIndustry || rhs == CubeUnitySmall
	case CubePower, CubeBiotech, CubeInformation:
		return rhs == CubeUnityLarge
	case CubeAnyLargeNonUnity:
		return rhs == CubePower || rhs == CubeBiotech || rhs == CubeInformation
	case CubeAnyLarge:
		return rhs == CubePower || rhs == CubeBiotech ||
			rhs == CubeInformation || rhs == CubeUnityLarge
	}
	return false
}

// ConcreteCubeTypes lists every type a physical cube may take, in
// canonical order.
func ConcreteCubeTypes() []CubeType {
	return []CubeType{
		CubeShip, CubeCulture, CubeFood, CubeIndustry, CubeUnitySmall,
		CubePower, CubeBiotech, CubeInformation, CubeUnityLarge,
		CubeUltratech, CubeVictoryPoint,
	}
}

// Cube is an individual unit of a physical resource. Donation marks a
// cube that must be traded away this phase and remembers the player
// who produced it.
type Cube struct {
	Type     CubeType  `json:"type"`
	Donation *PlayerID `json:"donation,omitempty"`
}

// NewCube creates a cube of the given type.
func NewCube(t CubeType, donation *PlayerID) Cube {
	return Cube{Type: t, Donation: donation}
}

// Value returns the raw value of the cube.
func (c Cube) Value() numeric.Fraction {
	return c.Type.Value()
}

// CubeRecord is an aggregate count of cubes, one signed slot per
// concrete cube type. Wild "any of" categories are views computed over
// concrete slots, never stored.
type CubeRecord struct {
	Food        int `json:"food"`
	Culture     int `json:"culture"`
	Industry    int `json:"industry"`
	SmallWild   int `json:"small_wild"`
	Biotech     int `json:"biotech"`
	Power       int `json:"power"`
	Information int `json:"information"`
	LargeWild   int `json:"large_wild"`
	Ultratech   int `json:"ultratech"`
	Ships       int `json:"ships"`
	Points      int `json:"points"`
}

// RecordCubes aggregates a set of cubes into a CubeRecord. Virtual
// types are skipped; they cannot occur in owned cubes.
func RecordCubes(cubes []Cube) CubeRecord {
	var r CubeRecord
	for _, c := range cubes {
		r.AddType(c.Type, 1)
	}
	return r
}

// AddType adds qty cubes of a concrete type to the record.
func (r *CubeRecord) AddType(t CubeType, qty int) {
	switch t {
	case CubeShip:
		r.Ships += qty
	case CubeCulture:
		r.Culture += qty
	case CubeFood:
		r.Food += qty
	case CubeIndustry:
		r.Industry += qty
	case CubeUnitySmall:
		r.SmallWild += qty
	case CubeBiotech:
		r.Biotech += qty
	case CubePower:
		r.Power += qty
	case CubeInformation:
		r.Information += qty
	case CubeUnityLarge:
		r.LargeWild += qty
	case CubeUltratech:
		r.Ultratech += qty
	case CubeVictoryPoint:
		r.Points += qty
	}
}

// Neg returns the record with every slot negated.
func (r CubeRecord) Neg() CubeRecord {
	return CubeRecord{
		Food:        -r.Food,
		Culture:     -r.Culture,
		Industry:    -r.Industry,
		SmallWild:   -r.SmallWild,
		Biotech:     -r.Biotech,
		Power:       -r.Power,
		Information: -r.Information,
		LargeWild:   -r.LargeWild,
		Ultratech:   -r.Ultratech,
		Ships:       -r.Ships,
		Points:      -r.Points,
	}
}

// Add returns the slot-wise sum of two records.
func (r CubeRecord) Add(rhs CubeRecord) CubeRecord {
	return CubeRecord{
		Food:        r.Food + rhs.Food,
		Culture:     r.Culture + rhs.Culture,
		Industry:    r.Industry + rhs.Industry,
		SmallWild:   r.SmallWild + rhs.SmallWild,
		Biotech:     r.Biotech + rhs.Biotech,
		Power:       r.Power + rhs.Power,
		Information: r.Information + rhs.Information,
		LargeWild:   r.LargeWild + rhs.LargeWild,
		Ultratech:   r.Ultratech + rhs.Ultratech,
		Ships:       r.Ships + rhs.Ships,
		Points:      r.Points + rhs.Points,
	}
}

// Split decomposes the record into its positive and negative halves,
// both nonnegative, such that pos.Add(neg.Neg()) equals the original.
func (r CubeRecord) Split() (pos, neg CubeRecord) {
	return r.gtZero(), r.Neg().gtZero()
}

func (r CubeRecord) gtZero() CubeRecord {
	return CubeRecord{
		Food:        max(r.Food, 0),
		Culture:     max(r.Culture, 0),
		Industry:    max(r.Industry, 0),
		SmallWild:   max(r.SmallWild, 0),
		Biotech:     max(r.Biotech, 0),
		Power:       max(r.Power, 0),
		Information: max(r.Information, 0),
		LargeWild:   max(r.LargeWild, 0),
		Ultratech:   max(r.Ultratech, 0),
		Ships:       max(r.Ships, 0),
		Points:      max(r.Points, 0),
	}
}

// CountType returns the count for a cube type, aggregating the wild
// "any of" views over their concrete slots.
func (r CubeRecord) CountType(t CubeType) int {
	switch t {
	case CubeShip:
		return r.Ships
	case CubeFood:
		return r.Food
	case CubeCulture:
		return r.Culture
	case CubeIndustry:
		return r.Industry
	case CubeUnitySmall:
		return r.SmallWild
	case CubeAnySmall:
		return r.Food + r.Culture + r.Industry + r.SmallWild
	case CubeAnySmallNonUnity:
		return r.Food + r.Culture + r.Industry
	case CubePower:
		return r.Power
	case CubeInformation:
		return r.Information
	case CubeBiotech:
		return r.Biotech
	case CubeUnityLarge:
		return r.LargeWild
	case CubeAnyLarge:
		return r.Power + r.Information + r.Biotech + r.LargeWild
	case CubeAnyLargeNonUnity:
		return r.Power + r.Information + r.Biotech
	case CubeUltratech:
		return r.Ultratech
	case CubeVictoryPoint:
		return r.Points
	}
	return 0
}

// Value returns the raw sum-of-values of the record.
func (r CubeRecord) Value() numeric.Fraction {
	small := int64(r.Food + r.Culture + r.Industry + r.SmallWild + r.Ships)
	large := int64(r.Biotech + r.Power + r.Information + r.LargeWild)
	top := int64(r.Ultratech + r.Points)
	return frac(1, 1).MulInt(small).
		Add(frac(3, 2).MulInt(large)).
		Add(frac(3, 1).MulInt(top))
}

// VPValue returns the victory-point-equivalent value of the record
// using the fixed per-type conversion rates.
func (r CubeRecord) VPValue() numeric.Fraction {
	small := int64(r.Food + r.Culture + r.Industry + r.SmallWild + r.Ships)
	large := int64(r.Biotech + r.Power + r.Information + r.LargeWild)
	return frac(1, 6).MulInt(small).
		Add(frac(1, 4).MulInt(large)).
		Add(frac(1, 2).MulInt(int64(r.Ultratech))).
		Add(frac(1, 1).MulInt(int64(r.Points)))
}
