package entity

// Opaque identifiers. Each is a thin integer wrapper, totally ordered
// and usable as a map key. Identifiers are never reused within one
// game; generation is owned by the game state, not by this package.

// PlayerID identifies a player within one game.
type PlayerID int

// CubeID identifies an individual cube so it can be traced through the
// whole economy.
type CubeID int

// ColonyID identifies a colony definition. The upgraded variant of a
// colony lives at the base identifier plus UpgradedIDOffset.
type ColonyID int

// ConverterID identifies a converter instance owned by a player.
type ConverterID int

// TechID identifies a technology card and its converter prototype. As
// with colonies, upgraded prototypes live at the base identifier plus
// UpgradedIDOffset.
type TechID int

// RecordID identifies a record group in the log.
type RecordID int

// UpgradedIDOffset separates base colony/prototype identifiers from
// their upgraded variants in the reference data.
const UpgradedIDOffset = 100
