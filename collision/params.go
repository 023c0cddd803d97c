package collision

import "fmt"

// SlopeAngle is the shape of a slope tile.
type SlopeAngle uint8

// Slope angles, in the order the game numbers them.
const (
	SlopeSteepUp SlopeAngle = iota
	SlopeSteepDown
	SlopeUp1
	SlopeUp2
	SlopeDown1
	SlopeDown2
	SlopeVerySteepUp1
	SlopeVerySteepUp2
	SlopeVerySteepDown1
	SlopeVerySteepDown2
	SlopeEdge
	SlopeGentleUp1
	SlopeGentleUp2
	SlopeGentleUp3
	SlopeGentleUp4
	SlopeGentleDown1
	SlopeGentleDown2
	SlopeGentleDown3
	SlopeGentleDown4
	numSlopeAngles
)

// PipeOrientation is the side of a pipe tile that is open.
type PipeOrientation uint8

// Pipe orientations.
const (
	PipeTop PipeOrientation = iota
	PipeBottom
	PipeLeft
	PipeRight
	numPipeOrientations
)

var pipeNames = [numPipeOrientations]string{"top", "bottom", "left", "right"}

func (o PipeOrientation) String() string {
	if o < numPipeOrientations {
		return pipeNames[o]
	}
	return fmt.Sprintf("PipeOrientation(%d)", uint8(o))
}

// LiquidKind is the type of liquid.
type LiquidKind uint8

// Liquid kinds.
const (
	LiquidWater LiquidKind = iota
	LiquidLava
	LiquidPoison
	LiquidQuicksand
	numLiquidKinds
)

// ConveyorDirection is the direction a conveyor moves.
type ConveyorDirection uint8

// Conveyor directions.
const (
	ConveyorRight ConveyorDirection = iota
	ConveyorLeft
)

// Flags are behavior modifiers that apply to any category.
type Flags uint8

// Flag bits as encoded.
const (
	FlagPassThrough Flags = 1 << iota
	FlagPassDown
	FlagBreakable
	FlagFalling
	FlagLedge
	FlagMeltable
	flagMask = 1<<iota - 1
)

// Has reports whether every bit of f2 is set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// Terrain changes the sound and feel of walking on a tile.
type Terrain uint8

// Terrain types.
const (
	TerrainDefault Terrain = iota
	TerrainIce
	TerrainSnow
	TerrainQuicksand
	TerrainConveyorRight
	TerrainConveyorLeft
	TerrainRope
	TerrainAntiWallJump
	TerrainLedge
	TerrainLadder
	TerrainStaircase
	TerrainCarpet
	TerrainDusty
	TerrainGrass
	TerrainMuffled
	TerrainBeachSand
	numTerrains
)
