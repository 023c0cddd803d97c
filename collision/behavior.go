package collision

import "fmt"

// Category identifies the kind of behavior attached to a tile. The set is
// closed; the game only recognizes these values.
type Category uint8

// The values are the encoded category byte.
const (
	CategoryNone Category = iota
	CategorySolid
	CategorySlope
	CategoryPipe
	CategoryClimbable
	CategoryLiquid
	CategoryConveyor
	numCategories
)

var categoryNames = [numCategories]string{
	"None",
	"Solid",
	"Slope",
	"Pipe",
	"Climbable",
	"Liquid",
	"Conveyor",
}

func (c Category) String() string {
	if c < numCategories {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// Behavior is one of None, Solid, Slope, Pipe, Climbable, Liquid or
// Conveyor. Each carries only the parameters its category needs.
type Behavior interface {
	Category() Category
	param() (byte, error)
}

// None is the behavior of a plain tile.
type None struct{}

// Solid blocks movement from every side.
type Solid struct{}

// Slope is a sloped surface.
type Slope struct {
	Angle SlopeAngle
	// Reverse slopes hang from a ceiling.
	Reverse bool
}

// Pipe is part of a pipe, open on the given side.
type Pipe struct {
	Orientation PipeOrientation
}

// Climbable can be climbed but not walked on.
type Climbable struct{}

// Liquid is a body of liquid.
type Liquid struct {
	Kind LiquidKind
}

// Conveyor moves anything standing on it.
type Conveyor struct {
	Direction ConveyorDirection
	Fast      bool
}

// Category implements Behavior.
func (None) Category() Category { return CategoryNone }

// Category implements Behavior.
func (Solid) Category() Category { return CategorySolid }

// Category implements Behavior.
func (Slope) Category() Category { return CategorySlope }

// Category implements Behavior.
func (Pipe) Category() Category { return CategoryPipe }

// Category implements Behavior.
func (Climbable) Category() Category { return CategoryClimbable }

// Category implements Behavior.
func (Liquid) Category() Category { return CategoryLiquid }

// Category implements Behavior.
func (Conveyor) Category() Category { return CategoryConveyor }

func (None) param() (byte, error)      { return 0, nil }
func (Solid) param() (byte, error)     { return 0, nil }
func (Climbable) param() (byte, error) { return 0, nil }

const slopeReverse = 0x80

func (s Slope) param() (byte, error) {
	if s.Angle >= numSlopeAngles {
		return 0, invalid("slope angle %d", s.Angle)
	}
	b := byte(s.Angle)
	if s.Reverse {
		b |= slopeReverse
	}
	return b, nil
}

func (p Pipe) param() (byte, error) {
	if p.Orientation >= numPipeOrientations {
		return 0, invalid("pipe orientation %d", p.Orientation)
	}
	return byte(p.Orientation), nil
}

func (l Liquid) param() (byte, error) {
	if l.Kind >= numLiquidKinds {
		return 0, invalid("liquid kind %d", l.Kind)
	}
	return byte(l.Kind), nil
}

const (
	conveyorLeft = 1 << iota
	conveyorFast
)

func (c Conveyor) param() (byte, error) {
	var b byte
	switch c.Direction {
	case ConveyorRight:
	case ConveyorLeft:
		b |= conveyorLeft
	default:
		return 0, invalid("conveyor direction %d", c.Direction)
	}
	if c.Fast {
		b |= conveyorFast
	}
	return b, nil
}

func decodeBehavior(c, p byte) (Behavior, error) {
	switch Category(c) {
	case CategoryNone, CategorySolid, CategoryClimbable:
		if p != 0 {
			return nil, invalid("parameter %#02x for %s", p, Category(c))
		}
	}

	switch Category(c) {
	case CategoryNone:
		return None{}, nil
	case CategorySolid:
		return Solid{}, nil
	case CategoryClimbable:
		return Climbable{}, nil
	case CategorySlope:
		if SlopeAngle(p&^slopeReverse) >= numSlopeAngles {
			return nil, invalid("slope angle %d", p&^slopeReverse)
		}
		return Slope{Angle: SlopeAngle(p &^ slopeReverse), Reverse: p&slopeReverse != 0}, nil
	case CategoryPipe:
		if PipeOrientation(p) >= numPipeOrientations {
			return nil, invalid("pipe orientation %d", p)
		}
		return Pipe{Orientation: PipeOrientation(p)}, nil
	case CategoryLiquid:
		if LiquidKind(p) >= numLiquidKinds {
			return nil, invalid("liquid kind %d", p)
		}
		return Liquid{Kind: LiquidKind(p)}, nil
	case CategoryConveyor:
		if p&^(conveyorLeft|conveyorFast) != 0 {
			return nil, invalid("conveyor parameter %#02x", p)
		}
		d := ConveyorRight
		if p&conveyorLeft != 0 {
			d = ConveyorLeft
		}
		return Conveyor{Direction: d, Fast: p&conveyorFast != 0}, nil
	}
	return nil, invalid("category %d", c)
}
