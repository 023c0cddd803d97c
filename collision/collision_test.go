package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		b    []byte
	}{
		{"none", Descriptor{Behavior: None{}}, []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		{"solid breakable", Descriptor{Behavior: Solid{}, Flags: FlagBreakable}, []byte{1, 0, 4, 0, 0, 0, 0, 0}},
		{"reverse slope", Descriptor{Behavior: Slope{Angle: SlopeGentleUp2, Reverse: true}}, []byte{2, 0x8c, 0, 0, 0, 0, 0, 0}},
		{"pipe", Descriptor{Behavior: Pipe{Orientation: PipeRight}}, []byte{3, 3, 0, 0, 0, 0, 0, 0}},
		{"ladder", Descriptor{Behavior: Climbable{}, Terrain: TerrainLadder}, []byte{4, 0, 0, 9, 0, 0, 0, 0}},
		{"lava", Descriptor{Behavior: Liquid{Kind: LiquidLava}}, []byte{5, 1, 0, 0, 0, 0, 0, 0}},
		{"fast left conveyor", Descriptor{Behavior: Conveyor{Direction: ConveyorLeft, Fast: true}, Flags: FlagPassThrough | FlagLedge}, []byte{6, 3, 0x11, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tt.d.MarshalBinary()
			require.NoError(t, err)
			assert.Equal(t, tt.b, b)

			var d Descriptor
			require.NoError(t, d.UnmarshalBinary(b))
			assert.Equal(t, tt.d, d)
		})
	}
}

func TestDescriptorInvalid(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
	}{
		{"slope angle", Descriptor{Behavior: Slope{Angle: 19}}},
		{"pipe orientation", Descriptor{Behavior: Pipe{Orientation: 4}}},
		{"liquid kind", Descriptor{Behavior: Liquid{Kind: 9}}},
		{"conveyor direction", Descriptor{Behavior: Conveyor{Direction: 2}}},
		{"flags", Descriptor{Flags: 0x40}},
		{"terrain", Descriptor{Terrain: 16}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.d.Validate(), ErrInvalidValue)
		})
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
	}{
		{"category", []byte{7, 0, 0, 0, 0, 0, 0, 0}},
		{"solid parameter", []byte{1, 1, 0, 0, 0, 0, 0, 0}},
		{"slope angle", []byte{2, 0x13, 0, 0, 0, 0, 0, 0}},
		{"pipe", []byte{3, 4, 0, 0, 0, 0, 0, 0}},
		{"conveyor", []byte{6, 4, 0, 0, 0, 0, 0, 0}},
		{"flags", []byte{0, 0, 0x80, 0, 0, 0, 0, 0}},
		{"terrain", []byte{0, 0, 0, 0x10, 0, 0, 0, 0}},
		{"reserved", []byte{0, 0, 0, 0, 0, 0, 1, 0}},
		{"short", []byte{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Descriptor
			assert.ErrorIs(t, d.UnmarshalBinary(tt.b), ErrInvalidValue)
		})
	}
}

func TestTable(t *testing.T) {
	var table Table

	assert.Equal(t, Descriptor{Behavior: None{}}, table.Get(200))

	require.NoError(t, table.Set(200, Descriptor{Behavior: Solid{}}))
	assert.Equal(t, CategorySolid, table.Get(200).Category())
	assert.ErrorIs(t, table.Set(1, Descriptor{Terrain: 99}), ErrInvalidValue)

	b, err := table.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, Size)
	assert.Equal(t, byte(CategorySolid), b[200*RecordSize])

	var out Table
	require.NoError(t, out.UnmarshalBinary(b))
	assert.True(t, table.Equal(&out))

	table.Clear()
	assert.False(t, table.Equal(&out))
	assert.Equal(t, CategoryNone, table.Get(200).Category())
}

func TestTableUnmarshalKeepsState(t *testing.T) {
	var table Table
	require.NoError(t, table.Set(0, Descriptor{Behavior: Climbable{}}))

	b := make([]byte, Size)
	b[Size-RecordSize] = 0xff

	assert.ErrorIs(t, table.UnmarshalBinary(b), ErrInvalidValue)
	assert.ErrorIs(t, table.UnmarshalBinary(b[:10]), ErrInvalidValue)
	assert.Equal(t, CategoryClimbable, table.Get(0).Category())
}

func TestNilBehaviorIsNone(t *testing.T) {
	assert.True(t, Descriptor{}.Equal(Descriptor{Behavior: None{}}))
	assert.Equal(t, CategoryNone, Descriptor{}.Category())
}

func TestCategoryNames(t *testing.T) {
	assert.Equal(t, "Conveyor", CategoryConveyor.String())
	assert.Equal(t, "Category(42)", Category(42).String())
	assert.Equal(t, "right", PipeRight.String())
}
