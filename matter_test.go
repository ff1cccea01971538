package matter_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/matter"
)

func TestNullArgumentError(t *testing.T) {
	t.Parallel()

	err := &matter.NullArgumentError{Name: "tags"}
	assert.Equal(t, "matter: null argument: tags", err.Error())
}

func TestNullArgumentPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		require.NotNil(t, r)
		nae, ok := r.(*matter.NullArgumentError)
		require.True(t, ok, "panic value should be *NullArgumentError, got %T", r)
		assert.Equal(t, "owner", nae.Name)
	}()
	matter.NullArgument("owner")
}

func TestDeepHashPrimitives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    any
		expected int32
	}{
		{"nil", nil, 0},
		{"true", true, 1231},
		{"false", false, 1237},
		{"int32", int32(42), 42},
		{"negative int8", int8(-1), -1},
		{"int64 folds", int64(1) << 32, 1},
		{"float32 positive zero", float32(0), 0},
		{"float32 negative zero", float32(math.Copysign(0, -1)), 0},
		{"float32 one", float32(1), int32(math.Float32bits(1))},
		{"empty string", "", 0},
		{"nil slice", []string(nil), 0},
		{"empty slice", []string{}, 1},
		{"nil map", map[string]int32(nil), 0},
		{"nil pointer", (*string)(nil), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, matter.DeepHash(tt.value))
		})
	}
}

func TestFloatBitsCanonicalizeNaN(t *testing.T) {
	t.Parallel()

	// NaNs with distinct payloads collapse to one bit pattern.
	nan64a := math.NaN()
	nan64b := math.Float64frombits(math.Float64bits(math.NaN()) | 1)
	assert.Equal(t, matter.Float64Bits(nan64a), matter.Float64Bits(nan64b))

	nan32a := float32(math.NaN())
	nan32b := math.Float32frombits(math.Float32bits(nan32a) | 1)
	assert.Equal(t, matter.Float32Bits(nan32a), matter.Float32Bits(nan32b))

	// Ordinary values keep their raw pattern, signed zeros included.
	assert.Equal(t, math.Float64bits(1.5), matter.Float64Bits(1.5))
	assert.NotEqual(t, matter.Float64Bits(0), matter.Float64Bits(math.Copysign(0, -1)))
}

func TestDeepHashNaNIsStable(t *testing.T) {
	t.Parallel()

	a := math.NaN()
	b := math.Float64frombits(math.Float64bits(math.NaN()) | 1)
	assert.Equal(t, matter.DeepHash(a), matter.DeepHash(b))
	assert.Equal(t, matter.DeepHash([]float64{a}), matter.DeepHash([]float64{b}))
}

func TestDeepHashStringAccumulation(t *testing.T) {
	t.Parallel()

	// 31-based accumulation over runes, same shape as the generated
	// primitive formulas.
	assert.Equal(t, int32('a'), matter.DeepHash("a"))
	assert.Equal(t, 31*int32('a')+int32('b'), matter.DeepHash("ab"))
}

func TestDeepHashSequenceOrderSensitive(t *testing.T) {
	t.Parallel()

	a := matter.DeepHash([]string{"x", "y"})
	b := matter.DeepHash([]string{"y", "x"})
	assert.NotEqual(t, a, b)

	// Arrays and slices with identical elements agree.
	assert.Equal(t, matter.DeepHash([2]int32{1, 2}), matter.DeepHash([]int32{1, 2}))
}

func TestDeepHashMapOrderInsensitive(t *testing.T) {
	t.Parallel()

	m1 := map[string]int32{"a": 1, "b": 2, "c": 3}
	m2 := map[string]int32{"c": 3, "b": 2, "a": 1}
	assert.Equal(t, matter.DeepHash(m1), matter.DeepHash(m2))
}

func TestDeepHashEqualValuesAgree(t *testing.T) {
	t.Parallel()

	type pair struct {
		Key   string
		Count int64
	}

	tests := []struct {
		name string
		a, b any
	}{
		{"structs", pair{"k", 9}, pair{"k", 9}},
		{"pointers unwrap", ptr("v"), ptr("v")},
		{"pointer matches value", ptr("v"), "v"},
		{"nested", []map[string]int32{{"a": 1}}, []map[string]int32{{"a": 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, matter.DeepHash(tt.a), matter.DeepHash(tt.b))
		})
	}
}

func ptr[T any](v T) *T { return &v }
