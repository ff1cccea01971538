package matter

import (
	"reflect"
)

// DeepHash returns a deterministic structural hash of v.
//
// Generated HashCode methods inline the primitive formulas and delegate to
// DeepHash for reference, array, collection, set, map and optional fields.
// The formulas mirror the primitive accumulation constants used by the
// generated code so that wrapping a primitive in a reference does not
// change its contribution:
//
//   - nil (and nil pointers, interfaces, slices, maps) hash to 0
//   - booleans hash to 1231 or 1237
//   - integers narrower than 64 bits widen, 64-bit integers XOR-fold
//   - float32 hashes to its canonicalized bit pattern unless it is zero,
//     float64 XOR-folds its canonicalized bit pattern; all NaNs collapse
//     to one quiet NaN
//   - strings use a 31-based rune accumulation
//   - slices and arrays accumulate element hashes in order with
//     h = 31*h + elem starting from 1
//   - maps sum key^value entry hashes, making the result independent of
//     iteration order
//   - structs accumulate field hashes in declaration order
//
// Two structurally equal values always produce identical hashes.
func DeepHash(v any) int32 {
	if v == nil {
		return 0
	}
	return hashValue(reflect.ValueOf(v))
}

func hashValue(rv reflect.Value) int32 {
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return 1231
		}
		return 1237
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return int32(rv.Int())
	case reflect.Int, reflect.Int64:
		return fold64(uint64(rv.Int()))
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return int32(rv.Uint())
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return fold64(rv.Uint())
	case reflect.Float32:
		f := float32(rv.Float())
		if f == 0 {
			return 0
		}
		return int32(Float32Bits(f))
	case reflect.Float64:
		return fold64(Float64Bits(rv.Float()))
	case reflect.String:
		var h int32
		for _, r := range rv.String() {
			h = 31*h + r
		}
		return h
	case reflect.Slice:
		if rv.IsNil() {
			return 0
		}
		return hashSequence(rv)
	case reflect.Array:
		return hashSequence(rv)
	case reflect.Map:
		if rv.IsNil() {
			return 0
		}
		var h int32
		it := rv.MapRange()
		for it.Next() {
			h += hashValue(it.Key()) ^ hashValue(it.Value())
		}
		return h
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return 0
		}
		return hashValue(rv.Elem())
	case reflect.Struct:
		h := int32(1)
		for i := range rv.NumField() {
			h = 31*h + hashValue(rv.Field(i))
		}
		return h
	default:
		// Channels, funcs and unsafe pointers have no structural identity.
		return 0
	}
}

func hashSequence(rv reflect.Value) int32 {
	h := int32(1)
	for i := range rv.Len() {
		h = 31*h + hashValue(rv.Index(i))
	}
	return h
}

// fold64 truncates a 64-bit value to 32 bits by XOR-folding the halves,
// matching the generated accumulation for 64-bit integers and doubles.
func fold64(v uint64) int32 {
	return int32(uint32(v ^ (v >> 32)))
}
