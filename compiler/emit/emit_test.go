package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/matter/compiler/gen"
)

func mkField(t *testing.T, name, getter string, typ *gen.RawType) *gen.FieldSchema {
	t.Helper()
	cat, err := gen.Classify(typ, gen.DefaultResolver{})
	require.NoError(t, err)
	return &gen.FieldSchema{Name: name, Getter: getter, Type: typ, Category: cat}
}

func basic(name string, scalar gen.ScalarKind) *gen.RawType {
	return &gen.RawType{Kind: gen.RawBasic, Name: name, Scalar: scalar}
}

func personSchema(t *testing.T) *gen.TypeSchema {
	t.Helper()
	str := basic("string", gen.ScalarInvalid)
	i64 := basic("int64", gen.ScalarInt64)
	return &gen.TypeSchema{
		Name:          "Person",
		QualifiedName: "example.com/demo.Person",
		PkgPath:       "example.com/demo",
		PkgName:       "demo",
		ValueName:     "personValue",
		BuilderName:   "PersonBuilder",
		Public:        true,
		ToBuilder:     true,
		Fields: []*gen.FieldSchema{
			mkField(t, "id", "ID", i64),
			mkField(t, "name", "Name", str),
			mkField(t, "active", "Active", basic("bool", gen.ScalarBool)),
			mkField(t, "score", "Score", basic("float64", gen.ScalarFloat64)),
			mkField(t, "note", "Note", &gen.RawType{Kind: gen.RawPointer, Elem: str, Nilable: true}),
			mkField(t, "tags", "Tags", &gen.RawType{Kind: gen.RawSlice, Elem: str, Nilable: true}),
			mkField(t, "roles", "Roles", &gen.RawType{
				Kind: gen.RawMap, Key: str, Elem: &gen.RawType{Kind: gen.RawNamed, Name: "struct{}"}, Nilable: true,
			}),
			mkField(t, "counts", "Counts", &gen.RawType{Kind: gen.RawMap, Key: str, Elem: i64, Nilable: true}),
		},
	}
}

func renderPerson(t *testing.T) string {
	t.Helper()
	return Render(gen.BuildPlan(personSchema(t))).GoString()
}

func TestRender_Header(t *testing.T) {
	code := renderPerson(t)
	assert.Contains(t, code, "Code generated by mattergen. DO NOT EDIT.")
	assert.Contains(t, code, "package demo")
}

func TestRender_ValueType(t *testing.T) {
	code := renderPerson(t)
	assert.Contains(t, code, "type personValue struct {")
	assert.Contains(t, code, "func newPersonValue(id int64, name string, active bool, score float64, note *string, tags []string, roles map[string]struct{}, counts map[string]int64) *personValue {")

	// Absent enforced containers substitute empty ones.
	assert.Contains(t, code, "_v.tags = slices.Clone(tags)")
	assert.Contains(t, code, "_v.tags = []string{}")
	assert.Contains(t, code, "_v.roles = maps.Clone(roles)")
	assert.Contains(t, code, "_v.counts = map[string]int64{}")
}

func TestRender_ValueGetters(t *testing.T) {
	code := renderPerson(t)
	assert.Contains(t, code, "func (_v *personValue) ID() int64 {")
	assert.Contains(t, code, "return _v.id")

	// Container getters return fresh copies.
	assert.Contains(t, code, "func (_v *personValue) Tags() []string {")
	assert.Contains(t, code, "return slices.Clone(_v.tags)")
	assert.Contains(t, code, "return maps.Clone(_v.counts)")

	// Optional getter copies the pointee.
	assert.Contains(t, code, "func (_v *personValue) Note() *string {")
	assert.Contains(t, code, "if _v.note == nil {")
}

func TestRender_ValueEqualHashString(t *testing.T) {
	code := renderPerson(t)
	assert.Contains(t, code, "func (_v *personValue) Equal(o any) bool {")
	assert.Contains(t, code, "that, ok := o.(Person)")
	assert.Contains(t, code, "_v.id != that.ID()")
	assert.Contains(t, code, "matter.Float64Bits(_v.score) != matter.Float64Bits(that.Score())")
	assert.Contains(t, code, "!reflect.DeepEqual(_v.tags, that.Tags())")

	assert.Contains(t, code, "func (_v *personValue) HashCode() int32 {")
	assert.Contains(t, code, "result := int32(1)")
	assert.Contains(t, code, "var temp uint64")
	assert.Contains(t, code, "1231")
	assert.Contains(t, code, "matter.DeepHash(_v.counts)")

	assert.Contains(t, code, "func (_v *personValue) String() string {")
	assert.Contains(t, code, "Person{id=%v, name=%v, active=%v, score=%v, note=%v, tags=%v, roles=%v, counts=%v}")
	assert.Contains(t, code, `var _note any = "<nil>"`)
	assert.Contains(t, code, "_note = *_v.note")
}

func TestRender_ValueToBuilder(t *testing.T) {
	code := renderPerson(t)
	assert.Contains(t, code, "func (_v *personValue) Builder() *PersonBuilder {")
	assert.Contains(t, code, "return newPersonBuilderFromValue(_v)")
}

func TestRender_BuilderConstructors(t *testing.T) {
	code := renderPerson(t)
	assert.Contains(t, code, "type PersonBuilder struct {")
	assert.Contains(t, code, "func NewPersonBuilder() *PersonBuilder {")
	assert.Contains(t, code, "func newPersonBuilderFromValue(v Person) *PersonBuilder {")
	assert.Contains(t, code, "func newPersonBuilderFromBuilder(v *PersonBuilder) *PersonBuilder {")
	assert.Contains(t, code, "_b.tags = slices.Clone(v.Tags())")
	assert.Contains(t, code, "_b.counts = maps.Clone(v.counts)")

	assert.Contains(t, code, "func PersonBuilderFrom(v Person) *PersonBuilder {")
	assert.Contains(t, code, "func PersonBuilderFromBuilder(v *PersonBuilder) *PersonBuilder {")

	// The copying Builder method mirrors the value's.
	assert.Contains(t, code, "func (_b *PersonBuilder) Builder() *PersonBuilder {")
	assert.Contains(t, code, "return newPersonBuilderFromBuilder(_b)")
}

func TestRender_BuilderGetters(t *testing.T) {
	code := renderPerson(t)
	// Enforced container getters lazily instantiate and expose live
	// state.
	assert.Contains(t, code, "func (_b *PersonBuilder) Tags() []string {")
	assert.Contains(t, code, "if _b.tags == nil {")
	assert.Contains(t, code, "_b.tags = []string{}")
	assert.Contains(t, code, "return _b.tags")
}

func TestRender_SimpleSetters(t *testing.T) {
	code := renderPerson(t)
	assert.Contains(t, code, "func (_b *PersonBuilder) SetID(id int64) *PersonBuilder {")
	assert.Contains(t, code, "func (_b *PersonBuilder) SetName(name string) *PersonBuilder {")
	assert.NotContains(t, code, `matter.NullArgument("name")`, "string cannot hold nil")
}

func TestRender_OptionalSetters(t *testing.T) {
	code := renderPerson(t)
	assert.Contains(t, code, "func (_b *PersonBuilder) SetNote(note string) *PersonBuilder {")
	assert.Contains(t, code, "_b.note = &note")
	assert.Contains(t, code, "func (_b *PersonBuilder) SetNillableNote(note *string) *PersonBuilder {")
	assert.Contains(t, code, "if note == nil {")
	assert.Contains(t, code, "_b.note = nil")
}

func TestRender_CollectionMutators(t *testing.T) {
	code := renderPerson(t)
	assert.Contains(t, code, "func (_b *PersonBuilder) SetTags(tags []string) *PersonBuilder {")
	assert.Contains(t, code, `matter.NullArgument("tags")`)
	assert.Contains(t, code, "_b.tags = slices.Clone(tags)")

	assert.Contains(t, code, "func (_b *PersonBuilder) SetTagsSeq(tags iter.Seq[string]) *PersonBuilder {")
	assert.Contains(t, code, "for _item := range tags {")
	assert.Contains(t, code, "_b.tags = append(_b.tags, _item)")

	// A zero-argument variadic call produces an empty collection, not
	// absence.
	assert.Contains(t, code, "func (_b *PersonBuilder) SetTagsOf(tags ...string) *PersonBuilder {\n\tif tags == nil {\n\t\ttags = []string{}\n\t}\n\treturn _b.SetTags(tags)\n}")

	assert.Contains(t, code, "func (_b *PersonBuilder) AddTag(tag string) *PersonBuilder {")
	assert.Contains(t, code, "_b.tags = append(_b.tags, tag)")
}

func TestRender_SetMutators(t *testing.T) {
	code := renderPerson(t)
	assert.Contains(t, code, "func (_b *PersonBuilder) SetRoles(roles map[string]struct{}) *PersonBuilder {")
	assert.Contains(t, code, "_b.roles = maps.Clone(roles)")

	assert.Contains(t, code, "func (_b *PersonBuilder) SetRolesSlice(roles []string) *PersonBuilder {")
	assert.Contains(t, code, "_b.roles = make(map[string]struct{}, len(roles))")
	assert.Contains(t, code, "_b.roles[_item] = struct{}{}")

	assert.Contains(t, code, "func (_b *PersonBuilder) SetRolesSeq(roles iter.Seq[string]) *PersonBuilder {")
	assert.Contains(t, code, "func (_b *PersonBuilder) SetRolesOf(roles ...string) *PersonBuilder {\n\tif roles == nil {\n\t\troles = []string{}\n\t}\n\treturn _b.SetRolesSlice(roles)\n}")

	assert.Contains(t, code, "func (_b *PersonBuilder) AddRole(role string) *PersonBuilder {")
	assert.Contains(t, code, "_b.roles[role] = struct{}{}")
}

func TestRender_MapMutators(t *testing.T) {
	code := renderPerson(t)
	assert.Contains(t, code, "func (_b *PersonBuilder) SetCounts(counts map[string]int64) *PersonBuilder {")
	assert.Contains(t, code, "_b.counts = maps.Clone(counts)")

	assert.Contains(t, code, "func (_b *PersonBuilder) SetCounts1(k1 string, v1 int64) *PersonBuilder {")
	assert.Contains(t, code, "_b.counts = map[string]int64{}")
	assert.Contains(t, code, "_b.counts[k1] = v1")

	assert.Contains(t, code, "func (_b *PersonBuilder) SetCounts3(k1 string, v1 int64, k2 string, v2 int64, k3 string, v3 int64) *PersonBuilder {")
	assert.Contains(t, code, "_b.SetCounts2(k1, v1, k2, v2)")
	assert.Contains(t, code, "func (_b *PersonBuilder) SetCounts5(")
	assert.Contains(t, code, "_b.SetCounts4(k1, v1, k2, v2, k3, v3, k4, v4)")

	assert.Contains(t, code, "func (_b *PersonBuilder) PutCount(key string, value int64) *PersonBuilder {")
	assert.Contains(t, code, "_b.counts[key] = value")
}

func TestRender_Build(t *testing.T) {
	code := renderPerson(t)
	assert.Contains(t, code, "func (_b *PersonBuilder) Build() Person {")
	assert.Contains(t, code, "return newPersonValue(_b.id, _b.name, _b.active, _b.score, _b.note, _b.tags, _b.roles, _b.counts)")
}

func TestRender_NonNilableElementsSkipChecks(t *testing.T) {
	// string elements cannot hold nil, so no per-element guard appears.
	code := renderPerson(t)
	assert.NotContains(t, code, "tags: nil item")
}

func TestRender_NilableElementChecks(t *testing.T) {
	str := basic("string", gen.ScalarInvalid)
	s := &gen.TypeSchema{
		Name:          "Batch",
		QualifiedName: "example.com/demo.Batch",
		PkgPath:       "example.com/demo",
		PkgName:       "demo",
		ValueName:     "batchValue",
		BuilderName:   "BatchBuilder",
		Public:        true,
		Fields: []*gen.FieldSchema{
			mkField(t, "rows", "Rows", &gen.RawType{
				Kind: gen.RawSlice, Nilable: true,
				Elem: &gen.RawType{Kind: gen.RawPointer, Elem: str, Nilable: true},
			}),
		},
	}
	code := Render(gen.BuildPlan(s)).GoString()
	assert.Contains(t, code, `matter.NullArgument("rows: nil item")`)
	assert.Contains(t, code, "if _item == nil {")
}

func TestRender_NullableFieldClearsInsteadOfPanicking(t *testing.T) {
	str := basic("string", gen.ScalarInvalid)
	f := mkField(t, "tags", "Tags", &gen.RawType{Kind: gen.RawSlice, Elem: str, Nilable: true})
	f.Nullable = true
	s := &gen.TypeSchema{
		Name:          "Loose",
		QualifiedName: "example.com/demo.Loose",
		PkgPath:       "example.com/demo",
		PkgName:       "demo",
		ValueName:     "looseValue",
		BuilderName:   "LooseBuilder",
		Public:        true,
		Fields:        []*gen.FieldSchema{f},
	}
	code := Render(gen.BuildPlan(s)).GoString()
	assert.NotContains(t, code, "matter.NullArgument")
	assert.Contains(t, code, "if tags == nil {")
	assert.Contains(t, code, "_b.tags = nil")
}
