package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExported(t *testing.T) {
	assert.Equal(t, "", exported(""))
	assert.Equal(t, "Name", exported("name"))
	assert.Equal(t, "Name", exported("Name"))
	assert.Equal(t, "FooBuilder", exported("fooBuilder"))
}

func TestFieldIdent(t *testing.T) {
	tests := []struct {
		accessor string
		want     string
	}{
		{"Name", "name"},
		{"name", "name"},
		{"ID", "id"},
		{"URL", "url"},
		{"HTTPCode", "httpCode"},
		{"IDs", "iDs"},
		{"X", "x"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fieldIdent(tt.accessor), "fieldIdent(%q)", tt.accessor)
	}
}

func TestStructField(t *testing.T) {
	assert.Equal(t, "name", structField("name"))
	assert.Equal(t, "_type", structField("type"))
	assert.Equal(t, "_map", structField("map"))
	assert.Equal(t, "_range", structField("range"))
	assert.Equal(t, "_Name", structField("Name"))
}

func TestSingular(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"tags", "tag", true},
		{"users", "user", true},
		{"entries", "entry", true},
		{"children", "child", true},
		// Unchanged by singularization: skipped.
		{"fish", "", false},
		// Singular collides with a Go keyword: skipped.
		{"types", "", false},
		// Singular collides with a predeclared identifier: skipped.
		{"errors", "", false},
		{"strings", "", false},
	}
	for _, tt := range tests {
		got, ok := singular(tt.name)
		assert.Equal(t, tt.ok, ok, "singular(%q) ok", tt.name)
		assert.Equal(t, tt.want, got, "singular(%q)", tt.name)
	}
}
