package gen

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// Fingerprint is a stable digest of a target's derived schema. Two runs
// over an unchanged target produce the same fingerprint, so unchanged
// targets can skip re-emission.
type Fingerprint string

// fingerprintSchema is the canonical encoding fed to the digest. Only
// generation-relevant schema state participates; diagnostics and load
// positions do not.
type fingerprintSchema struct {
	Name      string             `msgpack:"name"`
	PkgPath   string             `msgpack:"pkg_path"`
	Public    bool               `msgpack:"public"`
	ToBuilder bool               `msgpack:"to_builder"`
	Fields    []fingerprintField `msgpack:"fields"`
}

type fingerprintField struct {
	Name     string `msgpack:"name"`
	Getter   string `msgpack:"getter"`
	Type     string `msgpack:"type"`
	Kind     int    `msgpack:"kind"`
	Nullable bool   `msgpack:"nullable"`
}

// SchemaFingerprint digests a schema through its canonical encoding.
func SchemaFingerprint(s *TypeSchema) (Fingerprint, error) {
	enc := fingerprintSchema{
		Name:      s.QualifiedName,
		PkgPath:   s.PkgPath,
		Public:    s.Public,
		ToBuilder: s.ToBuilder,
	}
	for _, f := range s.Fields {
		enc.Fields = append(enc.Fields, fingerprintField{
			Name:     f.Name,
			Getter:   f.Getter,
			Type:     f.Type.String(),
			Kind:     int(f.Category.Kind),
			Nullable: f.Nullable,
		})
	}
	b, err := msgpack.Marshal(enc)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", s.QualifiedName, err)
	}
	sum := sha256.Sum256(b)
	return Fingerprint(hex.EncodeToString(sum[:])), nil
}

// Cache persists the fingerprints of the previous run, keyed by
// qualified target name.
type Cache struct {
	path    string
	entries map[string]Fingerprint
	dirty   bool
}

// LoadCache reads a cache file, starting empty if it does not exist or
// cannot be decoded.
func LoadCache(path string) *Cache {
	c := &Cache{path: path, entries: make(map[string]Fingerprint)}
	b, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if err := msgpack.Unmarshal(b, &c.entries); err != nil {
		c.entries = make(map[string]Fingerprint)
	}
	return c
}

// Changed reports whether a schema's fingerprint differs from the cached
// one.
func (c *Cache) Changed(s *TypeSchema) (bool, error) {
	fp, err := SchemaFingerprint(s)
	if err != nil {
		return true, err
	}
	return c.entries[s.QualifiedName] != fp, nil
}

// Update records a schema's fingerprint for the next run.
func (c *Cache) Update(s *TypeSchema) error {
	fp, err := SchemaFingerprint(s)
	if err != nil {
		return err
	}
	if c.entries[s.QualifiedName] != fp {
		c.entries[s.QualifiedName] = fp
		c.dirty = true
	}
	return nil
}

// Save writes the cache file when anything changed since loading.
func (c *Cache) Save() error {
	if !c.dirty {
		return nil
	}
	b, err := msgpack.Marshal(c.entries)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
		return err
	}
	if err := os.WriteFile(c.path, b, 0o644); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Targets returns the cached target names in sorted order.
func (c *Cache) Targets() []string {
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
