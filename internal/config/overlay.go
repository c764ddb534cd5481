package config

import (
	"encoding/json"
	"os"
	"strings"
)

// Overlay is a two-layer key/value store: a read-only global layer (the
// application-wide Config) and a writable local layer (per-instance
// overrides). Reads check the local layer first and fall back to global;
// writes only ever touch the local layer, which is the only layer persisted
// and only when it has been mutated since load.
type Overlay struct {
	global map[string]any
	local  map[string]any
	path   string
	dirty  bool
}

// NewOverlay builds an Overlay whose bottom layer is global (flattened to a
// plain map via a JSON round-trip) and whose top layer is loaded from path,
// if it exists.
func NewOverlay(global *Config, path string) (*Overlay, error) {
	globalMap, err := toMap(global)
	if err != nil {
		return nil, err
	}

	o := &Overlay{
		global: globalMap,
		local:  map[string]any{},
		path:   path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return o, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &o.local); err != nil {
		return nil, err
	}
	return o, nil
}

// Get returns the effective value for key: the local override if set,
// otherwise the global default.
func (o *Overlay) Get(key string) (any, bool) {
	if v, ok := o.local[key]; ok {
		return v, true
	}
	v, ok := o.global[key]
	return v, ok
}

// Set writes a local override, marking the overlay dirty.
func (o *Overlay) Set(key string, value any) {
	o.local[key] = value
	o.dirty = true
}

// Delete removes a local override, reverting key to the global default. A
// no-op (and does not mark dirty) if there was no local override.
func (o *Overlay) Delete(key string) {
	if _, ok := o.local[key]; !ok {
		return
	}
	delete(o.local, key)
	o.dirty = true
}

// Dirty reports whether the local layer has unsaved changes.
func (o *Overlay) Dirty() bool { return o.dirty }

// SaveIfDirty persists the local layer to disk if it has changed since the
// last load or save, then clears the dirty flag.
func (o *Overlay) SaveIfDirty() error {
	if !o.dirty {
		return nil
	}
	data, err := json.MarshalIndent(o.local, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(o.path, data, 0o644); err != nil {
		return err
	}
	o.dirty = false
	return nil
}

// toMap flattens c to its JSON field names, then adds the dotted
// "java.path"/"java.memory.min"/"java.memory.max"/"java.jvmargs" aliases
// the LaunchComposer reads at launch time, so an instance overlay can
// override any of them without a second config model.
func toMap(c *Config) (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	m["java.path"] = c.JavaPath
	m["java.memory.min"] = c.JavaMemoryMin
	m["java.memory.max"] = c.JavaMemoryMax
	m["java.jvmargs"] = strings.Join(c.JVMArgs, " ")

	return m, nil
}
