package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"skill-studio/engine/timeline"
)

type source interface {
	Load() ([]byte, error)
	Path() string
}

type fileSource struct {
	path string
}

func (f fileSource) Load() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f fileSource) Path() string {
	return f.path
}

// Entry is the resolved catalog record for one step type.
type Entry struct {
	Type           timeline.StepType
	DisplayName    string
	DurationFrames int
	Color          string
	Params         []ParamDescriptor
}

func (e Entry) clone() Entry {
	cloned := e
	if len(e.Params) > 0 {
		cloned.Params = append([]ParamDescriptor(nil), e.Params...)
	}
	return cloned
}

// Resolver merges one or more catalog sources into a stable lookup table.
// Step types absent from every source fall back to compiled-in defaults, so
// a partial or missing definitions file never leaves the palette empty.
// Call Reload to pick up on-disk changes (used for dev hot reload).
type Resolver struct {
	mu      sync.RWMutex
	sources []source
	entries map[timeline.StepType]Entry
}

// DefaultPaths returns the canonical catalog locations relative to the engine
// module root. Callers may pass these to Load.
func DefaultPaths() []string {
	candidates := []string{
		filepath.Join("config", "steps", "definitions.json"),
		filepath.Join("..", "config", "steps", "definitions.json"),
	}

	paths := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		cleaned := filepath.Clean(candidate)
		if _, duplicate := seen[cleaned]; duplicate {
			continue
		}
		seen[cleaned] = struct{}{}
		paths = append(paths, cleaned)
	}
	return paths
}

// Load constructs a Resolver backed by the provided catalog file paths.
func Load(paths ...string) (*Resolver, error) {
	sources := make([]source, 0, len(paths))
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		sources = append(sources, fileSource{path: trimmed})
	}
	return NewResolver(sources...)
}

// NewResolver constructs a Resolver from arbitrary sources. Tests can supply
// in-memory sources while production code uses fileSource.
func NewResolver(sources ...source) (*Resolver, error) {
	r := &Resolver{
		sources: append([]source(nil), sources...),
		entries: make(map[timeline.StepType]Entry),
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-parses all catalog sources. Later sources override earlier ones
// to support local overlays during development.
func (r *Resolver) Reload() error {
	if r == nil {
		return nil
	}
	entries := defaultEntries()
	for _, src := range r.sources {
		data, err := src.Load()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("catalog: failed loading %s: %w", src.Path(), err)
		}
		documents, err := decodeEntries(data)
		if err != nil {
			return fmt.Errorf("catalog: failed parsing %s: %w", src.Path(), err)
		}
		seen := make(map[timeline.StepType]struct{}, len(documents))
		for _, doc := range documents {
			stepType := timeline.StepType(strings.TrimSpace(doc.Type))
			if stepType == "" {
				return fmt.Errorf("catalog: entry missing type in %s", src.Path())
			}
			if !stepType.Valid() {
				return fmt.Errorf("catalog: unknown step type %q in %s", stepType, src.Path())
			}
			if _, dup := seen[stepType]; dup {
				return fmt.Errorf("catalog: duplicate type %q in %s", stepType, src.Path())
			}
			seen[stepType] = struct{}{}

			if doc.DurationFrames < 1 {
				return fmt.Errorf("catalog: entry %q sets durationFrames to %d; at least 1 frame is required", stepType, doc.DurationFrames)
			}
			displayName := strings.TrimSpace(doc.DisplayName)
			if displayName == "" {
				return fmt.Errorf("catalog: entry %q missing displayName", stepType)
			}

			entries[stepType] = Entry{
				Type:           stepType,
				DisplayName:    displayName,
				DurationFrames: doc.DurationFrames,
				Color:          doc.Color,
				Params:         append([]ParamDescriptor(nil), doc.Params...),
			}
		}
	}

	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()
	return nil
}

// Resolve returns the catalog entry for the provided step type.
func (r *Resolver) Resolve(stepType timeline.StepType) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[stepType]
	if !ok {
		return Entry{}, false
	}
	return entry.clone(), true
}

// DurationTable returns the default placement durations keyed by step type,
// in the shape the engine config consumes.
func (r *Resolver) DurationTable() map[timeline.StepType]int {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	table := make(map[timeline.StepType]int, len(r.entries))
	for stepType, entry := range r.entries {
		table[stepType] = entry.DurationFrames
	}
	return table
}

// Entries returns a cloned snapshot of the catalog ordered by step type.
func (r *Resolver) Entries() []Entry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry.clone())
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Type < entries[j].Type })
	return entries
}

func defaultEntries() map[timeline.StepType]Entry {
	defaults := []Entry{
		{
			Type: timeline.StepMove, DisplayName: "Move", DurationFrames: 50, Color: "#4f8fe8",
			Params: []ParamDescriptor{
				{Name: "target", Kind: "string", Description: "Actor to move"},
				{Name: "targetX", Kind: "position", Description: "Destination x"},
				{Name: "targetY", Kind: "position", Description: "Destination y"},
				{Name: "duration", Kind: "number", Description: "Travel time in ms"},
				{Name: "ease", Kind: "string", Default: "linear"},
			},
		},
		{
			Type: timeline.StepDamage, DisplayName: "Damage", DurationFrames: 30, Color: "#e85454",
			Params: []ParamDescriptor{
				{Name: "value", Kind: "number", Description: "Damage dealt at the segment midpoint"},
			},
		},
		{
			Type: timeline.StepEffect, DisplayName: "Effect", DurationFrames: 40, Color: "#b06fe8",
			Params: []ParamDescriptor{
				{Name: "effectId", Kind: "string", Description: "Visual effect identifier"},
				{Name: "x", Kind: "position"},
				{Name: "y", Kind: "position"},
			},
		},
		{
			Type: timeline.StepWait, DisplayName: "Wait", DurationFrames: 30, Color: "#8a8a8a",
			Params: []ParamDescriptor{
				{Name: "delay", Kind: "number", Description: "Pause length in ms"},
			},
		},
		{
			Type: timeline.StepCamera, DisplayName: "Camera", DurationFrames: 40, Color: "#4fc6e8",
			Params: []ParamDescriptor{
				{Name: "zoom", Kind: "number", Default: 1.0},
				{Name: "offsetX", Kind: "position"},
				{Name: "offsetY", Kind: "position"},
				{Name: "duration", Kind: "number"},
			},
		},
		{
			Type: timeline.StepShake, DisplayName: "Shake", DurationFrames: 30, Color: "#e8a64f",
			Params: []ParamDescriptor{
				{Name: "intensity", Kind: "number"},
				{Name: "duration", Kind: "number"},
			},
		},
		{
			Type: timeline.StepBackground, DisplayName: "Background", DurationFrames: 20, Color: "#5fe87f",
			Params: []ParamDescriptor{
				{Name: "color", Kind: "string", Description: "Hex backdrop color"},
				{Name: "image", Kind: "string", Description: "Backdrop image path"},
			},
		},
	}
	entries := make(map[timeline.StepType]Entry, len(defaults))
	for _, entry := range defaults {
		entries[entry.Type] = entry
	}
	return entries
}

func decodeEntries(data []byte) ([]EntryDocument, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		var entries []EntryDocument
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	case '{':
		var object map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &object); err != nil {
			return nil, err
		}
		types := make([]string, 0, len(object))
		for stepType := range object {
			types = append(types, stepType)
		}
		sort.Strings(types)
		entries := make([]EntryDocument, 0, len(types))
		for _, stepType := range types {
			var entry EntryDocument
			if err := json.Unmarshal(object[stepType], &entry); err != nil {
				return nil, fmt.Errorf("entry %q: %w", stepType, err)
			}
			if entry.Type == "" {
				entry.Type = stepType
			} else if entry.Type != stepType {
				return nil, fmt.Errorf("entry type %q does not match key %q", entry.Type, stepType)
			}
			entries = append(entries, entry)
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("unexpected json token %q", string(trimmed[:1]))
	}
}
