// Package catalog loads the designer-authored step definitions that tune how
// the editor palette presents each step type and how long a freshly placed
// segment lasts.
package catalog

// ParamDescriptor documents one tunable a step type exposes to designers.
// Position params accept literal numbers or the symbolic references resolved
// at trigger time.
type ParamDescriptor struct {
	Name        string `json:"name" jsonschema:"title=Param name,pattern=^[a-zA-Z][a-zA-Z0-9]*$,minLength=1,required"`
	Kind        string `json:"kind" jsonschema:"title=Param kind,enum=number,enum=string,enum=position,required"`
	Description string `json:"description,omitempty" jsonschema:"description=Editor tooltip text for the param"`
	Default     any    `json:"default,omitempty" jsonschema:"description=Value pre-filled when the step is authored"`
}

// EntryDocument represents a single catalog entry as it appears on disk. The
// struct is exported so tooling (e.g. schema generators) can reflect over the
// configuration contract shared with designers.
type EntryDocument struct {
	Type           string            `json:"type" jsonschema:"title=Step type,description=Step type identifier this entry configures.,pattern=^[a-z]+$,minLength=1,required"`
	DisplayName    string            `json:"displayName" jsonschema:"title=Display name,description=Palette label shown in the editor.,minLength=1,required"`
	DurationFrames int               `json:"durationFrames" jsonschema:"title=Default duration,description=Frame count a freshly placed segment receives.,minimum=1,required"`
	Color          string            `json:"color,omitempty" jsonschema:"title=Segment color,description=Hex color the editor renders segments of this type with.,pattern=^#[0-9a-fA-F]{6}$"`
	Params         []ParamDescriptor `json:"params,omitempty" jsonschema:"description=Tunables the step exposes to designers"`
}

// FileDefinitions represents the contents of config/steps/definitions.json.
// The catalog loader accepts either arrays or objects keyed by step type; the
// schema models the canonical array format authored by designers.
type FileDefinitions []EntryDocument
