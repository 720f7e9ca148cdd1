package logging

import "time"

// Config controls the router buffers and which sinks receive events.
type Config struct {
	EnabledSinks     []string
	BufferSize       int
	MinimumSeverity  Severity
	Fields           map[string]any
	DropWarnInterval time.Duration
	JSONFilePath     string
	JSONFlush        time.Duration
}

// DefaultConfig enables the console sink at info severity.
func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{"console"},
		BufferSize:       256,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: 5 * time.Second,
		JSONFlush:        2 * time.Second,
	}
}

// HasSink reports whether a named sink is enabled.
func (c Config) HasSink(name string) bool {
	for _, sink := range c.EnabledSinks {
		if sink == name {
			return true
		}
	}
	return false
}

// CloneFields copies the ambient fields attached to every event.
func (c Config) CloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	cloned := make(map[string]any, len(c.Fields))
	for key, value := range c.Fields {
		cloned[key] = value
	}
	return cloned
}
