package models

import "fmt"

// NotFoundError is returned when a canonical key is absent from the centroid store.
// It is recoverable: callers skip the entity and report it.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entity not found: %q", e.Key)
}

// LayoutError is returned for malformed layout input. It aborts the run.
type LayoutError struct {
	Reason string
	Err    error
}

func (e *LayoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("layout failed: %s: %v", e.Reason, e.Err)
	}
	return "layout failed: " + e.Reason
}

func (e *LayoutError) Unwrap() error {
	return e.Err
}

// ConfigError is returned when records, dictionaries or settings cannot be loaded.
// It aborts the run before any layout work starts.
type ConfigError struct {
	Source string // Source is the file or table the value came from.
	Key    string // Key is the offending record name, if any.
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("invalid configuration in %s (%s): %v", e.Source, e.Key, e.Err)
	}
	return fmt.Sprintf("invalid configuration in %s: %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
