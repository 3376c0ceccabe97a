// Package centroids holds the merged entity position table used by the pipeline.
package centroids

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/UnknownOlympus/labelmap/internal/models"
)

const (
	sourceBase      = "base records"
	sourceOverrides = "override records"
)

var (
	errEmptyName     = errors.New("record without a name")
	errDuplicateName = errors.New("duplicate record name")
	errMissingAnchor = errors.New("anchor latitude and longitude are required")
)

// Store is the immutable result of merging base records with overrides.
type Store struct {
	entities map[string]models.Entity
	keys     []string
}

// Build merges overrides into base records field by field: a non-null override field
// replaces the base value, every other field keeps the base value. Missing text
// coordinates fall back to the anchor coordinates of the merged record.
func Build(base, overrides []models.CentroidRecord) (*Store, error) {
	merged := make(map[string]models.CentroidRecord, len(base))
	order := make([]string, 0, len(base))

	for _, rec := range base {
		if err := checkRecord(sourceBase, rec); err != nil {
			return nil, err
		}
		if _, dup := merged[rec.Name]; dup {
			return nil, &models.ConfigError{Source: sourceBase, Key: rec.Name, Err: errDuplicateName}
		}
		if rec.Latitude == nil || rec.Longitude == nil {
			return nil, &models.ConfigError{Source: sourceBase, Key: rec.Name, Err: errMissingAnchor}
		}
		merged[rec.Name] = rec
		order = append(order, rec.Name)
	}

	seen := make(map[string]struct{}, len(overrides))
	for _, ovr := range overrides {
		if err := checkRecord(sourceOverrides, ovr); err != nil {
			return nil, err
		}
		if _, dup := seen[ovr.Name]; dup {
			return nil, &models.ConfigError{Source: sourceOverrides, Key: ovr.Name, Err: errDuplicateName}
		}
		seen[ovr.Name] = struct{}{}

		rec, exists := merged[ovr.Name]
		if !exists {
			rec = models.CentroidRecord{Name: ovr.Name}
			order = append(order, ovr.Name)
		}
		merged[ovr.Name] = combine(rec, ovr)
	}

	store := &Store{
		entities: make(map[string]models.Entity, len(merged)),
		keys:     order,
	}
	for _, name := range order {
		rec := merged[name]
		if rec.Latitude == nil || rec.Longitude == nil {
			return nil, &models.ConfigError{Source: sourceOverrides, Key: name, Err: errMissingAnchor}
		}
		anchor := models.Coordinates{Latitude: *rec.Latitude, Longitude: *rec.Longitude}
		text := anchor
		if rec.TextLatitude != nil {
			text.Latitude = *rec.TextLatitude
		}
		if rec.TextLongitude != nil {
			text.Longitude = *rec.TextLongitude
		}
		store.entities[name] = models.Entity{Key: name, Anchor: anchor, Text: text}
	}
	sort.Strings(store.keys)

	return store, nil
}

// combine overwrites the fields of base that are set in patch.
func combine(base, patch models.CentroidRecord) models.CentroidRecord {
	if patch.Latitude != nil {
		base.Latitude = patch.Latitude
	}
	if patch.Longitude != nil {
		base.Longitude = patch.Longitude
	}
	if patch.TextLatitude != nil {
		base.TextLatitude = patch.TextLatitude
	}
	if patch.TextLongitude != nil {
		base.TextLongitude = patch.TextLongitude
	}
	return base
}

func checkRecord(source string, rec models.CentroidRecord) error {
	if rec.Name == "" {
		return &models.ConfigError{Source: source, Err: errEmptyName}
	}
	for _, field := range []struct {
		name  string
		value *float64
		limit float64
	}{
		{"latitude", rec.Latitude, 90},
		{"longitude", rec.Longitude, 180},
		{"text_latitude", rec.TextLatitude, 90},
		{"text_longitude", rec.TextLongitude, 180},
	} {
		if field.value == nil {
			continue
		}
		v := *field.value
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > field.limit {
			return &models.ConfigError{
				Source: source,
				Key:    rec.Name,
				Err:    fmt.Errorf("%s out of range: %v", field.name, v),
			}
		}
	}
	return nil
}

// Lookup returns the entity stored under key or a *models.NotFoundError.
func (s *Store) Lookup(key string) (models.Entity, error) {
	entity, ok := s.entities[key]
	if !ok {
		return models.Entity{}, &models.NotFoundError{Key: key}
	}
	return entity, nil
}

// Has reports whether key is present in the store.
func (s *Store) Has(key string) bool {
	_, ok := s.entities[key]
	return ok
}

// Keys returns the sorted canonical keys of the store.
func (s *Store) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Len returns the number of entities.
func (s *Store) Len() int {
	return len(s.entities)
}
