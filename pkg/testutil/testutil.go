// Package testutil provides testing utilities for the data container
package testutil

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// ObservedLogger creates a logger recording entries at level and above, so
// tests can assert on the warnings a component emits.
func ObservedLogger(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

// Columns returns a small column-oriented dataset: a numeric column a,
// a numeric column b and a categorical column c.
func Columns() map[string]interface{} {
	return map[string]interface{}{
		"a": []interface{}{1, 2, 3, 4, 5, 6, 7},
		"b": []interface{}{8, 9, 10, 11, 12, 13, 14},
		"c": []interface{}{"x", "y", "x", "y", "x", "z", "z"},
	}
}

// FeatureCollection returns a GeoJSON feature collection of three points
// with a population property.
func FeatureCollection() map[string]interface{} {
	feature := func(x, y, pop float64) map[string]interface{} {
		return map[string]interface{}{
			"type":       "Feature",
			"geometry":   map[string]interface{}{"type": "Point", "coordinates": []interface{}{x, y}},
			"properties": map[string]interface{}{"pop": pop},
		}
	}
	return map[string]interface{}{
		"type": "FeatureCollection",
		"features": []interface{}{
			feature(0, 0, 10),
			feature(2, 1, 20),
			feature(-1, 3, 30),
		},
	}
}
