// Package utils provides common utility functions for the map-editor application.
// It includes the typed conversions used when reading loosely typed feature
// attributes (numbers decoded from JSON, timestamps stored as strings) and
// other shared logic that doesn't fit into domain-specific packages.
package utils
