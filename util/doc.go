// Package util provides small generic helpers shared across lipsync packages.
//
// It includes pointer helpers for optional values, size parsing for
// configuration strings and float comparison helpers for timestamps.
package util
