// Package conv collects tiny helper functions that are not part of the public API
// but aid internal conversions.
//
// It exposes `AsInt` and `AsInt32` which coerce loosely typed values (numbers,
// numeric strings, json.Number) into plain integers, yielding 0 otherwise.
package conv
