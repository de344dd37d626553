// Package nullable decodes the upstream IMDb TSV null sentinel.
package nullable

import "strconv"

// rawSentinel is the literal upstream token standing in for a missing value.
const rawSentinel = `\N`

// isAbsent reports whether a raw TSV field denotes "no value": either the
// upstream sentinel or an empty string.
func isAbsent(raw string) bool {
	return raw == "" || raw == rawSentinel
}

// String decodes a raw TSV field that may hold a string or be absent.
func String(raw string) (string, bool) {
	if isAbsent(raw) {
		return "", false
	}
	return raw, true
}

// Int decodes a raw TSV field into an int, returning ok=false when the field
// is absent. A non-sentinel value that fails to parse is returned as an
// error; the caller drops the enclosing row rather than the whole batch.
func Int(raw string) (int, bool, error) {
	if isAbsent(raw) {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// Uint32 decodes a raw TSV field into a uint32.
func Uint32(raw string) (uint32, bool, error) {
	if isAbsent(raw) {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false, err
	}
	return uint32(n), true, nil
}

// Float32 decodes a raw TSV field into a float32.
func Float32(raw string) (float32, bool, error) {
	if isAbsent(raw) {
		return 0, false, nil
	}
	n, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, false, err
	}
	return float32(n), true, nil
}

// Bool decodes a raw "0"/"1" TSV field into a bool. IMDb encodes booleans as
// integers, never the sentinel, but absence is still tolerated and treated
// as false.
func Bool(raw string) (bool, error) {
	if isAbsent(raw) {
		return false, nil
	}
	switch raw {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return false, err
		}
		return n != 0, nil
	}
}
