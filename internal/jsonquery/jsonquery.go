// Package jsonquery evaluates dot/bracket path expressions over decoded
// JSON value trees (the map[string]any / []any shapes produced by
// encoding/json). Resolution is total: any missing key, kind mismatch, or
// out-of-range index falls through to the caller's default.
package jsonquery

import (
	"strconv"
	"strings"
)

// Last is the reserved array index meaning "length-1".
const Last = "last"

// Query resolves path against root and returns the value converted to T.
// If the path does not resolve, or the resolved value is not of T's kind,
// the supplied default is returned. root is never mutated.
func Query[T any](root any, path string, def T) T {
	v, ok := resolve(root, path)
	if !ok {
		return def
	}
	out, ok := convert[T](v)
	if !ok {
		return def
	}
	return out
}

// Exists reports whether path resolves to any value under root.
func Exists(root any, path string) bool {
	_, ok := resolve(root, path)
	return ok
}

// resolve walks the tree one segment per level, left to right.
func resolve(root any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	cur := root
	for _, seg := range strings.Split(path, ".") {
		name, idx, indexed, ok := splitSegment(seg)
		if !ok {
			return nil, false
		}

		obj, isObj := cur.(map[string]any)
		if !isObj {
			return nil, false
		}
		next, present := obj[name]
		if !present {
			return nil, false
		}

		if indexed {
			arr, isArr := next.([]any)
			if !isArr {
				return nil, false
			}
			if idx == -1 { // "last"
				idx = len(arr) - 1
			}
			if idx < 0 || idx >= len(arr) {
				return nil, false
			}
			next = arr[idx]
		}
		cur = next
	}
	return cur, true
}

// splitSegment parses "name" or "name[idx]". A "last" index is returned
// as -1 and resolved against the array length during the walk.
func splitSegment(seg string) (name string, idx int, indexed bool, ok bool) {
	open := strings.IndexByte(seg, '[')
	if open < 0 {
		if seg == "" {
			return "", 0, false, false
		}
		return seg, 0, false, true
	}
	if open == 0 || !strings.HasSuffix(seg, "]") {
		return "", 0, false, false
	}
	name = seg[:open]
	raw := seg[open+1 : len(seg)-1]
	if raw == Last {
		return name, -1, true, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return "", 0, false, false
	}
	return name, n, true, true
}

// convert narrows a resolved value to the requested type. JSON numbers
// decode as float64; integral targets accept them, everything else must
// match exactly.
func convert[T any](v any) (T, bool) {
	var zero T
	if out, ok := v.(T); ok {
		return out, true
	}
	switch any(zero).(type) {
	case int:
		if f, ok := v.(float64); ok {
			return any(int(f)).(T), true
		}
	case int64:
		if f, ok := v.(float64); ok {
			return any(int64(f)).(T), true
		}
	}
	return zero, false
}
