package models

// CleanMap returns a copy of m with nil values removed at every depth.
// Nested maps and slices are cleaned recursively; all non-nil values are
// preserved unchanged. Firestore rejects explicit nulls coming from
// partially filled request bodies, so every map-shaped payload is passed
// through here before it is written.
func CleanMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		cleaned, ok := cleanValue(v)
		if !ok {
			continue
		}
		out[k] = cleaned
	}
	return out
}

// cleanValue reports whether v should be kept, returning the cleaned value.
func cleanValue(v interface{}) (interface{}, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case map[string]interface{}:
		return CleanMap(t), true
	case []interface{}:
		out := make([]interface{}, 0, len(t))
		for _, e := range t {
			cleaned, ok := cleanValue(e)
			if !ok {
				continue
			}
			out = append(out, cleaned)
		}
		return out, true
	default:
		return v, true
	}
}
