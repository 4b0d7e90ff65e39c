package memory

// Deep-copy helpers. The in-memory backend must not leak internal pointers
// to callers, matching Firestore's serialize-on-write behavior.

func copyAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	copied := make(map[string]any, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case map[string]any:
			copied[k] = copyAnyMap(val)
		case []any:
			s := make([]any, len(val))
			copy(s, val)
			copied[k] = s
		case []string:
			s := make([]string, len(val))
			copy(s, val)
			copied[k] = s
		default:
			copied[k] = v
		}
	}
	return copied
}

func copyStringSlice(s []string) []string {
	if s == nil {
		return nil
	}
	copied := make([]string, len(s))
	copy(copied, s)
	return copied
}
