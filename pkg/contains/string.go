package contains

// String returns true when s is an exact member of items.
func String(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
