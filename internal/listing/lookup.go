package listing

// Index builds a key to item map once per fetch. Later duplicates win.
func Index[T any](items []T, key func(T) string) map[string]T {
	out := make(map[string]T, len(items))
	for _, it := range items {
		out[key(it)] = it
	}
	return out
}

// Group collects items under a shared key, keeping input order.
func Group[T any](items []T, key func(T) string) map[string][]T {
	out := map[string][]T{}
	for _, it := range items {
		k := key(it)
		out[k] = append(out[k], it)
	}
	return out
}

// Lookup resolves key through m, using fallback when absent.
func Lookup[T any](m map[string]T, key string, pick func(T) string, fallback string) string {
	it, ok := m[key]
	if !ok {
		return fallback
	}
	if v := pick(it); v != "" {
		return v
	}
	return fallback
}
