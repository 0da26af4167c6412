package platform

func Curry[T any](constructor func() T, configurator func(T)) T {
	instance := constructor()
	configurator(instance)
	return instance
}

// FirstNonEmpty returns the first argument that is not an empty string.
func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
