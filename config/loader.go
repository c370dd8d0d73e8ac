package config

// Loader loads configuration into a target struct.
type Loader interface {
	// Load loads the configuration into the target.
	Load(target any) error

	// Watch starts watching for configuration changes.
	// The callback is invoked when a change is detected.
	Watch(callback func()) error
}
