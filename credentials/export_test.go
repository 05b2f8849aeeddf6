package credentials

import "context"

// SetDefaultLoader replaces the loader used by Instance and clears any cached
// instance. The returned func restores the previous loader.
func SetDefaultLoader(f func(context.Context) (*Credentials, error)) func() {
	old := loadDefault
	loadDefault = f
	ResetInstance()
	return func() {
		loadDefault = old
		ResetInstance()
	}
}

func ResetInstance() {
	instanceMu.Lock()
	instance = nil
	instanceMu.Unlock()
}
