//go:build !linux

package framebuffer

// Find is not supported on this platform.
func Find() (*Device, error) {
	return nil, ErrNotSupported
}

// FindID is not supported on this platform.
func FindID(_ string) (*Device, error) {
	return nil, ErrNotSupported
}

// Open is not supported on this platform.
func Open(_ string) (*Device, error) {
	return nil, ErrNotSupported
}
