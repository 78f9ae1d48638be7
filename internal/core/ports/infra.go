package ports

import "context"

// ImageStore saves uploaded images and returns the reference clients use to fetch them.
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
	// Delete removes a previously returned reference. Unknown references are ignored.
	Delete(ctx context.Context, ref string) error
}

// LoginThrottle limits failed login attempts per login name.
type LoginThrottle interface {
	Allowed(ctx context.Context, login string) (bool, error)
	Failed(ctx context.Context, login string) error
	Reset(ctx context.Context, login string) error
}
