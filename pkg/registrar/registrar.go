package registrar

import (
	"context"
	"fmt"
	"regexp"

	"k8s.io/klog/v2"
)

// Syntactic sanity check only; deliverability is not verified.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError rejects malformed input before any store access.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

var ErrInvalidEmail = &ValidationError{Msg: "Invalid email format"}

// Store is the persistence seam for signups. FindOrCreate must run the
// existence check and the insert against a consistent view, so that two
// near-simultaneous submissions of the same address cannot both insert.
type Store interface {
	FindOrCreate(ctx context.Context, email, source string) (created bool, err error)
	Count(ctx context.Context) (int64, error)
}

type Registrar struct {
	store  Store
	source string
}

func NewRegistrar(store Store, source string) *Registrar {
	return &Registrar{store: store, source: source}
}

// Register validates the address and records it once. A repeated submission
// of the same address is a normal outcome reported through the duplicate
// flag, not an error: it keeps the form friction-free and avoids leaking
// registration status to probing.
func (r *Registrar) Register(ctx context.Context, email string) (duplicate bool, err error) {
	if !emailPattern.MatchString(email) {
		return false, ErrInvalidEmail
	}

	created, err := r.store.FindOrCreate(ctx, email, r.source)
	if err != nil {
		err = fmt.Errorf("registrar: %w", err)
		klog.Error(err)
		return false, err
	}
	return !created, nil
}

// Count returns the number of recorded signups.
func (r *Registrar) Count(ctx context.Context) (int64, error) {
	total, err := r.store.Count(ctx)
	if err != nil {
		err = fmt.Errorf("registrar: %w", err)
		klog.Error(err)
		return 0, err
	}
	return total, nil
}
