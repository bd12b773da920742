package registrar

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	emails map[string]bool
	calls  int
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{emails: map[string]bool{}}
}

func (s *fakeStore) FindOrCreate(_ context.Context, email, _ string) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	if s.emails[email] {
		return false, nil
	}
	s.emails[email] = true
	return true, nil
}

func (s *fakeStore) Count(_ context.Context) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.emails)), nil
}

func TestRegisterInvalidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{"empty", ""},
		{"missing at", "user.example.com"},
		{"missing dot", "user@examplecom"},
		{"whitespace in local part", "us er@example.com"},
		{"whitespace in domain", "user@exa mple.com"},
		{"double at", "user@@example.com"},
		{"nothing after dot", "user@example."},
		{"nothing before at", "@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			r := NewRegistrar(store, "landing-page")

			_, err := r.Register(context.Background(), tt.email)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "Invalid email format", vErr.Msg)
			assert.Zero(t, store.calls, "invalid input must not touch the store")
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	store := newFakeStore()
	r := NewRegistrar(store, "landing-page")
	ctx := context.Background()

	duplicate, err := r.Register(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.False(t, duplicate)

	duplicate, err = r.Register(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, duplicate, "second submission is a duplicate, not an error")

	count, err := r.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "exactly one record for the address")
}

func TestRegisterValidShapes(t *testing.T) {
	store := newFakeStore()
	r := NewRegistrar(store, "landing-page")

	for _, email := range []string{
		"ada@example.com",
		"first.last@sub.example.co",
		"weird+tag@host.io",
	} {
		duplicate, err := r.Register(context.Background(), email)
		require.NoError(t, err, email)
		assert.False(t, duplicate, email)
	}
}

func TestRegisterStoreError(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("connection refused")
	r := NewRegistrar(store, "landing-page")

	_, err := r.Register(context.Background(), "ada@example.com")
	require.Error(t, err)

	var vErr *ValidationError
	assert.False(t, errors.As(err, &vErr), "store errors are not validation errors")
}
