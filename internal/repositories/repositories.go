// package repositories provides the storage port and its backends.
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/desertthunder/rmx/internal/shared"
)

// Logical storage keys.
const (
	UsersKey     = "rick-morty-users"
	SessionKey   = "rick-morty-session-email"
	FavoritesKey = "rick-morty-favorites"
)

// Store is a whole-value key-value store.
//
// Get reports ok=false for a missing key; err is reserved for backend failures.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// LoadJSON decodes the value at key into dst.
//
// dst must be a non-nil pointer. The value is decoded into a fresh copy and only assigned to dst on success,
// so a missing key or a value that does not decode returns false and leaves dst untouched.
func LoadJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return false, fmt.Errorf("%w: LoadJSON needs a non-nil pointer, got %T", shared.ErrInvalidArgument, dst)
	}

	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%w: failed to read %s: %v", shared.ErrStorage, key, err)
	}
	if !ok {
		return false, nil
	}

	fresh := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		return false, nil
	}
	target.Elem().Set(fresh.Elem())
	return true, nil
}

// SaveJSON encodes v and writes it to key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s: %v", shared.ErrStorage, key, err)
	}

	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}
