package resourcepool

import "errors"

// Sentinel errors surfaced by the resource pool allocator, wrapped with
// context; callers test for them with errors.Is. The nova CLI reports them
// as plain command errors.
var (
	// ErrPoolUnknown is returned when the referenced pool is not in the registry.
	ErrPoolUnknown = errors.New("resourcepool: pool unknown")
	// ErrTypeMismatch is returned when growing a pool with a different value
	// type than it was created with, or decoding a value against the wrong type.
	ErrTypeMismatch = errors.New("resourcepool: value type mismatch")
	// ErrInvalidValue is returned when a value's text form doesn't match its
	// declared type, or a range/prefix in a pool definition is malformed.
	ErrInvalidValue = errors.New("resourcepool: invalid value")
	// ErrEmpty is returned when auto-allocation finds no free auto-assignable value.
	ErrEmpty = errors.New("resourcepool: pool exhausted")
	// ErrNotFound is returned when a manually requested value isn't in the pool.
	ErrNotFound = errors.New("resourcepool: value not found")
	// ErrConflict is returned when a manually requested value is already allocated.
	ErrConflict = errors.New("resourcepool: value already allocated")
	// ErrNotAllocated is returned when releasing a value that is currently free.
	ErrNotAllocated = errors.New("resourcepool: value not allocated")
)
