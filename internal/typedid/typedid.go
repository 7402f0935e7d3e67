// Package typedid wraps uuid.UUID in a phantom-typed handle so that a
// VpcId and a MachineId can't be passed to each other's functions by
// accident, while still round-tripping through JSON, SQL, and plain
// strings as an ordinary UUID would.
package typedid

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Marker names the owner kind a TypedUUID is tagged with. Implementations
// are zero-size types; only their TypeName is ever used.
type Marker interface {
	TypeName() string
}

// VpcMarker tags TypedUUID as a VPC identifier.
type VpcMarker struct{}

func (VpcMarker) TypeName() string { return "VpcId" }

// MachineMarker tags TypedUUID as a machine identifier.
type MachineMarker struct{}

func (MachineMarker) TypeName() string { return "MachineId" }

// InstanceMarker tags TypedUUID as an instance identifier.
type InstanceMarker struct{}

func (InstanceMarker) TypeName() string { return "InstanceId" }

// NetworkSegmentMarker tags TypedUUID as a network segment identifier.
type NetworkSegmentMarker struct{}

func (NetworkSegmentMarker) TypeName() string { return "NetworkSegmentId" }

// TypedUUID is a strongly typed UUID. The zero value is the nil UUID.
type TypedUUID[M Marker] struct {
	id uuid.UUID
}

// VpcID, MachineID, InstanceID, and NetworkSegmentID are the owner
// identifier types the resource pool owner bridge deals in.
type (
	VpcID            = TypedUUID[VpcMarker]
	MachineID        = TypedUUID[MachineMarker]
	InstanceID       = TypedUUID[InstanceMarker]
	NetworkSegmentID = TypedUUID[NetworkSegmentMarker]
)

// New returns a fresh random typed UUID (v4).
func New[M Marker]() TypedUUID[M] {
	return TypedUUID[M]{id: uuid.New()}
}

// From wraps an existing uuid.UUID.
func From[M Marker](id uuid.UUID) TypedUUID[M] {
	return TypedUUID[M]{id: id}
}

// Parse parses the canonical hyphenated hex form.
func Parse[M Marker](s string) (TypedUUID[M], error) {
	id, err := uuid.Parse(s)
	if err != nil {
		var m M
		return TypedUUID[M]{}, fmt.Errorf("parse %s: %w", m.TypeName(), err)
	}
	return TypedUUID[M]{id: id}, nil
}

// IsNil reports whether this is the default (all-zero) value.
func (t TypedUUID[M]) IsNil() bool {
	return t.id == uuid.Nil
}

// UUID returns the underlying uuid.UUID.
func (t TypedUUID[M]) UUID() uuid.UUID {
	return t.id
}

// String returns the canonical hyphenated hex form.
func (t TypedUUID[M]) String() string {
	return t.id.String()
}

// Compare orders two typed UUIDs by their big-endian byte representation.
func (t TypedUUID[M]) Compare(other TypedUUID[M]) int {
	return bytes.Compare(t.id[:], other.id[:])
}

func (t TypedUUID[M]) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.id.String())
}

func (t *TypedUUID[M]) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		var m M
		return fmt.Errorf("unmarshal %s: %w", m.TypeName(), err)
	}
	t.id = id
	return nil
}

// Value implements driver.Valuer so a TypedUUID can be passed directly as
// a pgx query argument.
func (t TypedUUID[M]) Value() (driver.Value, error) {
	return t.id.String(), nil
}

// Scan implements sql.Scanner.
func (t *TypedUUID[M]) Scan(src any) error {
	switch v := src.(type) {
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return err
		}
		t.id = id
		return nil
	case []byte:
		id, err := uuid.ParseBytes(v)
		if err != nil {
			return err
		}
		t.id = id
		return nil
	case nil:
		t.id = uuid.Nil
		return nil
	default:
		var m M
		return fmt.Errorf("scan %s: unsupported type %T", m.TypeName(), src)
	}
}
