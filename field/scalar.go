package field

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"docmapper/errors"
)

// validateScalar implements Validate for the scalar kinds. The null value is
// only acceptable for kinds whose default is "no value".
func (d *Descriptor) validateScalar(value any) error {
	if value == nil {
		switch d.Kind {
		case KindTime, KindObjectID, KindUUID:
			return nil
		}
		return errors.Newf(ErrTypeMismatch, "field %s: null is not a %s value", d.Name, d.Kind)
	}

	switch d.Kind {
	case KindBool:
		if _, ok := value.(bool); !ok {
			return d.mismatch(value, "bool")
		}
	case KindBinary:
		switch value.(type) {
		case []byte, Bytes:
		default:
			return d.mismatch(value, "[]byte")
		}
	case KindText:
		if _, ok := value.(string); !ok {
			return d.mismatch(value, "string")
		}
	case KindTime:
		if _, ok := value.(time.Time); !ok {
			return d.mismatch(value, "time.Time")
		}
	case KindInt:
		switch value.(type) {
		case int, int32, int64:
		default:
			return d.mismatch(value, "int64")
		}
	case KindFloat:
		if _, ok := value.(float64); !ok {
			return d.mismatch(value, "float64")
		}
	case KindObjectID:
		if _, ok := value.(ulid.ULID); !ok {
			return d.mismatch(value, "ulid.ULID")
		}
	case KindUUID:
		if _, ok := value.(uuid.UUID); !ok {
			return d.mismatch(value, "uuid.UUID")
		}
	}

	return nil
}

func (d *Descriptor) mismatch(value any, want string) error {
	return errors.Newf(ErrTypeMismatch, "field %s: value must be %s, not %T (%v)",
		d.Name, want, value, value)
}

// collapseScalar converts a validated scalar into its storage form. Most
// kinds store as-is; integers normalize to 64-bit width, byte strings wrap in
// the Bytes marker, and generated identifiers store as their canonical text.
func (d *Descriptor) collapseScalar(value any) (any, error) {
	switch d.Kind {
	case KindBinary:
		switch v := value.(type) {
		case Bytes:
			return v, nil
		case []byte:
			return Bytes(v), nil
		}
	case KindInt:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		}
	case KindObjectID:
		if v, ok := value.(ulid.ULID); ok {
			return v.String(), nil
		}
	case KindUUID:
		if v, ok := value.(uuid.UUID); ok {
			return v.String(), nil
		}
	default:
		return value, nil
	}

	return nil, d.mismatch(value, d.Kind.String())
}

// expandScalar is the inverse of collapseScalar.
func (d *Descriptor) expandScalar(value any) (any, error) {
	switch d.Kind {
	case KindBinary:
		switch v := value.(type) {
		case Bytes:
			return []byte(v), nil
		case []byte:
			return v, nil
		}
	case KindInt:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		}
	case KindObjectID:
		switch v := value.(type) {
		case ulid.ULID:
			return v, nil
		case string:
			id, err := ulid.Parse(v)
			if err != nil {
				return nil, errors.Newf(ErrTypeMismatch,
					"field %s: stored identity %q is not a ULID: %v", d.Name, v, err)
			}
			return id, nil
		}
	case KindUUID:
		switch v := value.(type) {
		case uuid.UUID:
			return v, nil
		case string:
			id, err := uuid.Parse(v)
			if err != nil {
				return nil, errors.Newf(ErrTypeMismatch,
					"field %s: stored value %q is not a UUID: %v", d.Name, v, err)
			}
			return id, nil
		}
	default:
		return value, nil
	}

	return nil, d.mismatch(value, d.Kind.String())
}
