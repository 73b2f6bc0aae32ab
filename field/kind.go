package field

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum identifies one of the closed set of field kinds. The declaration
// order matches the mini-language parsing precedence: when a field spec is
// parsed, each kind is tried in this order and the first match wins.
type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindAny
	KindList
	KindSet
	KindFixedList
	KindMap
	KindBool
	KindBinary
	KindText
	KindTime
	KindInt
	KindFloat
	KindObjectID
	KindDocument
	KindUUID

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// IsContainer reports whether values of this kind hold other values.
func (k KindEnum) IsContainer() bool {
	switch k {
	default:
		return false
	case KindList, KindSet, KindFixedList, KindMap:
		return true
	}
}

// IsScalar reports whether the kind is a single storable value.
func (k KindEnum) IsScalar() bool {
	switch k {
	default:
		return false
	case KindAny, KindBool, KindBinary, KindText, KindTime,
		KindInt, KindFloat, KindObjectID, KindUUID:
		return true
	}
}

// identityTransform reports whether Collapse and Expand are the identity for
// this kind. Container descriptors skip per-element conversion for identity
// element kinds.
func (k KindEnum) identityTransform() bool {
	switch k {
	default:
		return false
	case KindAny, KindBool, KindText, KindTime, KindFloat:
		return true
	}
}
