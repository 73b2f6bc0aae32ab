package field

import (
	"docmapper/errors"
	"docmapper/internal/common"
)

// Token names a scalar kind in the mini-language.
type Token int

const (
	Bool Token = iota + 1
	Binary
	Text
	Time
	Int
	Float
	ObjectID
	UUID
)

// SetSpec marks a homogeneous set in the mini-language. Use SetOf.
type SetSpec struct {
	Elem any
}

// SetOf declares a set whose elements match elem. SetOf(nil) accepts any
// element.
func SetOf(elem any) SetSpec { return SetSpec{Elem: elem} }

// kindParser attempts to recognize spec as one field kind. It returns the
// bare descriptor and true on a match; an error means the spec matched the
// kind's shape but is invalid inside.
type kindParser func(spec any) (*Descriptor, bool, error)

// kindParsers is tried in order until one matches; first match wins.
// Currently parsing is unambiguous, but this might not always be true.
// Populated in init because the container parsers recurse through Parse,
// which reads this slice.
var kindParsers []kindParser

func init() {
	kindParsers = []kindParser{
		parseWildcard,
		parseList,
		parseSet,
		parseFixedList,
		parseMap,
		parseToken(Bool, KindBool),
		parseToken(Binary, KindBinary),
		parseToken(Text, KindText),
		parseToken(Time, KindTime),
		parseToken(Int, KindInt),
		parseToken(Float, KindFloat),
		parseToken(ObjectID, KindObjectID),
		parseDocument,
		parseToken(UUID, KindUUID),
	}
}

// Parse builds a Descriptor from a mini-language field spec:
//
//   - nil: any value
//   - a Token: the named scalar kind
//   - []any of length 0 or 1: homogeneous list, element spec inside
//   - SetOf(spec): homogeneous set
//   - []any of length > 1: fixed-arity list with per-position specs
//   - map[any]any with at most one entry: mapping of key spec to value spec
//   - a DocumentType: nested document of that entity type
//
// An unrecognizable spec fails with ErrUnparseableFieldSpec. The resulting
// descriptor's default is validated here, so a bad declaration fails at
// definition time rather than first use.
func Parse(spec any, opts ...Option) (*Descriptor, error) {
	for _, parser := range kindParsers {
		d, ok, err := parser(spec)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		for _, opt := range opts {
			opt(d)
		}
		if err := d.checkDefault(); err != nil {
			return nil, err
		}
		return d, nil
	}

	return nil, errors.Newf(ErrUnparseableFieldSpec,
		"%v (%T) cannot be parsed as a field type", spec, spec)
}

// MustParse is Parse for statically known specs; it panics on error.
func MustParse(spec any, opts ...Option) *Descriptor {
	d, err := Parse(spec, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

func parseWildcard(spec any) (*Descriptor, bool, error) {
	if spec != nil {
		return nil, false, nil
	}
	return &Descriptor{Kind: KindAny}, true, nil
}

func parseList(spec any) (*Descriptor, bool, error) {
	items, ok := spec.([]any)
	if !ok || common.IsMultiple(items) {
		// More than one element is handled by the fixed-arity parser.
		return nil, false, nil
	}

	elemSpec, _ := common.First(items)
	elem, err := Parse(elemSpec)
	if err != nil {
		return nil, false, err
	}
	return &Descriptor{Kind: KindList, Elem: elem}, true, nil
}

func parseSet(spec any) (*Descriptor, bool, error) {
	set, ok := spec.(SetSpec)
	if !ok {
		return nil, false, nil
	}

	elem, err := Parse(set.Elem)
	if err != nil {
		return nil, false, err
	}
	return &Descriptor{Kind: KindSet, Elem: elem}, true, nil
}

func parseFixedList(spec any) (*Descriptor, bool, error) {
	items, ok := spec.([]any)
	if !ok || !common.IsMultiple(items) {
		return nil, false, nil
	}

	elems := make([]*Descriptor, len(items))
	for i, item := range items {
		elem, err := Parse(item)
		if err != nil {
			return nil, false, err
		}
		elems[i] = elem
	}
	return &Descriptor{Kind: KindFixedList, Elems: elems}, true, nil
}

func parseMap(spec any) (*Descriptor, bool, error) {
	m, ok := spec.(map[any]any)
	if !ok {
		return nil, false, nil
	}
	if len(m) > 1 {
		return nil, false, errors.Newf(ErrUnparseableFieldSpec,
			"a mapping spec must have at most one key/value entry, got %d", len(m))
	}

	var keySpec, valueSpec any
	for k, v := range m {
		keySpec, valueSpec = k, v
	}

	key, err := Parse(keySpec)
	if err != nil {
		return nil, false, err
	}
	value, err := Parse(valueSpec)
	if err != nil {
		return nil, false, err
	}
	return &Descriptor{Kind: KindMap, Key: key, Value: value}, true, nil
}

func parseToken(want Token, kind KindEnum) kindParser {
	return func(spec any) (*Descriptor, bool, error) {
		token, ok := spec.(Token)
		if !ok || token != want {
			return nil, false, nil
		}
		return &Descriptor{Kind: kind}, true, nil
	}
}

func parseDocument(spec any) (*Descriptor, bool, error) {
	doc, ok := spec.(DocumentType)
	if !ok {
		return nil, false, nil
	}
	return &Descriptor{Kind: KindDocument, Doc: doc}, true, nil
}
