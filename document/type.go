package document

import (
	"docmapper/errors"
	"docmapper/field"
	"docmapper/schema"
	"docmapper/store"
)

// Hooks are the per-type lifecycle callbacks. Every hook is optional; a nil
// hook is skipped. Hooks returning an error abort the surrounding operation
// with local state untouched.
type Hooks struct {
	// OnLoad runs after a stored document was expanded into an entity.
	OnLoad func(*Document) error
	// PreSave runs first on every save, before the insert/update branch.
	PreSave func(*Document) error
	// PreInsert and PreUpdate run after PreSave, depending on whether the
	// document already has an identity. Hooks may still populate required
	// fields; the required check runs after them.
	PreInsert func(*Document) error
	PreUpdate func(*Document) error
	// PostInsert and PostUpdate run after the store round trip, before the
	// pending state is cleared.
	PostInsert func(*Document) error
	PostUpdate func(*Document) error
	// PostSave runs last on every successful save.
	PostSave func(*Document) error
}

// Def declares an entity type: the schema definition plus the document-level
// bindings the schema compiler does not know about.
type Def struct {
	schema.Def

	// Hooks holds the lifecycle callbacks.
	Hooks Hooks
	// IdentityQuery overrides how a document is matched for its upsert,
	// for types that need extra match fields next to the identity. Nil
	// uses the identity field alone.
	IdentityQuery func(*Document) store.Query
	// Manager resolves the type's logical connection name. Nil uses the
	// process-wide default manager.
	Manager *store.Manager
}

// Type is a compiled entity type. A Type is immutable after Define and safe
// to share; it is the factory for all documents of its kind.
type Type struct {
	schema        *schema.Schema
	hooks         Hooks
	identityQuery func(*Document) store.Query
	manager       *store.Manager
}

// Define compiles a type definition. It fails at definition time with every
// schema problem found, so a broken declaration aborts startup rather than
// the first save.
func Define(def Def) (*Type, error) {
	s, err := schema.Build(def.Def)
	if err != nil {
		return nil, err
	}

	m := def.Manager
	if m == nil {
		m = store.DefaultManager()
	}

	return &Type{
		schema:        s,
		hooks:         def.Hooks,
		identityQuery: def.IdentityQuery,
		manager:       m,
	}, nil
}

// MustDefine is Define for statically known definitions; it panics on error.
func MustDefine(def Def) *Type {
	t, err := Define(def)
	if err != nil {
		panic(err)
	}
	return t
}

// Schema returns the compiled schema.
func (t *Type) Schema() *schema.Schema { return t.schema }

// New returns an empty document of this type. Fields with configured
// defaults start out populated and dirty, so the first save persists them.
func (t *Type) New() *Document {
	d := newDocument(t)
	d.load(store.Doc{})
	return d
}

// Load expands a stored document into an entity and runs the OnLoad hook.
func (t *Type) Load(storage store.Doc) (*Document, error) {
	d := newDocument(t)
	if err := d.load(storage); err != nil {
		return nil, err
	}
	if t.hooks.OnLoad != nil {
		if err := t.hooks.OnLoad(d); err != nil {
			return nil, errors.WithMessage(err, "on-load hook")
		}
	}
	return d, nil
}

// collection resolves the store collection holding this type's documents.
func (t *Type) collection() (store.Collection, error) {
	conn, err := t.manager.Get(t.schema.Connection())
	if err != nil {
		return nil, err
	}
	return conn.Database(t.schema.Database()).Collection(t.schema.Collection()), nil
}

// TypeName implements field.DocumentType.
func (t *Type) TypeName() string { return t.schema.Name() }

// ValidateDocument implements field.DocumentType: a value is acceptable for
// a nested-document field when it is a document of exactly this type.
func (t *Type) ValidateDocument(value any) error {
	d, ok := value.(*Document)
	if !ok {
		return errors.Newf(field.ErrTypeMismatch,
			"%T is not a %s document", value, t.schema.Name())
	}
	if d.typ != t {
		return errors.Newf(field.ErrTypeMismatch,
			"document of type %s where %s is expected", d.typ.schema.Name(), t.schema.Name())
	}
	return nil
}

// CollapseDocument implements field.DocumentType.
func (t *Type) CollapseDocument(value any) (map[string]any, error) {
	if err := t.ValidateDocument(value); err != nil {
		return nil, err
	}
	return value.(*Document).Collapse()
}

// ExpandDocument implements field.DocumentType. Hooks do not run for nested
// documents; they belong to top-level load/save.
func (t *Type) ExpandDocument(storage map[string]any) (any, error) {
	d := newDocument(t)
	if err := d.load(storage); err != nil {
		return nil, err
	}
	return d, nil
}
