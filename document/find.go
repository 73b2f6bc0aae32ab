package document

import (
	"context"
	"strings"

	"docmapper/schema"
	"docmapper/store"
)

// FindOne returns the first document matching query, or nil when nothing
// matches. Query keys use canonical field names and expanded values; they
// are remapped and collapsed to storage form before the round trip.
func (t *Type) FindOne(ctx context.Context, query store.Query) (*Document, error) {
	remapped, err := t.remapQuery(query)
	if err != nil {
		return nil, err
	}
	col, err := t.collection()
	if err != nil {
		return nil, err
	}

	storage, err := col.FindOne(ctx, remapped)
	if err != nil || storage == nil {
		return nil, err
	}
	return t.Load(storage)
}

// GetByID returns the document with the given identity, or nil. A string id
// is accepted and converted through the identity descriptor, so callers may
// pass the stored form directly.
func (t *Type) GetByID(ctx context.Context, id any) (*Document, error) {
	if desc, ok := t.schema.Field(schema.IdentityField); ok {
		expanded, err := desc.Expand(id)
		if err != nil {
			return nil, err
		}
		id = expanded
	}
	return t.FindOne(ctx, store.Query{schema.IdentityField: id})
}

// Find returns a cursor over every document matching query.
func (t *Type) Find(ctx context.Context, query store.Query) (*Cursor, error) {
	remapped, err := t.remapQuery(query)
	if err != nil {
		return nil, err
	}
	col, err := t.collection()
	if err != nil {
		return nil, err
	}

	inner, err := col.Find(ctx, remapped)
	if err != nil {
		return nil, err
	}
	return &Cursor{typ: t, inner: inner}, nil
}

// remapQuery rewrites a caller query to storage form: canonical field names
// become short storage names and values collapse through their descriptors.
// Operator keys ($and, $or...) pass through with their sub-queries remapped;
// operator-document values (e.g. {"$in": [...]}) pass through untouched,
// since their operand shape belongs to the store's query language.
func (t *Type) remapQuery(query store.Query) (store.Query, error) {
	out := make(store.Query, len(query))
	for key, value := range query {
		if strings.HasPrefix(key, "$") {
			subs, ok := value.([]any)
			if !ok {
				out[key] = value
				continue
			}
			remapped := make([]any, len(subs))
			for i, sub := range subs {
				subQuery, ok := sub.(store.Query)
				if !ok {
					remapped[i] = sub
					continue
				}
				r, err := t.remapQuery(subQuery)
				if err != nil {
					return nil, err
				}
				remapped[i] = r
			}
			out[key] = remapped
			continue
		}

		desc, known := t.schema.Field(key)
		if !known {
			out[key] = value
			continue
		}
		if _, isOperatorDoc := value.(map[string]any); isOperatorDoc {
			out[t.schema.LongToShort(key)] = value
			continue
		}

		collapsed, err := desc.Collapse(value)
		if err != nil {
			return nil, err
		}
		out[t.schema.LongToShort(key)] = collapsed
	}
	return out, nil
}

// Cursor iterates documents of one type, loading each from its storage form.
type Cursor struct {
	typ   *Type
	inner store.Cursor
	cur   *Document
	err   error
}

// Next advances to the next document, reporting whether one is available.
// Iteration stops on the first load or store error.
func (c *Cursor) Next() bool {
	if c.err != nil || !c.inner.Next() {
		return false
	}
	c.cur, c.err = c.typ.Load(c.inner.Doc())
	return c.err == nil
}

// Doc returns the current document.
func (c *Cursor) Doc() *Document { return c.cur }

// Err returns the first error hit during iteration.
func (c *Cursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.inner.Err()
}

// Close releases the underlying store cursor.
func (c *Cursor) Close() error { return c.inner.Close() }
