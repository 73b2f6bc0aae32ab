package store

import (
	"context"
	"reflect"
	"sync"
)

// Memory is an in-process store engine. Collections are plain document
// slices behind a mutex; the atomicity the persistence protocol relies on
// comes from holding the collection lock across find-apply-return.
type Memory struct {
	mu  sync.Mutex
	dbs map[string]*memDatabase
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{dbs: map[string]*memDatabase{}}
}

// Database implements Conn.
func (m *Memory) Database(name string) Database {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, ok := m.dbs[name]
	if !ok {
		db = &memDatabase{cols: map[string]*memCollection{}}
		m.dbs[name] = db
	}
	return db
}

// Close implements Conn. Dropping the data is left to garbage collection.
func (m *Memory) Close() error { return nil }

type memDatabase struct {
	mu   sync.Mutex
	cols map[string]*memCollection
}

func (db *memDatabase) Collection(name string) Collection {
	db.mu.Lock()
	defer db.mu.Unlock()

	col, ok := db.cols[name]
	if !ok {
		col = &memCollection{indexes: map[string]struct{}{}}
		db.cols[name] = col
	}
	return col
}

type memCollection struct {
	mu      sync.Mutex
	docs    []Doc
	indexes map[string]struct{}
}

func (c *memCollection) FindAndModify(ctx context.Context, query Query, update Update, opts FindAndModifyOptions) (Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, doc := range c.docs {
		if !matches(doc, query) {
			continue
		}

		before := copyDoc(doc)
		updated := copyDoc(doc)
		if err := applyUpdate(updated, update); err != nil {
			return nil, err
		}
		c.docs[i] = updated

		if opts.ReturnNew {
			return copyDoc(updated), nil
		}
		return before, nil
	}

	if !opts.Upsert {
		return nil, nil
	}

	// Upsert: seed a fresh document from the query's equality fields, the
	// way the server derives the inserted document.
	doc := seedFromQuery(query)
	if err := applyUpdate(doc, update); err != nil {
		return nil, err
	}
	c.docs = append(c.docs, doc)

	if opts.ReturnNew {
		return copyDoc(doc), nil
	}
	return nil, nil
}

func (c *memCollection) FindOne(ctx context.Context, query Query) (Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, doc := range c.docs {
		if matches(doc, query) {
			return copyDoc(doc), nil
		}
	}
	return nil, nil
}

func (c *memCollection) Find(ctx context.Context, query Query) (Cursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Doc
	for _, doc := range c.docs {
		if matches(doc, query) {
			out = append(out, copyDoc(doc))
		}
	}
	return &memCursor{docs: out}, nil
}

func (c *memCollection) Remove(ctx context.Context, query Query) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var kept []Doc
	removed := 0
	for _, doc := range c.docs {
		if matches(doc, query) {
			removed++
			continue
		}
		kept = append(kept, doc)
	}
	c.docs = kept
	return removed, nil
}

func (c *memCollection) EnsureIndex(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.indexes[key] = struct{}{}
	return nil
}

type memCursor struct {
	docs []Doc
	pos  int
	cur  Doc
}

func (c *memCursor) Next() bool {
	if c.pos >= len(c.docs) {
		return false
	}
	c.cur = c.docs[c.pos]
	c.pos++
	return true
}

func (c *memCursor) Doc() Doc     { return c.cur }
func (c *memCursor) Err() error   { return nil }
func (c *memCursor) Close() error { return nil }

// matches reports whether doc satisfies every equality condition in query.
// An empty (or nil) query matches everything.
func matches(doc Doc, query Query) bool {
	for k, want := range query {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// seedFromQuery derives the base document for an upsert insert from the
// query's plain equality fields.
func seedFromQuery(query Query) Doc {
	doc := Doc{}
	for k, v := range query {
		if _, isDoc := v.(map[string]any); isDoc {
			continue // operator or sub-document condition, not a seed value
		}
		doc[k] = copyValue(v)
	}
	return doc
}
