package document

import (
	"context"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang/glog"
	"github.com/oklog/ulid/v2"

	"docmapper/errors"
	"docmapper/schema"
	"docmapper/store"
)

// Save persists the pending state through a single atomic upsert and
// refreshes the document from the stored result. Hooks run around the round
// trip; required fields are checked after the pre hooks so hooks may still
// populate them, and a failed check performs no round trip at all. Any
// failure leaves the dirty and pending state intact for a retry.
func (d *Document) Save(ctx context.Context) error {
	if !d.live {
		return errors.Newf(ErrStaleContainer, "document %s was discarded", d.typ.schema.Name())
	}

	hooks := d.typ.hooks
	if err := runHook(hooks.PreSave, d, "pre-save"); err != nil {
		return err
	}

	_, insert := d.Identity()
	insert = !insert
	if insert {
		if err := runHook(hooks.PreInsert, d, "pre-insert"); err != nil {
			return err
		}
	} else {
		if err := runHook(hooks.PreUpdate, d, "pre-update"); err != nil {
			return err
		}
	}

	if missing := d.typ.schema.MissingRequired(d.Has); len(missing) > 0 {
		return errors.Newf(ErrMissingRequiredFields,
			"%s is missing required fields: %s", d.typ.schema.Name(), strings.Join(missing, ", "))
	}

	update, err := d.Operations()
	if err != nil {
		return err
	}

	if len(update) > 0 {
		query, err := d.identityQuery(true)
		if err != nil {
			return err
		}

		col, err := d.typ.collection()
		if err != nil {
			return err
		}

		glog.V(1).Infof("saving %s into %s.%s",
			d, d.typ.schema.Database(), d.typ.schema.Collection())
		glog.V(2).Infof("update for %s: %s", d, spew.Sdump(update))

		result, err := col.FindAndModify(ctx, query, update,
			store.FindAndModifyOptions{Upsert: true, ReturnNew: true})
		if err != nil {
			return errors.Wrapf(err, "saving %s", d.typ.schema.Name())
		}
		if result == nil {
			return errors.Newf(store.ErrPersistence,
				"store returned no document for upsert of %s", d.typ.schema.Name())
		}

		if err := d.load(result); err != nil {
			return err
		}
	}

	if insert {
		if err := runHook(hooks.PostInsert, d, "post-insert"); err != nil {
			return err
		}
	} else {
		if err := runHook(hooks.PostUpdate, d, "post-update"); err != nil {
			return err
		}
	}

	d.ClearOps()
	return runHook(hooks.PostSave, d, "post-save")
}

// Delete removes the stored document matched by the identity query. A
// document that was never saved fails with ErrNoIdentity.
func (d *Document) Delete(ctx context.Context) error {
	if _, ok := d.Identity(); !ok {
		return errors.Newf(ErrNoIdentity, "%s was never saved", d.typ.schema.Name())
	}

	query, err := d.identityQuery(false)
	if err != nil {
		return err
	}
	col, err := d.typ.collection()
	if err != nil {
		return err
	}

	glog.V(1).Infof("deleting %s from %s.%s",
		d, d.typ.schema.Database(), d.typ.schema.Collection())

	removed, err := col.Remove(ctx, query)
	if err != nil {
		return errors.Wrapf(err, "deleting %s", d.typ.schema.Name())
	}
	if removed == 0 {
		return errors.Newf(store.ErrPersistence,
			"%s matched no stored document", d)
	}
	return nil
}

func runHook(hook func(*Document) error, d *Document, name string) error {
	if hook == nil {
		return nil
	}
	if err := hook(d); err != nil {
		return errors.WithMessage(err, name+" hook")
	}
	return nil
}

// identityQuery builds the query matching this document in its collection:
// the type's override when one is declared, otherwise the identity field
// alone. With generate set, a document without an identity gets a freshly
// generated one, so an upsert inserts under a known id.
func (d *Document) identityQuery(generate bool) (store.Query, error) {
	if d.typ.identityQuery != nil {
		return d.typ.identityQuery(d), nil
	}

	id, ok := d.Identity()
	if !ok {
		if !generate {
			return store.Query{}, nil
		}
		id = ulid.Make()
	}

	desc, _ := d.typ.schema.Field(schema.IdentityField)
	collapsed, err := desc.Collapse(id)
	if err != nil {
		return nil, err
	}
	return store.Query{schema.IdentityField: collapsed}, nil
}
