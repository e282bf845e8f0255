// Package docstore implements the store contract on a Redis-style
// key-value client. Each document is one JSON value wrapped in a version
// envelope; per-(collection, scope) index sets provide listing without
// key scans, and compare-and-swap updates run server-side.
//
// Key layout:
//
//	lb:{collection}:{scope}:{id}  document envelope
//	lb:idx:{collection}:{scope}   set of document ids in the scope
//	lb:scopes:{collection}        set of scopes seen for the collection
package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"ledgerbook/internal/store"
)

// envelope wraps the document payload with its concurrency token.
type envelope struct {
	Version int64           `json:"version"`
	Data    json.RawMessage `json:"data"`
}

type docStore struct {
	client Client
}

// New wraps a Client as a store.Store.
func New(client Client) store.Store {
	return &docStore{client: client}
}

func docKey(collection, scope, id string) string {
	return fmt.Sprintf("lb:%s:%s:%s", collection, scope, id)
}

func indexKey(collection, scope string) string {
	return fmt.Sprintf("lb:idx:%s:%s", collection, scope)
}

func scopesKey(collection string) string {
	return fmt.Sprintf("lb:scopes:%s", collection)
}

func (s *docStore) Get(ctx context.Context, collection, scope, id string) (*store.Doc, error) {
	raw, ok, err := s.client.Get(ctx, docKey(collection, scope, id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, store.ErrNotFound
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("corrupt document %s/%s/%s: %w", collection, scope, id, err)
	}
	return &store.Doc{ID: id, Scope: scope, Version: env.Version, Data: env.Data}, nil
}

func (s *docStore) List(ctx context.Context, collection, scope string) ([]store.Doc, error) {
	scopes := []string{scope}
	if scope == "" {
		var err error
		scopes, err = s.client.SMembers(ctx, scopesKey(collection))
		if err != nil {
			return nil, err
		}
	}

	var docs []store.Doc
	for _, sc := range scopes {
		ids, err := s.client.SMembers(ctx, indexKey(collection, sc))
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			doc, err := s.Get(ctx, collection, sc, id)
			if err != nil {
				// A concurrent delete between SMEMBERS and GET is not an
				// error for the listing.
				if err == store.ErrNotFound {
					continue
				}
				return nil, err
			}
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

func (s *docStore) Create(ctx context.Context, collection string, doc *store.Doc) error {
	env := envelope{Version: 1, Data: doc.Data}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, docKey(collection, doc.Scope, doc.ID), string(raw))
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrConflict
	}

	if err := s.client.SAdd(ctx, indexKey(collection, doc.Scope), doc.ID); err != nil {
		return err
	}
	if err := s.client.SAdd(ctx, scopesKey(collection), doc.Scope); err != nil {
		return err
	}
	doc.Version = 1
	return nil
}

func (s *docStore) Update(ctx context.Context, collection string, doc *store.Doc) error {
	key := docKey(collection, doc.Scope, doc.ID)

	raw, ok, err := s.client.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}

	var current envelope
	if err := json.Unmarshal([]byte(raw), &current); err != nil {
		return fmt.Errorf("corrupt document %s/%s/%s: %w", collection, doc.Scope, doc.ID, err)
	}
	if current.Version != doc.Version {
		return store.ErrVersionConflict
	}

	next := envelope{Version: doc.Version + 1, Data: doc.Data}
	nextRaw, err := json.Marshal(next)
	if err != nil {
		return err
	}

	// The swap re-checks the snapshot server-side, closing the window
	// between the version read above and the write.
	swapped, err := s.client.Swap(ctx, key, raw, string(nextRaw))
	if err != nil {
		return err
	}
	if !swapped {
		return store.ErrVersionConflict
	}
	doc.Version = next.Version
	return nil
}

func (s *docStore) Delete(ctx context.Context, collection, scope, id string) error {
	existed, err := s.client.Del(ctx, docKey(collection, scope, id))
	if err != nil {
		return err
	}
	if !existed {
		return store.ErrNotFound
	}
	return s.client.SRem(ctx, indexKey(collection, scope), id)
}

func (s *docStore) Close() error {
	return s.client.Close()
}
