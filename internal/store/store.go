// Package store defines the document-shaped persistence contract shared by
// the relational and document backends. Callers see identical semantics
// regardless of backend: documents are opaque JSON payloads addressed by
// (collection, scope, id) with optimistic concurrency on writes.
//
// Scope is the partition key: the owning business id for business-scoped
// collections, or GlobalScope for global ones. A multi-record invariant
// (a transaction and its lines) is always confined to one document.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Collection names used across the application.
const (
	CollectionBusinesses   = "businesses"
	CollectionAccountTypes = "account_types"
	CollectionAccounts     = "accounts"
	CollectionSubsidiaries = "subsidiary_accounts"
	CollectionTransactions = "transactions"
	CollectionTypeMappings = "type_mappings"
)

// GlobalScope is the scope for collections not owned by a business.
const GlobalScope = "global"

// Sentinel errors returned by Store implementations. Services translate
// these into AppErrors; the backends never import the errors package.
var (
	// ErrNotFound is returned when no document matches (collection, scope, id).
	ErrNotFound = errors.New("store: document not found")
	// ErrConflict is returned by Create when the document already exists.
	ErrConflict = errors.New("store: document already exists")
	// ErrVersionConflict is returned by Update when the stored version does
	// not match the caller's snapshot. The caller must re-read and retry.
	ErrVersionConflict = errors.New("store: version conflict")
)

// Doc is one stored document. Version is the optimistic-concurrency token:
// zero before the first write, incremented by the store on every successful
// Create/Update.
type Doc struct {
	ID      string
	Scope   string
	Version int64
	Data    json.RawMessage
}

// Store is the uniform persistence contract. List with an empty scope
// returns documents across all scopes of the collection.
type Store interface {
	Get(ctx context.Context, collection, scope, id string) (*Doc, error)
	List(ctx context.Context, collection, scope string) ([]Doc, error)
	Create(ctx context.Context, collection string, doc *Doc) error
	Update(ctx context.Context, collection string, doc *Doc) error
	Delete(ctx context.Context, collection, scope, id string) error
	Close() error
}
