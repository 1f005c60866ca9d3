// Package kvstore manages the string-keyed store holding the portal records.
//
// The store keeps three top-level documents: the user list, the transaction
// list and the current session snapshot. Each document is read and written
// whole; a missing key reads as the empty value. The store offers no
// transactions or locking, so paired writes are not atomic.
package kvstore

import "context"

// Store is a synchronous string-keyed get/set store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

// Keys of the three top-level records.
const (
	UsersKey        = "bank:users"
	TransactionsKey = "bank:transactions"
	SessionKey      = "bank:session"
)
