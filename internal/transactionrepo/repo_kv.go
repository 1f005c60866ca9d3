// Package transactionrepo manages repository layer of transactions.
package transactionrepo

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/rs/zerolog"

	"github.com/banco-acme/portal-api/internal/domain"
	"github.com/banco-acme/portal-api/internal/kvstore"
	"github.com/banco-acme/portal-api/pkg/errorspkg"
)

// RepoKV facilitates transaction repository layer logic on the key-value store.
// Transactions are append-only; the list is never mutated in place.
type RepoKV struct {
	store kvstore.Store
}

// NewRepoKV returns transaction RepoKV.
func NewRepoKV(store kvstore.Store) *RepoKV {
	return &RepoKV{store: store}
}

func (r *RepoKV) load(ctx context.Context) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	raw, err := r.store.Get(ctx, kvstore.TransactionsKey)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if raw == "" {
		return []domain.Transaction{}, nil
	}

	var transactions []domain.Transaction
	if err := json.Unmarshal([]byte(raw), &transactions); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return transactions, nil
}

// Create appends the transaction and then returns it.
func (r *RepoKV) Create(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	transactions, err := r.load(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}

	transactions = append(transactions, transaction)

	raw, err := json.Marshal(transactions)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	if err := r.store.Set(ctx, kvstore.TransactionsKey, string(raw)); err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	return transaction, nil
}

// ListByUser returns the user's transactions sorted by date descending.
// A limit of 0 or less returns the full history.
func (r *RepoKV) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	transactions, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	owned := []domain.Transaction{}

	for _, t := range transactions {
		if t.UserID == userID {
			owned = append(owned, t)
		}
	}

	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].Date.After(owned[j].Date)
	})

	if limit > 0 && len(owned) > limit {
		owned = owned[:limit]
	}

	return owned, nil
}

// ListByMonth returns the user's transactions within the given calendar year
// and 1-based month, sorted by date descending.
func (r *RepoKV) ListByMonth(ctx context.Context, userID int64, year, month int) ([]domain.Transaction, error) {
	owned, err := r.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	filtered := []domain.Transaction{}

	for _, t := range owned {
		if t.Date.Year() == year && int(t.Date.Month()) == month {
			filtered = append(filtered, t)
		}
	}

	return filtered, nil
}
