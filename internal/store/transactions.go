package store

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tallyhq/tally/internal/ledger"
)

// SaveTransaction validates and upserts a transaction, then commits the
// document. A record with a matching identifier is replaced; otherwise the
// record is appended. An absent identifier is generated. Returns false
// without mutating state when validation fails.
func (r *Repository) SaveTransaction(t ledger.Transaction) bool {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = r.clock.Now()
	}
	if errs := t.Validate(); len(errs) > 0 {
		r.log.Warn("rejecting invalid transaction",
			zap.String("id", t.ID), zap.Strings("errors", errs))
		return false
	}

	prevTx, prevMeta := r.doc.Transactions, r.doc.Metadata
	transactions := append([]ledger.Transaction(nil), prevTx...)
	replaced := false
	for i, existing := range transactions {
		if existing.ID == t.ID {
			transactions[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		transactions = append(transactions, t)
	}

	r.doc.Transactions = transactions
	return r.commit(prevTx, r.doc.Categories, prevMeta)
}

// UpdateTransaction replaces an existing transaction. Upsert semantics are
// shared with SaveTransaction.
func (r *Repository) UpdateTransaction(t ledger.Transaction) bool {
	return r.SaveTransaction(t)
}

// GetTransaction returns the transaction with the given identifier.
func (r *Repository) GetTransaction(id string) (ledger.Transaction, bool) {
	for _, t := range r.doc.Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return ledger.Transaction{}, false
}

// AllTransactions returns every transaction sorted by occurrence date,
// newest first.
func (r *Repository) AllTransactions() []ledger.Transaction {
	out := make([]ledger.Transaction, len(r.doc.Transactions))
	copy(out, r.doc.Transactions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// DeleteTransaction removes the transaction with the given identifier.
// Returns false when no such transaction exists.
func (r *Repository) DeleteTransaction(id string) bool {
	prevTx, prevMeta := r.doc.Transactions, r.doc.Metadata
	for i, t := range prevTx {
		if t.ID == id {
			transactions := append([]ledger.Transaction(nil), prevTx[:i]...)
			transactions = append(transactions, prevTx[i+1:]...)
			r.doc.Transactions = transactions
			return r.commit(prevTx, r.doc.Categories, prevMeta)
		}
	}
	return false
}
