package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxDescriptionLen bounds the transaction description.
const MaxDescriptionLen = 200

// Transaction is a single financial record.
//
// The identifier is unique across the whole Document. The amount is always
// strictly positive; direction is carried by Type. Category is a name
// reference into the Document's category set - a soft reference, validated
// as a warning by the integrity checker rather than enforced at write time.
type Transaction struct {
	ID          string
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        time.Time
	Type        Type
	CreatedAt   time.Time
}

// txWire is the on-disk shape of a transaction record. Amount stays raw so a
// missing field can be told apart from an explicit zero.
type txWire struct {
	ID          string          `json:"id"`
	Amount      json.RawMessage `json:"amount,omitempty"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Type        string          `json:"transaction_type"`
	CreatedAt   string          `json:"created_at,omitempty"`
}

// NewTransaction builds a transaction with a generated identifier and the
// clock's current time for any timestamp the caller left zero.
func NewTransaction(amount decimal.Decimal, description, category string, typ Type, date time.Time, clock Clock) Transaction {
	now := clock.Now()
	if date.IsZero() {
		date = now
	}
	return Transaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Description: description,
		Category:    category,
		Date:        date,
		Type:        typ,
		CreatedAt:   now,
	}
}

// Validate returns the reasons t cannot be stored, or nil if it can.
func (t Transaction) Validate() []string {
	var errs []string
	if t.Amount.Sign() <= 0 {
		errs = append(errs, "amount must be greater than zero")
	}
	desc := strings.TrimSpace(t.Description)
	if desc == "" {
		errs = append(errs, "description is required")
	} else if len(desc) > MaxDescriptionLen {
		errs = append(errs, fmt.Sprintf("description must be %d characters or less", MaxDescriptionLen))
	}
	if strings.TrimSpace(t.Category) == "" {
		errs = append(errs, "category is required")
	}
	if !t.Type.Valid() {
		errs = append(errs, "transaction type must be INCOME or EXPENSE")
	}
	if t.Date.IsZero() {
		errs = append(errs, "date is required")
	}
	return errs
}

// MarshalJSON implements json.Marshaler using the wire shape.
func (t Transaction) MarshalJSON() ([]byte, error) {
	amount, err := t.Amount.MarshalJSON()
	if err != nil {
		return nil, err
	}
	w := txWire{
		ID:          t.ID,
		Amount:      amount,
		Description: t.Description,
		Category:    t.Category,
		Date:        FormatTime(t.Date),
		Type:        string(t.Type),
	}
	if !t.CreatedAt.IsZero() {
		w.CreatedAt = FormatTime(t.CreatedAt)
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler by delegating to ParseTransaction.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	parsed, err := ParseTransaction(data)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTransaction converts a loose on-disk record into a typed Transaction.
// The error names the first field that made the record unusable.
func ParseTransaction(data []byte) (Transaction, error) {
	var w txWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Transaction{}, fmt.Errorf("parse transaction: %w", err)
	}
	if w.ID == "" {
		return Transaction{}, fmt.Errorf("parse transaction: missing id")
	}
	if len(w.Amount) == 0 {
		return Transaction{}, fmt.Errorf("parse transaction %s: missing amount", w.ID)
	}
	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(w.Amount); err != nil {
		return Transaction{}, fmt.Errorf("parse transaction %s: amount: %w", w.ID, err)
	}
	if w.Description == "" {
		return Transaction{}, fmt.Errorf("parse transaction %s: missing description", w.ID)
	}
	if w.Category == "" {
		return Transaction{}, fmt.Errorf("parse transaction %s: missing category", w.ID)
	}
	typ := Type(w.Type)
	if !typ.Valid() {
		return Transaction{}, fmt.Errorf("parse transaction %s: invalid transaction_type %q", w.ID, w.Type)
	}
	if w.Date == "" {
		return Transaction{}, fmt.Errorf("parse transaction %s: missing date", w.ID)
	}
	date, err := ParseTime(w.Date)
	if err != nil {
		return Transaction{}, fmt.Errorf("parse transaction %s: date: %w", w.ID, err)
	}

	t := Transaction{
		ID:          w.ID,
		Amount:      amount,
		Description: w.Description,
		Category:    w.Category,
		Date:        date,
		Type:        typ,
	}
	if w.CreatedAt != "" {
		created, err := ParseTime(w.CreatedAt)
		if err != nil {
			return Transaction{}, fmt.Errorf("parse transaction %s: created_at: %w", w.ID, err)
		}
		t.CreatedAt = created
	} else {
		// Pre-0.9.0 records have no creation timestamp.
		t.CreatedAt = date
	}
	return t, nil
}
