package models

import (
	"database/sql"

	"moneytalk/internal/amount"
)

// TxType is the income/expense filter attached to transactions and reports.
type TxType string

const (
	TxTypeIncome  TxType = "thu"
	TxTypeExpense TxType = "chi"
	TxTypeBoth    TxType = "both"
)

// TransactionDraft is a parsed transaction candidate. It is either fully
// valid (Amount.Valid and a resolvable type) or rejected as a whole; a draft
// is never partially persisted.
type TransactionDraft struct {
	Merchant string       `json:"merchant"`
	Category string       `json:"category"`
	Amount   amount.Value `json:"amount"`
	Date     string       `json:"date"` // YYYY-MM-DD
	Type     TxType       `json:"type"`
	Note     string       `json:"note"`
}

// Transaction mirrors a persisted ledger row.
type Transaction struct {
	ID        int64           `json:"id"`
	TxnDate   string          `json:"txn_date"`
	Merchant  sql.NullString  `json:"merchant"`
	Category  sql.NullString  `json:"category"`
	Amount    sql.NullFloat64 `json:"amount"`
	Type      string          `json:"type"`
	Note      sql.NullString  `json:"note"`
	CreatedAt string          `json:"created_at"`
}

// TransactionView is the JSON-friendly projection of a Transaction.
type TransactionView struct {
	ID       int64   `json:"id"`
	TxnDate  string  `json:"txn_date"`
	Merchant string  `json:"merchant"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
	Note     string  `json:"note"`
}

func (t *Transaction) ToView() TransactionView {
	view := TransactionView{
		ID:      t.ID,
		TxnDate: t.TxnDate,
		Type:    t.Type,
	}
	if t.Merchant.Valid {
		view.Merchant = t.Merchant.String
	}
	if t.Category.Valid {
		view.Category = t.Category.String
	}
	if t.Amount.Valid {
		view.Amount = t.Amount.Float64
	}
	if t.Note.Valid {
		view.Note = t.Note.String
	}
	return view
}
