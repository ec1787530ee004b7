package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"moneytalk/internal/models"
)

// Store is the ledger collaborator contract the orchestrator consumes.
type Store interface {
	Record(ctx context.Context, userID int64, draft models.TransactionDraft) (int64, error)
	Aggregate(ctx context.Context, userID int64, start, end time.Time, txType models.TxType) (models.AggregationResult, error)
}

// Repository implements Store on sqlite.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// EnsureDefaultUser returns the id of the built-in single user.
func (r *Repository) EnsureDefaultUser() (int64, error) {
	var id int64
	err := r.db.QueryRow(`SELECT id FROM users WHERE name = 'default'`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("default user missing: %w", err)
	}
	return id, nil
}

// Record persists a fully valid draft. An invalid amount is a programmer
// error at this layer; drafts are validated upstream.
func (r *Repository) Record(ctx context.Context, userID int64, draft models.TransactionDraft) (int64, error) {
	if !draft.Amount.Valid {
		return 0, fmt.Errorf("refusing to record draft with invalid amount")
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, txn_date, merchant, category, amount, type, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, draft.Date, draft.Merchant, draft.Category, draft.Amount.Value, string(draft.Type), draft.Note,
	)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}
	return id, nil
}

// Aggregate computes the full aggregation result for one period. All derived
// numbers (save percentage, daily average) are computed here so downstream
// layers only format them.
func (r *Repository) Aggregate(ctx context.Context, userID int64, start, end time.Time, txType models.TxType) (models.AggregationResult, error) {
	var result models.AggregationResult

	where := `user_id = ? AND txn_date BETWEEN ? AND ?`
	args := []any{userID, start.Format("2006-01-02"), end.Format("2006-01-02")}
	if txType == models.TxTypeIncome || txType == models.TxTypeExpense {
		where += ` AND type = ?`
		args = append(args, string(txType))
	}

	totalsSQL := `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'thu' THEN amount ELSE 0 END), 0) AS total_income,
			COALESCE(SUM(CASE WHEN type = 'chi' THEN amount ELSE 0 END), 0) AS total_expense,
			COUNT(*) AS transaction_count,
			COALESCE(MAX(amount), 0) AS largest_transaction
		FROM transactions WHERE ` + where

	err := r.db.QueryRowContext(ctx, totalsSQL, args...).Scan(
		&result.TotalIncome, &result.TotalExpense, &result.TransactionCount, &result.LargestTransaction,
	)
	if err != nil {
		return models.AggregationResult{}, fmt.Errorf("aggregate totals: %w", err)
	}

	perCatSQL := `
		SELECT category, SUM(amount) AS total
		FROM transactions WHERE ` + where + `
		GROUP BY category ORDER BY total DESC`

	rows, err := r.db.QueryContext(ctx, perCatSQL, args...)
	if err != nil {
		return models.AggregationResult{}, fmt.Errorf("aggregate per category: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cat sql.NullString
		var total float64
		if err := rows.Scan(&cat, &total); err != nil {
			return models.AggregationResult{}, fmt.Errorf("scan category row: %w", err)
		}
		name := cat.String
		if name == "" {
			name = "Khác"
		}
		result.PerCategory = append(result.PerCategory, models.CategoryTotal{Category: name, Total: total})
	}
	if err := rows.Err(); err != nil {
		return models.AggregationResult{}, fmt.Errorf("iterate category rows: %w", err)
	}

	if len(result.PerCategory) > 0 {
		top := result.PerCategory[0]
		result.TopCategory = &top
	}

	if result.TotalIncome > 0 {
		result.SavePercentage = (result.TotalIncome - result.TotalExpense) / result.TotalIncome * 100
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days > 0 {
		result.DailyAverageExpense = result.TotalExpense / float64(days)
	}

	return result, nil
}

// Recent returns the newest transactions for the history view.
func (r *Repository) Recent(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, txn_date, merchant, category, amount, type, note, created_at
		FROM transactions WHERE user_id = ?
		ORDER BY id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.TxnDate, &tx.Merchant, &tx.Category, &tx.Amount, &tx.Type, &tx.Note, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}
