package ledger

import (
	"context"
	"testing"
	"time"

	"moneytalk/internal/amount"
	"moneytalk/internal/models"
)

func testRepo(t *testing.T) (*Repository, int64) {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db)
	userID, err := repo.EnsureDefaultUser()
	if err != nil {
		t.Fatalf("default user: %v", err)
	}
	return repo, userID
}

func record(t *testing.T, repo *Repository, userID int64, date, category string, value float64, typ models.TxType) {
	t.Helper()
	_, err := repo.Record(context.Background(), userID, models.TransactionDraft{
		Merchant: "test",
		Category: category,
		Amount:   amount.Value{Value: value, Valid: true},
		Date:     date,
		Type:     typ,
		Note:     category,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
}

func TestAggregate(t *testing.T) {
	repo, userID := testRepo(t)
	ctx := context.Background()

	record(t, repo, userID, "2025-11-03", "Lương", 12000000, models.TxTypeIncome)
	record(t, repo, userID, "2025-11-05", "Ăn uống", 2500000, models.TxTypeExpense)
	record(t, repo, userID, "2025-11-10", "Xe cộ", 500000, models.TxTypeExpense)
	record(t, repo, userID, "2025-12-01", "Ăn uống", 999999, models.TxTypeExpense) // outside period

	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)

	got, err := repo.Aggregate(ctx, userID, start, end, models.TxTypeBoth)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	if got.TotalIncome != 12000000 {
		t.Fatalf("total income = %v", got.TotalIncome)
	}
	if got.TotalExpense != 3000000 {
		t.Fatalf("total expense = %v", got.TotalExpense)
	}
	if got.TransactionCount != 3 {
		t.Fatalf("count = %d", got.TransactionCount)
	}
	if got.LargestTransaction != 12000000 {
		t.Fatalf("largest = %v", got.LargestTransaction)
	}
	if got.TopCategory == nil || got.TopCategory.Category != "Lương" {
		t.Fatalf("top category = %+v", got.TopCategory)
	}
	if got.SavePercentage != 75 {
		t.Fatalf("save pct = %v, want 75", got.SavePercentage)
	}
	if got.DailyAverageExpense != 3000000.0/30 {
		t.Fatalf("daily avg = %v", got.DailyAverageExpense)
	}
}

func TestAggregateExpenseFilter(t *testing.T) {
	repo, userID := testRepo(t)
	ctx := context.Background()

	record(t, repo, userID, "2025-11-03", "Lương", 12000000, models.TxTypeIncome)
	record(t, repo, userID, "2025-11-05", "Ăn uống", 2500000, models.TxTypeExpense)

	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)

	got, err := repo.Aggregate(ctx, userID, start, end, models.TxTypeExpense)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if got.TotalIncome != 0 || got.TotalExpense != 2500000 || got.TransactionCount != 1 {
		t.Fatalf("got %+v", got)
	}
	if got.TopCategory == nil || got.TopCategory.Category != "Ăn uống" {
		t.Fatalf("top category = %+v", got.TopCategory)
	}
}

func TestAggregateEmptyPeriod(t *testing.T) {
	repo, userID := testRepo(t)

	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)

	got, err := repo.Aggregate(context.Background(), userID, start, end, models.TxTypeBoth)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if got.TransactionCount != 0 || got.TopCategory != nil {
		t.Fatalf("got %+v, want empty result", got)
	}
}

func TestRecordRejectsInvalidAmount(t *testing.T) {
	repo, userID := testRepo(t)

	_, err := repo.Record(context.Background(), userID, models.TransactionDraft{
		Date: "2025-11-03",
		Type: models.TxTypeExpense,
	})
	if err == nil {
		t.Fatal("expected rejection of invalid amount")
	}
}

func TestRecent(t *testing.T) {
	repo, userID := testRepo(t)

	record(t, repo, userID, "2025-11-03", "Ăn uống", 50000, models.TxTypeExpense)
	record(t, repo, userID, "2025-11-04", "Xe cộ", 70000, models.TxTypeExpense)

	txs, err := repo.Recent(context.Background(), userID, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("len = %d", len(txs))
	}
	if txs[0].TxnDate != "2025-11-04" {
		t.Fatalf("newest first expected, got %q", txs[0].TxnDate)
	}
}
