package extract

import (
	"errors"
	"testing"
	"time"

	"moneytalk/internal/models"
)

func fixedExtractor() *Extractor {
	now := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)
	return NewExtractorAt(func() time.Time { return now })
}

func TestFromTextCafe(t *testing.T) {
	draft, err := fixedExtractor().FromText("Cafe 50k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !draft.Amount.Valid || draft.Amount.Value != 50000 {
		t.Fatalf("amount = %+v, want 50000", draft.Amount)
	}
	if draft.Type != models.TxTypeExpense {
		t.Fatalf("type = %v, want expense", draft.Type)
	}
	if draft.Category != "Ăn uống" {
		t.Fatalf("category = %q, want Ăn uống", draft.Category)
	}
	if draft.Merchant != "Cafe" {
		t.Fatalf("merchant = %q, want Cafe", draft.Merchant)
	}
	if draft.Date != "2026-08-14" {
		t.Fatalf("date = %q, want today", draft.Date)
	}
}

func TestFromTextIncome(t *testing.T) {
	draft, err := fixedExtractor().FromText("Nhận lương tháng 8 12m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Type != models.TxTypeIncome {
		t.Fatalf("type = %v, want income", draft.Type)
	}
	if draft.Amount.Value != 12000000 {
		t.Fatalf("amount = %v, want 12000000", draft.Amount.Value)
	}
	if draft.Category != "Lương" {
		t.Fatalf("category = %q, want Lương", draft.Category)
	}
}

func TestFromTextPicksMoneyTokenNotCount(t *testing.T) {
	draft, err := fixedExtractor().FromText("mua 2 vé xem phim 90k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Amount.Value != 90000 {
		t.Fatalf("amount = %v, want 90000 (not the ticket count)", draft.Amount.Value)
	}
}

func TestFromTextExplicitDate(t *testing.T) {
	draft, err := fixedExtractor().FromText("ăn tối 200k ngày 12/08/2026")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Date != "2026-08-12" {
		t.Fatalf("date = %q, want 2026-08-12", draft.Date)
	}
}

func TestFromTextNoAmount(t *testing.T) {
	_, err := fixedExtractor().FromText("hôm nay đi chơi vui quá")
	if !errors.Is(err, ErrUnparseableAmount) {
		t.Fatalf("err = %v, want ErrUnparseableAmount", err)
	}
}

func TestFromCommand(t *testing.T) {
	draft, isCmd, err := fixedExtractor().FromCommand("bot t 50k Lương tháng 9")
	if !isCmd || err != nil {
		t.Fatalf("isCmd=%v err=%v", isCmd, err)
	}
	if draft.Type != models.TxTypeIncome || draft.Amount.Value != 50000 {
		t.Fatalf("draft = %+v", draft)
	}
	if draft.Note != "Lương tháng 9" {
		t.Fatalf("note = %q", draft.Note)
	}

	draft, isCmd, err = fixedExtractor().FromCommand("bot c 5m2 Mua điện thoại")
	if !isCmd || err != nil {
		t.Fatalf("isCmd=%v err=%v", isCmd, err)
	}
	if draft.Type != models.TxTypeExpense || draft.Amount.Value != 5200000 {
		t.Fatalf("draft = %+v", draft)
	}
}

func TestFromCommandBadAmount(t *testing.T) {
	_, isCmd, err := fixedExtractor().FromCommand("bot c abc ăn sáng")
	if !isCmd {
		t.Fatal("expected command recognition")
	}
	if !errors.Is(err, ErrUnparseableAmount) {
		t.Fatalf("err = %v, want ErrUnparseableAmount", err)
	}
}

func TestFromCommandNotACommand(t *testing.T) {
	_, isCmd, err := fixedExtractor().FromCommand("Cafe 50k")
	if isCmd || err != nil {
		t.Fatalf("isCmd=%v err=%v, want plain text passthrough", isCmd, err)
	}
}
