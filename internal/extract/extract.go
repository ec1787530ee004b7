// Package extract turns a transaction-intent message into a TransactionDraft.
// A draft is all-or-nothing: without a parseable amount nothing is produced.
package extract

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"moneytalk/internal/amount"
	"moneytalk/internal/models"
)

// ErrUnparseableAmount means no recognized amount grammar was found; the
// caller must answer "cannot record", never default the amount to zero.
var ErrUnparseableAmount = errors.New("no parseable amount in message")

var (
	// Candidate money tokens: suffixed shorthand ("50k", "5m2") or at least
	// four digits. Bare small integers ("2 vé") are not amounts.
	amountTokenRe = regexp.MustCompile(`(?i)\b\d+(?:[.,]\d+)*(?:k|m\d*)\b|\b\d{4,}(?:[.,]\d{3})*\b`)

	dateISORe   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	dateSlashRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)

	commandRe = regexp.MustCompile(`(?i)^bot\s+([tc])\s+(\S+)\s+(.+)$`)
)

var incomeCues = []string{"nhận", "lương", "thu nhập", "tiền vào", "được trả", "hoàn tiền"}

// categoryCues maps keyword cues to the ledger's category taxonomy, one
// table per side.
var expenseCategoryCues = []struct {
	category string
	cues     []string
}{
	{"Ăn uống", []string{"ăn", "cafe", "cà phê", "cơm", "phở", "bún", "trà", "quán", "nhà hàng"}},
	{"Xe cộ", []string{"xăng", "grab", "taxi", "xe", "gửi xe", "rửa xe"}},
	{"Mua sắm", []string{"mua", "shopee", "lazada", "tiki", "quần áo", "giày"}},
	{"Điện", []string{"tiền điện", "hóa đơn điện"}},
	{"Nước", []string{"tiền nước", "hóa đơn nước"}},
	{"Internet", []string{"internet", "wifi", "4g", "5g"}},
	{"Thuê nhà", []string{"thuê nhà", "tiền nhà", "tiền phòng"}},
	{"Y tế", []string{"thuốc", "khám", "bệnh viện"}},
	{"Giải trí", []string{"phim", "game", "karaoke", "du lịch"}},
	{"Học tập", []string{"học phí", "sách", "khóa học"}},
}

var incomeCategoryCues = []struct {
	category string
	cues     []string
}{
	{"Lương", []string{"lương"}},
	{"Tiền lãi đầu tư", []string{"lãi", "cổ tức", "đầu tư"}},
	{"Tiền cho thuê nhà", []string{"cho thuê"}},
}

// Extractor parses free text into drafts. The clock is injectable so the
// default transaction date is testable.
type Extractor struct {
	now func() time.Time
}

func NewExtractor() *Extractor {
	return &Extractor{now: time.Now}
}

func NewExtractorAt(now func() time.Time) *Extractor {
	return &Extractor{now: now}
}

// FromText builds a draft from a normalized free-text message. It fails with
// ErrUnparseableAmount when no money token is present.
func (e *Extractor) FromText(text string) (models.TransactionDraft, error) {
	lower := strings.ToLower(text)

	token, value, ok := findAmount(lower)
	if !ok {
		return models.TransactionDraft{}, ErrUnparseableAmount
	}

	txType := models.TxTypeExpense
	if containsAny(lower, incomeCues) {
		txType = models.TxTypeIncome
	}

	return models.TransactionDraft{
		Merchant: merchantFrom(text, token),
		Category: categoryFor(lower, txType),
		Amount:   value,
		Date:     e.dateFrom(lower),
		Type:     txType,
		Note:     text,
	}, nil
}

// FromCommand handles the exact quick-entry syntax "bot <t|c> <amount> <note>".
// The second return is false when the message is not a command at all.
func (e *Extractor) FromCommand(text string) (models.TransactionDraft, bool, error) {
	if !strings.HasPrefix(strings.ToLower(text), "bot ") {
		return models.TransactionDraft{}, false, nil
	}

	m := commandRe.FindStringSubmatch(text)
	if m == nil {
		return models.TransactionDraft{}, true, ErrUnparseableAmount
	}

	value := amount.Parse(m[2])
	if !value.Valid {
		return models.TransactionDraft{}, true, ErrUnparseableAmount
	}

	txType := models.TxTypeExpense
	if strings.EqualFold(m[1], "t") {
		txType = models.TxTypeIncome
	}
	note := strings.TrimSpace(m[3])

	return models.TransactionDraft{
		Merchant: merchantFrom(note, ""),
		Category: categoryFor(strings.ToLower(note), txType),
		Amount:   value,
		Date:     e.dateFrom(strings.ToLower(note)),
		Type:     txType,
		Note:     note,
	}, true, nil
}

// findAmount returns the last parseable money token, mirroring how people
// write amounts at the end of a note. Digit runs glued to '/' or '-' are
// pieces of a date, not money.
func findAmount(lower string) (string, amount.Value, bool) {
	idxs := amountTokenRe.FindAllStringIndex(lower, -1)
	for i := len(idxs) - 1; i >= 0; i-- {
		start, end := idxs[i][0], idxs[i][1]
		if start > 0 && (lower[start-1] == '/' || lower[start-1] == '-') {
			continue
		}
		if end < len(lower) && (lower[end] == '/' || lower[end] == '-') {
			continue
		}
		token := lower[start:end]
		if v := amount.Parse(token); v.Valid {
			return token, v, true
		}
	}
	return "", amount.Invalid, false
}

func (e *Extractor) dateFrom(lower string) string {
	if m := dateISORe.FindStringSubmatch(lower); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}
	if m := dateSlashRe.FindStringSubmatch(lower); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local).Format("2006-01-02")
		}
	}
	if strings.Contains(lower, "hôm qua") {
		return e.now().AddDate(0, 0, -1).Format("2006-01-02")
	}
	return e.now().Format("2006-01-02")
}

func categoryFor(lower string, txType models.TxType) string {
	if txType == models.TxTypeIncome {
		for _, entry := range incomeCategoryCues {
			if containsAny(lower, entry.cues) {
				return entry.category
			}
		}
		return "Thu nhập khác"
	}
	for _, entry := range expenseCategoryCues {
		if containsAny(lower, entry.cues) {
			return entry.category
		}
	}
	return "Chi tiêu khác"
}

// merchantFrom takes the words before the amount token as the merchant, with
// "Payment" as the last resort.
func merchantFrom(text, amountToken string) string {
	head := text
	if amountToken != "" {
		if idx := strings.Index(strings.ToLower(text), amountToken); idx >= 0 {
			head = text[:idx]
		}
	}
	head = strings.TrimSpace(head)
	if head == "" {
		return "Payment"
	}
	words := strings.Fields(head)
	if len(words) > 4 {
		words = words[len(words)-4:]
	}
	return strings.Join(words, " ")
}

func containsAny(s string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(s, cue) {
			return true
		}
	}
	return false
}
