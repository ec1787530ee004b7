// Package intent decides what a chat message is asking for: record a
// transaction, produce a report, both, or neither. The heuristic classifier
// is a pure function of the normalized text so it can run on any number of
// concurrent requests with no locking.
package intent

import (
	"regexp"
	"strings"
)

// Intent is the resolved purpose of a message.
type Intent string

const (
	Transaction Intent = "transaction"
	Report      Intent = "report"
	Both        Intent = "both"
	Unclear     Intent = "unclear"
)

// Score carries both side scores and the resolved intent. Identical input
// always yields an identical Score.
type Score struct {
	TransactionScore float64 `json:"transaction_score"`
	ReportScore      float64 `json:"report_score"`
	Intent           Intent  `json:"intent"`
}

// Config holds the cue weights shared bonuses and thresholds. These were
// tuned by hand against real chat logs; the algorithm shape is fixed but the
// numbers are configuration.
type Config struct {
	TransactionThreshold float64
	ReportThreshold      float64
	// AmountBonus is added to the transaction side when a money pattern is
	// present; CurrencyBonus when a bare currency token is.
	AmountBonus   float64
	CurrencyBonus float64
	// ReportPenalty is subtracted from the transaction score when any report
	// cue matched, and TransactionPenalty from the report score when any
	// transaction cue matched. This keeps a category name inside a reporting
	// sentence from also tripping the transaction threshold.
	ReportPenalty      float64
	TransactionPenalty float64
}

// DefaultConfig returns the tuned weights.
func DefaultConfig() Config {
	return Config{
		TransactionThreshold: 2.0,
		ReportThreshold:      2.0,
		AmountBonus:          2.5,
		CurrencyBonus:        1.0,
		ReportPenalty:        2.0,
		TransactionPenalty:   1.0,
	}
}

// Two disjoint cue tables. Each cue counts once per message no matter how
// often it repeats.
var transactionCues = map[string]float64{
	"mua":          1.5,
	"trả":          1.5,
	"thanh toán":   2.0,
	"chuyển khoản": 2.0,
	"chuyển tiền":  2.0,
	"nhận":         1.5,
	"nhận lương":   2.5,
	"đóng tiền":    1.5,
	"đổ xăng":      1.5,
	"ăn":           1.0,
	"uống":         1.0,
	"tiêu":         1.0,
	"chi":          1.0,
	"thu":          1.0,
}

var reportCues = map[string]float64{
	"tổng hợp":   2.5,
	"báo cáo":    2.5,
	"thống kê":   2.5,
	"tóm tắt":    2.0,
	"tổng chi":   2.0,
	"tổng thu":   2.0,
	"bao nhiêu":  1.5,
	"tháng này":  1.0,
	"tháng trước": 1.0,
	"tuần":       0.5,
	"ngày qua":   1.0,
	"tháng":      0.5,
}

var (
	// Money needs a unit suffix or at least four digits; a bare "11" in
	// "tháng 11" is not an amount.
	amountPattern   = regexp.MustCompile(`(?i)\b\d+(?:[.,]\d+)*\s*(?:k|m\d*|tr|triệu|nghìn|ngàn)\b|\b\d{4,}\b`)
	currencyPattern = regexp.MustCompile(`(?i)(?:\b(?:vnd|vnđ|đồng)\b|\d\s*(?:đ|₫)(?:\s|$))`)
)

// Classifier scores normalized text against the cue tables. It does no I/O.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify returns both side scores and the resolved intent for one
// normalized message.
func (c *Classifier) Classify(text string) Score {
	lower := strings.ToLower(text)

	txRaw := sumCues(lower, transactionCues)
	reportRaw := sumCues(lower, reportCues)

	if amountPattern.MatchString(lower) {
		txRaw += c.cfg.AmountBonus
	}
	if currencyPattern.MatchString(lower) {
		txRaw += c.cfg.CurrencyBonus
	}

	// Cross-penalties use the raw sums from before either adjustment.
	tx, report := txRaw, reportRaw
	if reportRaw > 0 {
		tx -= c.cfg.ReportPenalty
		if tx < 0 {
			tx = 0
		}
	}
	if txRaw > 0 {
		report -= c.cfg.TransactionPenalty
		if report < 0 {
			report = 0
		}
	}

	return Score{
		TransactionScore: tx,
		ReportScore:      report,
		Intent:           c.resolve(tx, report),
	}
}

func (c *Classifier) resolve(tx, report float64) Intent {
	overTx := tx >= c.cfg.TransactionThreshold
	overReport := report >= c.cfg.ReportThreshold
	switch {
	case overTx && overReport:
		return Both
	case overTx:
		return Transaction
	case overReport:
		return Report
	default:
		return Unclear
	}
}

func sumCues(lower string, cues map[string]float64) float64 {
	var total float64
	for cue, weight := range cues {
		if strings.Contains(lower, cue) {
			total += weight
		}
	}
	return total
}
