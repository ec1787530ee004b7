// Package orchestrator sequences one chat message through normalization,
// classification, extraction or period resolution, aggregation and report
// synthesis. The heuristic pipeline is pure; the only suspension points are
// the ledger query and the generator call inside the synthesizer.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"moneytalk/internal/extract"
	"moneytalk/internal/intent"
	"moneytalk/internal/ledger"
	"moneytalk/internal/llm"
	"moneytalk/internal/models"
	"moneytalk/internal/period"
	"moneytalk/internal/report"
	"moneytalk/internal/textnorm"
)

// Fixed user-facing messages.
const (
	msgUnclear = "Mình chưa hiểu ý bạn. Ví dụ:\n" +
		"• Ghi giao dịch: \"Cafe 50k\" hoặc \"bot c 50k ăn sáng\"\n" +
		"• Xem báo cáo: \"Tổng hợp tháng này\""
	msgBadAmount = "⚠️ Mình không đọc được số tiền nên chưa ghi lại. " +
		"Vui lòng nhập số hợp lệ (ví dụ: 50000, 50k, 5m, 5m2)."
	msgBadPeriod = "⚠️ Mình chưa xác định được khoảng thời gian. Thử:\n" +
		"• \"tháng này\", \"tháng trước\", \"tháng 11\"\n" +
		"• \"7 ngày qua\"\n" +
		"• \"từ 01/11 đến 15/11\""
)

// ReportSynthesizer is the narrative-rendering collaborator.
type ReportSynthesizer interface {
	Synthesize(ctx context.Context, agg models.AggregationResult, periodLabel string, txType models.TxType) models.ReportText
}

// Result is the outcome of one message.
type Result struct {
	Intent        intent.Intent            `json:"intent"`
	ReplyText     string                   `json:"reply_text"`
	TransactionID *int64                   `json:"transaction_id,omitempty"`
	Draft         *models.TransactionDraft `json:"draft,omitempty"`
	Report        *models.ReportText       `json:"report,omitempty"`
}

// Orchestrator wires the pipeline together. All collaborator calls go
// through injected interfaces so the flow is testable without network or
// disk.
type Orchestrator struct {
	classifier *intent.Classifier
	resolver   *period.Resolver
	extractor  *extract.Extractor
	store      ledger.Store
	synth      ReportSynthesizer
	prompts    *llm.PromptCache
	minRunes   int
	log        zerolog.Logger
}

func New(classifier *intent.Classifier, resolver *period.Resolver, extractor *extract.Extractor,
	store ledger.Store, synth ReportSynthesizer, prompts *llm.PromptCache, minRunes int, log zerolog.Logger) *Orchestrator {
	if minRunes <= 0 {
		minRunes = 4
	}
	return &Orchestrator{
		classifier: classifier,
		resolver:   resolver,
		extractor:  extractor,
		store:      store,
		synth:      synth,
		prompts:    prompts,
		minRunes:   minRunes,
		log:        log,
	}
}

// Prompts exposes the prompt cache so its contents can be invalidated at
// runtime.
func (o *Orchestrator) Prompts() *llm.PromptCache {
	return o.prompts
}

// Handle processes one raw message for one user.
func (o *Orchestrator) Handle(ctx context.Context, userID int64, raw string) Result {
	text := textnorm.Normalize(raw)

	// Quick-entry command syntax bypasses classification entirely.
	if draft, isCmd, err := o.extractor.FromCommand(text); isCmd {
		if err != nil {
			return Result{Intent: intent.Transaction, ReplyText: msgBadAmount}
		}
		return o.record(ctx, userID, draft)
	}

	// Noisy speech transcripts often degrade to a syllable or two; those
	// never reach the classifier.
	if utf8.RuneCountInString(text) < o.minRunes {
		return Result{Intent: intent.Unclear, ReplyText: msgUnclear}
	}

	score := o.classifier.Classify(text)
	o.log.Debug().
		Str("text", text).
		Float64("tx_score", score.TransactionScore).
		Float64("report_score", score.ReportScore).
		Str("intent", string(score.Intent)).
		Msg("classified message")

	switch score.Intent {
	case intent.Transaction:
		return o.transactionPath(ctx, userID, text)
	case intent.Report:
		return o.reportPath(ctx, userID, text)
	case intent.Both:
		return o.bothPath(ctx, userID, text)
	case intent.Unclear:
		return Result{Intent: intent.Unclear, ReplyText: msgUnclear}
	default:
		return Result{Intent: intent.Unclear, ReplyText: msgUnclear}
	}
}

// HandleReport runs the report path directly, skipping classification. Used
// by the report API endpoint where the caller already asked for a report.
func (o *Orchestrator) HandleReport(ctx context.Context, userID int64, raw string) Result {
	return o.reportPath(ctx, userID, textnorm.Normalize(raw))
}

func (o *Orchestrator) transactionPath(ctx context.Context, userID int64, text string) Result {
	draft, err := o.extractor.FromText(text)
	if errors.Is(err, extract.ErrUnparseableAmount) {
		return Result{Intent: intent.Transaction, ReplyText: msgBadAmount}
	}
	if err != nil {
		return Result{Intent: intent.Transaction, ReplyText: msgBadAmount}
	}
	res := o.record(ctx, userID, draft)
	res.Intent = intent.Transaction
	return res
}

func (o *Orchestrator) record(ctx context.Context, userID int64, draft models.TransactionDraft) Result {
	id, err := o.store.Record(ctx, userID, draft)
	if err != nil {
		o.log.Error().Err(err).Msg("ledger record failed")
		return Result{
			Intent:    intent.Transaction,
			ReplyText: fmt.Sprintf("❌ Không thể lưu giao dịch: %v", err),
		}
	}

	label := "Chi tiêu 📉"
	if draft.Type == models.TxTypeIncome {
		label = "Thu nhập 📈"
	}
	reply := fmt.Sprintf("✅ Ghi nhận giao dịch thành công!\n👀 Loại: %s\n💵 Số tiền: %s\n📝 Ghi chú: %s",
		label, report.FormatVND(draft.Amount.Value), draft.Note)

	return Result{
		Intent:        intent.Transaction,
		ReplyText:     reply,
		TransactionID: &id,
		Draft:         &draft,
	}
}

func (o *Orchestrator) reportPath(ctx context.Context, userID int64, text string) Result {
	req, ok := o.resolver.Resolve(text)
	if !ok {
		// Never substitute a default window. The type filter may still have
		// been understood; say so.
		reply := msgBadPeriod
		if req.Type != models.TxTypeBoth {
			reply = fmt.Sprintf("Đã hiểu bạn muốn xem %s, nhưng chưa rõ khoảng thời gian.\n%s",
				typeLabel(req.Type), msgBadPeriod)
		}
		return Result{Intent: intent.Report, ReplyText: reply}
	}

	agg, err := o.store.Aggregate(ctx, userID, req.Start, req.End, req.Type)
	if err != nil {
		// Aggregation failures are surfaced verbatim and not retried here.
		o.log.Error().Err(err).Msg("ledger aggregation failed")
		return Result{
			Intent:    intent.Report,
			ReplyText: fmt.Sprintf("❌ Không thể truy vấn sổ giao dịch: %v", err),
		}
	}

	label := periodLabel(req)
	rpt := o.synth.Synthesize(ctx, agg, label, req.Type)
	return Result{
		Intent:    intent.Report,
		ReplyText: rpt.Body,
		Report:    &rpt,
	}
}

// bothPath records first, best-effort, then always produces the report.
func (o *Orchestrator) bothPath(ctx context.Context, userID int64, text string) Result {
	txRes := o.transactionPath(ctx, userID, text)
	rpRes := o.reportPath(ctx, userID, text)

	combined := Result{
		Intent:        intent.Both,
		ReplyText:     txRes.ReplyText + "\n\n" + rpRes.ReplyText,
		TransactionID: txRes.TransactionID,
		Draft:         txRes.Draft,
		Report:        rpRes.Report,
	}
	return combined
}

func periodLabel(req period.Request) string {
	return req.Start.Format("02/01/2006") + " đến " + req.End.Format("02/01/2006")
}

func typeLabel(t models.TxType) string {
	switch t {
	case models.TxTypeIncome:
		return "thu nhập"
	case models.TxTypeExpense:
		return "chi tiêu"
	default:
		return "thu chi"
	}
}
