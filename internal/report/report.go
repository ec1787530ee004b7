// Package report renders an aggregated period into narrative text. It tries
// the external generator first and falls back to a deterministic template, so
// a report is always produced. This layer only formats numbers the ledger
// already computed; it never re-derives them.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"moneytalk/internal/models"
)

// Generator is the external language-model collaborator. Its output is
// untrusted: empty, non-JSON and markdown-fenced responses are all tolerated.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Context is the compact structured payload handed to the generator.
type Context struct {
	Period              string                `json:"period"`
	TxType              models.TxType         `json:"tx_type"`
	TotalIncome         float64               `json:"total_income"`
	TotalExpense        float64               `json:"total_expense"`
	TransactionCount    int                   `json:"transaction_count"`
	TopCategory         *models.CategoryTotal `json:"top_category,omitempty"`
	SavePercentage      float64               `json:"save_percentage"`
	DailyAverageExpense float64               `json:"daily_average_expense"`
}

const promptTemplate = `Bạn là người viết báo cáo tài chính cá nhân bằng tiếng Việt.

RÀNG BUỘC:
- CHỈ dùng các con số trong JSON dưới đây. KHÔNG tính toán lại, không bịa số mới.
- Xuất Markdown hợp lệ: tiêu đề, gạch đầu dòng, ngắn gọn, dễ đọc trên ứng dụng chat.
- Giữ nguyên giá trị số và thêm hậu tố "VND" khi phù hợp. Nếu giá trị là 0, hiển thị "0 VND".

JSON:
%s

Viết báo cáo gồm: tiêu đề kèm kỳ báo cáo, tóm tắt nhanh 1-2 câu, mục số liệu
chính, danh mục nổi bật, và 1-3 nhận xét hành động được. Chỉ xuất báo cáo,
không thêm lời dẫn.`

// DefaultPromptTemplate returns the built-in report prompt. Callers that
// load an operator-supplied prompt file use it as the fallback.
func DefaultPromptTemplate() string {
	return promptTemplate
}

// Synthesizer builds ReportText from aggregated numbers.
type Synthesizer struct {
	gen      Generator
	policy   RetryPolicy
	template func() string
	log      zerolog.Logger
}

func NewSynthesizer(gen Generator, policy RetryPolicy, log zerolog.Logger) *Synthesizer {
	return &Synthesizer{
		gen:      gen,
		policy:   policy,
		template: func() string { return promptTemplate },
		log:      log,
	}
}

// WithTemplateSource swaps the built-in prompt template for a dynamic source,
// e.g. an operator-supplied prompt file behind a cache. The template must
// contain one %s verb for the JSON context.
func (s *Synthesizer) WithTemplateSource(fn func() string) *Synthesizer {
	s.template = fn
	return s
}

// Synthesize never fails: when both generator attempts are exhausted (or the
// request is cancelled mid-call) it renders the deterministic fallback with
// UsedFallback set.
func (s *Synthesizer) Synthesize(ctx context.Context, agg models.AggregationResult, periodLabel string, txType models.TxType) models.ReportText {
	rc := Context{
		Period:              periodLabel,
		TxType:              txType,
		TotalIncome:         agg.TotalIncome,
		TotalExpense:        agg.TotalExpense,
		TransactionCount:    agg.TransactionCount,
		TopCategory:         agg.TopCategory,
		SavePercentage:      agg.SavePercentage,
		DailyAverageExpense: agg.DailyAverageExpense,
	}

	visual := renderFallback(agg, periodLabel)

	generated, err := s.generate(ctx, rc)
	if err != nil {
		s.log.Warn().Err(err).Str("period", periodLabel).Msg("generator unavailable, using deterministic report")
		return models.ReportText{
			Body:         visual + "\n\n(Lưu ý: trình tạo ngôn ngữ không phản hồi, gửi báo cáo dạng văn bản cơ bản.)",
			UsedFallback: true,
		}
	}

	return models.ReportText{Body: generated + "\n\n" + visual}
}

func (s *Synthesizer) generate(ctx context.Context, rc Context) (string, error) {
	payload, err := json.Marshal(rc)
	if err != nil {
		return "", fmt.Errorf("marshal report context: %w", err)
	}
	prompt := fmt.Sprintf(s.template(), string(payload))

	raw, err := s.policy.Do(ctx, func(ctx context.Context) (string, error) {
		return s.gen.Generate(ctx, prompt)
	})
	if err != nil {
		return "", err
	}

	text := stripFences(raw)
	if text == "" {
		return "", fmt.Errorf("generator returned empty report")
	}
	return text, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
