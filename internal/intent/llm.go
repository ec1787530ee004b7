package intent

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Generator is the narrow slice of the language-model client this package
// needs. The real implementations live in internal/llm.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const classifyPrompt = `Bạn là bộ phân loại tin nhắn cho ứng dụng quản lý chi tiêu.
Phân loại tin nhắn tiếng Việt sau thành một trong các intent:
- "transaction": ghi nhận một giao dịch thu/chi
- "report": yêu cầu tổng hợp/báo cáo theo khoảng thời gian
- "both": vừa ghi giao dịch vừa yêu cầu báo cáo
- "unclear": không xác định được

Trả về ONLY JSON, không có text khác:
{"intent": "...", "transaction_score": số, "report_score": số}

Tin nhắn: `

// LLMClassifier asks a language model to classify ambiguous free text. It
// obeys the same return contract as Classifier: a Score, always, with
// Unclear when the model cannot be reached or answers garbage.
type LLMClassifier struct {
	gen      Generator
	attempts int
	backoff  time.Duration
	timeout  time.Duration
}

func NewLLMClassifier(gen Generator) *LLMClassifier {
	return &LLMClassifier{
		gen:      gen,
		attempts: 2,
		backoff:  500 * time.Millisecond,
		timeout:  10 * time.Second,
	}
}

// Classify makes exactly two attempts with exponential backoff between them,
// then degrades to Unclear.
func (c *LLMClassifier) Classify(ctx context.Context, text string) Score {
	unclear := Score{Intent: Unclear}

	wait := c.backoff
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return unclear
			}
			wait *= 2
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		raw, err := c.gen.Generate(attemptCtx, classifyPrompt+text)
		cancel()
		if err != nil {
			continue
		}
		if score, ok := parseScore(raw); ok {
			return score
		}
	}
	return unclear
}

func parseScore(raw string) (Score, bool) {
	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return Score{}, false
	}

	var parsed struct {
		Intent           string  `json:"intent"`
		TransactionScore float64 `json:"transaction_score"`
		ReportScore      float64 `json:"report_score"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return Score{}, false
	}

	var resolved Intent
	switch Intent(strings.ToLower(parsed.Intent)) {
	case Transaction, Report, Both, Unclear:
		resolved = Intent(strings.ToLower(parsed.Intent))
	default:
		return Score{}, false
	}

	return Score{
		TransactionScore: parsed.TransactionScore,
		ReportScore:      parsed.ReportScore,
		Intent:           resolved,
	}, true
}

// extractJSON pulls the first {...} block out of a model response that may be
// wrapped in prose or markdown fences.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}
