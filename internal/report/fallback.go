package report

import (
	"fmt"
	"strconv"
	"strings"

	"moneytalk/internal/models"
)

// renderFallback is the deterministic report body. It formats only values
// already present in the aggregation result.
func renderFallback(agg models.AggregationResult, periodLabel string) string {
	if periodLabel == "" {
		periodLabel = "N/A"
	}

	var lines []string
	lines = append(lines, "📊 BÁO CÁO TÀI CHÍNH — "+periodLabel)
	lines = append(lines, "")
	lines = append(lines, "• Tổng thu: "+FormatVND(agg.TotalIncome))
	lines = append(lines, "• Tổng chi: "+FormatVND(agg.TotalExpense))
	lines = append(lines, "• Số giao dịch: "+strconv.Itoa(agg.TransactionCount))
	if agg.TransactionCount > 0 {
		lines = append(lines, "• Giao dịch lớn nhất: "+FormatVND(agg.LargestTransaction))
		lines = append(lines, "• Chi trung bình/ngày: "+FormatVND(agg.DailyAverageExpense))
		lines = append(lines, fmt.Sprintf("• Tỷ lệ tiết kiệm: %.0f%%", agg.SavePercentage))
	}
	lines = append(lines, "")

	if len(agg.PerCategory) > 0 {
		lines = append(lines, "Phân bổ theo danh mục (top 3):")
		top := agg.PerCategory
		if len(top) > 3 {
			top = top[:3]
		}
		maxVal := top[0].Total
		flow := agg.TotalExpense
		if flow <= 0 {
			flow = agg.TotalIncome + agg.TotalExpense
		}
		for i, c := range top {
			pct := 0.0
			if flow > 0 {
				pct = c.Total / flow * 100
			}
			lines = append(lines, fmt.Sprintf("%d. %s: %s | %s %.0f%%", i+1, c.Category, FormatVND(c.Total), bar(c.Total, maxVal, 20), pct))
		}
		lines = append(lines, "")
	}

	if agg.TopCategory != nil {
		lines = append(lines, "Danh mục nhiều nhất: "+agg.TopCategory.Category+" — "+FormatVND(agg.TopCategory.Total))
	} else {
		lines = append(lines, "Không có danh mục nổi bật.")
	}

	lines = append(lines, "")
	lines = append(lines, observations(agg)...)
	lines = append(lines, "")
	lines = append(lines, "— Kết thúc báo cáo —")
	return strings.Join(lines, "\n")
}

// observations emits one or two rule-based hints derived from the supplied
// numbers only.
func observations(agg models.AggregationResult) []string {
	if agg.TransactionCount == 0 {
		return []string{"Không có giao dịch phát sinh trong kỳ."}
	}

	total := agg.TotalIncome + agg.TotalExpense
	if total <= 0 {
		return []string{"Không có dữ liệu tài chính hữu ích để phân tích."}
	}

	var out []string
	expenseRatio := agg.TotalExpense / total * 100
	out = append(out, fmt.Sprintf("Tỷ lệ chi so với tổng: %.0f%%.", expenseRatio))

	switch {
	case expenseRatio > 70:
		out = append(out, "Khuyến nghị: Chi tiêu cao trong kỳ — cân nhắc cắt giảm các khoản không thiết yếu.")
	case agg.TopCategory != nil && agg.TotalExpense > 0 && agg.TopCategory.Total > agg.TotalExpense/2:
		out = append(out, "Khuyến nghị: Danh mục "+agg.TopCategory.Category+" chiếm quá nửa tổng chi — nên rà soát lại.")
	default:
		out = append(out, "Khuyến nghị: Thu chi cân đối — tiếp tục theo dõi.")
	}
	return out
}

// FormatVND renders an amount with thousand separators and the currency
// suffix: 1234567 -> "1,234,567 VND".
func FormatVND(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 0, 64)

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	return out + " VND"
}

func bar(value, max float64, width int) string {
	if max <= 0 || value < 0 {
		return strings.Repeat("░", width)
	}
	filled := int(value/max*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
