package progress

import (
	"strconv"
	"strings"
	"time"

	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CSV EXPORT
// Формат файла фиксирован для совместимости с внешними таблицами:
// строка на сессию, затем блок сводной статистики через пустые строки.
// ══════════════════════════════════════════════════════════════════════════════

// ExportCSV формирует CSV-отчёт по журналу сессий и производным метрикам.
func (st *State) ExportCSV(now time.Time) string {
	var b strings.Builder
	b.WriteString("Timestamp,Game,Score,Total,Completed\n")

	for _, s := range st.Sessions {
		b.WriteString(s.Timestamp.Format(time.RFC3339))
		b.WriteByte(',')
		b.WriteString(s.Subject.String())
		b.WriteByte(',')
		b.WriteString(formatNumber(s.Score))
		b.WriteByte(',')
		b.WriteString(formatNumber(s.Total))
		b.WriteByte(',')
		b.WriteString(strconv.FormatBool(s.Completed))
		b.WriteByte('\n')
	}

	b.WriteString("\n\nSummary Statistics\n")
	b.WriteString("Metric,Value\n")
	b.WriteString("Total Sessions," + strconv.Itoa(st.TotalSessions()) + "\n")
	b.WriteString("Engagement Rate," + strconv.Itoa(st.Engagement(now)) + "%\n")
	b.WriteString("Average Score," + strconv.Itoa(st.AverageScore()) + "%\n")
	b.WriteString("Math Questions," + formatNumber(st.Totals[shared.SubjectMath].CumulativeTotal) + "\n")
	b.WriteString("Science Matches," + formatNumber(st.Totals[shared.SubjectScience].CumulativeScore) + "\n")
	b.WriteString("Coding Puzzles," + formatNumber(st.Totals[shared.SubjectCoding].CumulativeScore) + "\n")

	return b.String()
}

// formatNumber печатает число без хвостовых нулей: 10, а не 10.000000.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
