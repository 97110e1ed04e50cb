package api

import (
	"fmt"
	"strings"

	"how-pretty/internal/domain/entity"
)

// FormatHistory печатает историю оценок, новые первыми.
func FormatHistory(records []entity.ScoreRecord) string {
	if len(records) == 0 {
		return "No scores yet."
	}

	var b strings.Builder
	b.WriteString("Recent scores:")
	for _, r := range records {
		fmt.Fprintf(&b, "\n%s  %s", r.CreatedAt.Local().Format("2006-01-02 15:04:05"), entity.FormatScore(r.Score))
	}
	return b.String()
}
