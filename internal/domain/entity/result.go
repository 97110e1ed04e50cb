package entity

import (
	"strconv"
	"time"
)

// InferenceResult итог одного цикла съёмки и оценки.
type InferenceResult struct {
	Score float32
	Err   error
}

// ScoreRecord запись истории оценок.
type ScoreRecord struct {
	ID        int64
	Score     float32
	CreatedAt time.Time
}

// FormatScore печатает оценку кратчайшим представлением float32: 0.73, а не 0.7300000190734863.
func FormatScore(score float32) string {
	return strconv.FormatFloat(float64(score), 'f', -1, 32)
}
