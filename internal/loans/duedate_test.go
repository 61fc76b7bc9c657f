package loans

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestDueAtDayArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		borrowed time.Time
		want     time.Time
	}{
		{
			name:     "month rollover",
			borrowed: time.Date(2026, time.January, 20, 10, 30, 0, 0, time.UTC),
			want:     time.Date(2026, time.February, 3, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "year rollover",
			borrowed: time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC),
			want:     time.Date(2026, time.January, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "leap february",
			borrowed: time.Date(2024, time.February, 20, 23, 59, 59, 0, time.UTC),
			want:     time.Date(2024, time.March, 5, 23, 59, 59, 0, time.UTC),
		},
		{
			name:     "mid month",
			borrowed: time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC),
			want:     time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, dueAt(tt.borrowed).Equal(tt.want), "dueAt(%v) = %v, want %v", tt.borrowed, dueAt(tt.borrowed), tt.want)
		})
	}
}

func TestDueAtProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seconds := rapid.Int64Range(0, 4102444800).Draw(t, "unix") // up to year 2100
		borrowed := time.Unix(seconds, 0).UTC()

		due := dueAt(borrowed)

		if got := due.Sub(borrowed); got != 14*24*time.Hour {
			t.Fatalf("due - borrowed = %v, want 336h", got)
		}
		h1, m1, s1 := borrowed.Clock()
		h2, m2, s2 := due.Clock()
		if h1 != h2 || m1 != m2 || s1 != s2 {
			t.Fatalf("wall clock changed: %v -> %v", borrowed, due)
		}
	})
}
