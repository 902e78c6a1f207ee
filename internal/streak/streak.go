// Package streak computes distraction-free focus streaks from recorded
// time entries. Days are UTC calendar days; multiple entries on the same
// day count once.
package streak

import (
	"time"

	"github.com/alfredjeanlab/tempo/internal/model"
)

// Streak holds the two streak figures shown on the dashboard.
type Streak struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// Calculate filters entries to the given user's distraction-free sessions
// and derives the current and best runs of consecutive UTC days. The
// current streak counts back from today; a day without entries breaks it,
// and an absent today yields zero.
func Calculate(entries []model.TimeEntry, userID string, today time.Time) Streak {
	days := make(map[int64]bool)
	for _, e := range entries {
		if e.UserID != userID || !e.DistractionFree {
			continue
		}
		days[dayOrdinal(e.Start)] = true
	}
	if len(days) == 0 {
		return Streak{}
	}
	return Streak{
		Current: currentRun(days, dayOrdinal(today)),
		Best:    bestRun(days),
	}
}

// dayOrdinal collapses a timestamp to its UTC calendar day, counted in
// days since the Unix epoch so consecutive days differ by exactly one.
func dayOrdinal(t time.Time) int64 {
	u := t.UTC()
	midnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Unix() / 86400
}

func currentRun(days map[int64]bool, today int64) int {
	n := 0
	for d := today; days[d]; d-- {
		n++
	}
	return n
}

func bestRun(days map[int64]bool) int {
	best := 0
	for d := range days {
		// Only count from the start of each run.
		if days[d-1] {
			continue
		}
		n := 0
		for days[d+int64(n)] {
			n++
		}
		if n > best {
			best = n
		}
	}
	return best
}
