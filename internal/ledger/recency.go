package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Incremental reveal sizes for the thread list: the first page shows 12
// entries, every further reveal adds 10.
const (
	InitialReveal = 12
	RevealStep    = 10
)

// ThreadSummary is one row of the recency list.
type ThreadSummary struct {
	Id           string `json:"id"`
	Title        string `json:"title"`
	RelativeTime string `json:"relative_time"`
}

// RevealLimit maps a zero-based reveal count to the number of visible rows.
func RevealLimit(reveals int) int {
	if reveals < 0 {
		reveals = 0
	}
	return InitialReveal + reveals*RevealStep
}

// Threads derives the recency list: sessions sorted by UpdatedAt descending
// (stable, so ties keep insertion order), filtered by a case-insensitive
// title substring match and cut off at limit rows. A limit <= 0 means no cut.
//
// The relative-time labels depend on now; callers refresh it periodically
// (once a minute is enough for the coarsest bucket) rather than per render.
func (l *Ledger) Threads(now time.Time, query string, limit int) []ThreadSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	ordered := make([]*ChatSession, len(l.sessions))
	copy(ordered, l.sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UpdatedAt.After(ordered[j].UpdatedAt)
	})

	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]ThreadSummary, 0, len(ordered))
	for _, s := range ordered {
		if q != "" && !strings.Contains(strings.ToLower(s.Title), q) {
			continue
		}
		out = append(out, ThreadSummary{
			Id:           s.Id,
			Title:        s.Title,
			RelativeTime: RelativeTimeLabel(s.UpdatedAt, now),
		})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// RelativeTimeLabel buckets the age of a session into a coarse display label.
func RelativeTimeLabel(updatedAt, now time.Time) string {
	d := now.Sub(updatedAt)
	switch {
	case d < 2*time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hr ago", int(d.Hours()))
	}

	days := int(d.Hours() / 24)
	switch {
	case days == 1:
		return "yesterday"
	case days < 14:
		return fmt.Sprintf("%d days ago", days)
	default:
		return "older"
	}
}
