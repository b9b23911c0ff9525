package ledger

import (
	"fmt"
	"testing"
	"time"
)

func TestRelativeTimeLabel(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{119 * time.Second, "just now"},
		{2 * time.Minute, "2 min ago"},
		{59 * time.Minute, "59 min ago"},
		{time.Hour, "1 hr ago"},
		{23*time.Hour + 59*time.Minute, "23 hr ago"},
		{24 * time.Hour, "yesterday"},
		{47 * time.Hour, "yesterday"},
		{48 * time.Hour, "2 days ago"},
		{13 * 24 * time.Hour, "13 days ago"},
		{14 * 24 * time.Hour, "older"},
		{400 * 24 * time.Hour, "older"},
	}

	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.age.String(), func(t *testing.T) {
			got := RelativeTimeLabel(now.Add(-tt.age), now)
			if got != tt.want {
				t.Errorf("label(age=%v) = %q, want %q", tt.age, got, tt.want)
			}
		})
	}
}

func TestThreadsSortedByRecency(t *testing.T) {
	l := newTestLedger()

	first := l.Upsert(Patch{BackendSessionId: strptr("s1"), Title: strptr("alpha")})
	l.StartNew()
	second := l.Upsert(Patch{BackendSessionId: strptr("s2"), Title: strptr("beta")})
	l.StartNew()
	third := l.Upsert(Patch{BackendSessionId: strptr("s3"), Title: strptr("gamma")})

	now := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	got := l.Threads(now, "", 0)
	wantOrder := []string{third.Id, second.Id, first.Id}
	for i, want := range wantOrder {
		if got[i].Id != want {
			t.Fatalf("position %d: got %s, want %s", i, got[i].Id, want)
		}
	}

	// Patching an old session moves it to the front.
	l.OpenThread(first.Id)
	l.Upsert(Patch{Messages: []Message{{Id: "m", Role: RoleUser, Text: "bump"}}})

	got = l.Threads(now, "", 0)
	if got[0].Id != first.Id {
		t.Errorf("patched session should lead the recency list, got %s", got[0].Id)
	}
}

func TestThreadsFilter(t *testing.T) {
	l := newTestLedger()
	l.Upsert(Patch{BackendSessionId: strptr("s1"), Title: strptr("Linear Algebra")})
	l.StartNew()
	l.Upsert(Patch{BackendSessionId: strptr("s2"), Title: strptr("organic chemistry")})

	now := time.Now()

	if got := l.Threads(now, "ALGEBRA", 0); len(got) != 1 || got[0].Title != "Linear Algebra" {
		t.Errorf("case-insensitive filter failed: %+v", got)
	}
	if got := l.Threads(now, "biology", 0); len(got) != 0 {
		t.Errorf("non-matching query should yield empty list, got %+v", got)
	}
	if got := l.Threads(now, "", 0); len(got) != 2 {
		t.Errorf("empty query should yield the full list, got %d", len(got))
	}
}

func TestThreadsRevealPagination(t *testing.T) {
	l := newTestLedger()
	for i := 0; i < 30; i++ {
		l.StartNew()
		l.Upsert(Patch{
			BackendSessionId: strptr(fmt.Sprintf("s%d", i)),
			Title:            strptr(fmt.Sprintf("thread %d", i)),
		})
	}

	now := time.Now()

	if got := l.Threads(now, "", RevealLimit(0)); len(got) != InitialReveal {
		t.Errorf("initial reveal = %d rows, want %d", len(got), InitialReveal)
	}
	if got := l.Threads(now, "", RevealLimit(1)); len(got) != InitialReveal+RevealStep {
		t.Errorf("first reveal = %d rows, want %d", len(got), InitialReveal+RevealStep)
	}
	if got := l.Threads(now, "", RevealLimit(5)); len(got) != 30 {
		t.Errorf("reveal past the end should cap at ledger size, got %d", len(got))
	}
}
