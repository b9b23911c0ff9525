package ledger

import (
	"testing"
	"time"
)

// fakeClock returns a now func that advances one second per call, so every
// mutation gets a strictly increasing timestamp.
func fakeClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestLedger() *Ledger {
	l := New()
	l.now = fakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return l
}

func TestUpsertEmptyPatchIsNoOp(t *testing.T) {
	l := newTestLedger()

	for i := 0; i < 3; i++ {
		if got := l.Upsert(Patch{}); got != nil {
			t.Fatalf("upsert %d: expected nil session, got %+v", i, got)
		}
	}
	if l.Len() != 0 {
		t.Errorf("ledger should stay empty, has %d sessions", l.Len())
	}
	if _, ok := l.Active(); ok {
		t.Error("no session should be active")
	}
}

func TestUpsertTitleOnlyDoesNotCreate(t *testing.T) {
	l := newTestLedger()

	// A title hint alone is not real content.
	if got := l.Upsert(TitlePatch("physics notes")); got != nil {
		t.Fatalf("expected no-op, got %+v", got)
	}
	if l.Len() != 0 {
		t.Errorf("ledger should stay empty, has %d sessions", l.Len())
	}
}

func TestUpsertCreatesOnRealContent(t *testing.T) {
	tests := []struct {
		name  string
		patch Patch
	}{
		{
			name:  "uploaded file",
			patch: Patch{UploadedFiles: []UploadedFile{{Id: "f1", Name: "a.pdf", Status: FileStatusExtracted}}},
		},
		{
			name:  "backend session id",
			patch: Patch{BackendSessionId: strptr("s1")},
		},
		{
			name:  "message",
			patch: Patch{Messages: []Message{{Id: "m1", Role: RoleUser, Text: "hi"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger()
			s := l.Upsert(tt.patch)
			if s == nil {
				t.Fatal("expected a session to be created")
			}
			if l.Len() != 1 {
				t.Fatalf("expected exactly one session, got %d", l.Len())
			}
			active, ok := l.Active()
			if !ok || active.Id != s.Id {
				t.Error("created session should become active")
			}
		})
	}
}

func TestCreationTitleFallbacks(t *testing.T) {
	l := newTestLedger()
	s := l.Upsert(Patch{UploadedFiles: []UploadedFile{{Name: "lecture-3.pptx"}, {Name: "b.pdf"}}})
	if s.Title != "lecture-3.pptx" {
		t.Errorf("title = %q, want first file name", s.Title)
	}

	l.StartNew()
	s = l.Upsert(Patch{BackendSessionId: strptr("s2")})
	if s.Title != DefaultTitle {
		t.Errorf("title = %q, want placeholder %q", s.Title, DefaultTitle)
	}

	l.StartNew()
	s = l.Upsert(Patch{
		Title:         strptr("Week 4 revision"),
		UploadedFiles: []UploadedFile{{Name: "ignored.pdf"}},
	})
	if s.Title != "Week 4 revision" {
		t.Errorf("title = %q, explicit patch title should win", s.Title)
	}
}

func TestPatchMergePreservesAbsentFields(t *testing.T) {
	l := newTestLedger()

	first := l.Upsert(Patch{
		BackendSessionId: strptr("s1"),
		UploadedFiles:    []UploadedFile{{Id: "f1", Name: "a.pdf", Status: FileStatusExtracted, ExtractedTextLength: 42}},
		CombinedTextLen:  intptr(42),
	})

	second := l.Upsert(Patch{Messages: []Message{{Id: "m1", Role: RoleUser, Text: "explain"}}})
	if second.Id != first.Id {
		t.Fatal("patch should target the active session, not create a new one")
	}
	if second.BackendSessionId != "s1" {
		t.Errorf("backend session id lost on merge: %q", second.BackendSessionId)
	}
	if len(second.UploadedFiles) != 1 || second.CombinedTextLen != 42 {
		t.Error("fields absent from patch must keep prior values")
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("updatedAt must strictly increase: %v then %v", first.UpdatedAt, second.UpdatedAt)
	}

	third := l.Upsert(Patch{Messages: []Message{
		{Id: "m1", Role: RoleUser, Text: "explain"},
		{Id: "m2", Role: RoleAssistant, Text: "sure"},
	}})
	if !third.UpdatedAt.After(second.UpdatedAt) {
		t.Error("updatedAt must strictly increase across sequential upserts")
	}
	if third.BackendSessionId != "s1" {
		t.Error("backend session id must survive repeated message patches")
	}
	if len(third.Messages) != 2 {
		t.Errorf("messages are replaced wholesale, got %d", len(third.Messages))
	}
}

func TestUploadedFilesReplacedWholesale(t *testing.T) {
	l := newTestLedger()
	l.Upsert(Patch{UploadedFiles: []UploadedFile{{Name: "a.pdf"}, {Name: "b.pdf"}}})

	s := l.Upsert(Patch{UploadedFiles: []UploadedFile{{Name: "c.docx"}}})
	if len(s.UploadedFiles) != 1 || s.UploadedFiles[0].Name != "c.docx" {
		t.Errorf("upload response must replace the file list, got %+v", s.UploadedFiles)
	}
}

func TestPatchSlicesCopiedNotAliased(t *testing.T) {
	l := newTestLedger()

	files := []UploadedFile{{Id: "f1", Name: "a.pdf"}}
	l.Upsert(Patch{UploadedFiles: files})

	// Caller keeps ownership of its patch; mutating it afterwards must not
	// leak into ledger state.
	files[0].Name = "mutated.pdf"
	active, _ := l.Active()
	if active.UploadedFiles[0].Name != "a.pdf" {
		t.Errorf("create aliased the patch slice, got %q", active.UploadedFiles[0].Name)
	}

	msgs := []Message{{Id: "m1", Role: "user", Text: "hello"}}
	l.Upsert(Patch{Messages: msgs})
	msgs[0].Text = "tampered"
	active, _ = l.Active()
	if active.Messages[0].Text != "hello" {
		t.Errorf("merge aliased the patch slice, got %q", active.Messages[0].Text)
	}
}

func TestOpenThreadUnknownIdIsSilentNoOp(t *testing.T) {
	l := newTestLedger()
	created := l.Upsert(Patch{BackendSessionId: strptr("s1")})

	if _, ok := l.OpenThread("nope"); ok {
		t.Fatal("unknown id should not open")
	}
	active, ok := l.Active()
	if !ok || active.Id != created.Id {
		t.Error("active session must be unchanged after a missed open")
	}
	if l.Len() != 1 {
		t.Error("ledger must be unchanged after a missed open")
	}
}

func TestOpenThreadSwitchesActive(t *testing.T) {
	l := newTestLedger()
	first := l.Upsert(Patch{BackendSessionId: strptr("s1")})
	l.StartNew()
	second := l.Upsert(Patch{BackendSessionId: strptr("s2")})

	opened, ok := l.OpenThread(first.Id)
	if !ok || opened.Id != first.Id {
		t.Fatal("open should return the requested session")
	}
	active, _ := l.Active()
	if active.Id != first.Id {
		t.Error("open should make the session active")
	}
	if _, ok := l.OpenThread(second.Id); !ok {
		t.Error("second session should still be reachable")
	}
}

func TestStartNewKeepsExistingSessions(t *testing.T) {
	l := newTestLedger()
	first := l.Upsert(Patch{
		BackendSessionId: strptr("s1"),
		Messages:         []Message{{Id: "m1", Role: RoleUser, Text: "hello"}},
	})

	l.StartNew()
	if _, ok := l.Active(); ok {
		t.Fatal("startNew must clear the active pointer")
	}

	second := l.Upsert(Patch{UploadedFiles: []UploadedFile{{Name: "new.pdf"}}})
	if second.Id == first.Id {
		t.Fatal("upsert after startNew must create a distinct session")
	}
	if l.Len() != 2 {
		t.Fatalf("expected two sessions, got %d", l.Len())
	}

	// The first session must be untouched.
	orig, ok := l.OpenThread(first.Id)
	if !ok {
		t.Fatal("first session lost")
	}
	if orig.BackendSessionId != "s1" || len(orig.Messages) != 1 {
		t.Errorf("first session mutated: %+v", orig)
	}
}

func TestStaleActiveReferenceTriggersCreation(t *testing.T) {
	l := newTestLedger()
	l.activeId = "gone" // points at no record

	s := l.Upsert(Patch{BackendSessionId: strptr("s1")})
	if s == nil {
		t.Fatal("stale active reference should behave like no active session")
	}
	if l.Len() != 1 {
		t.Fatalf("expected one session, got %d", l.Len())
	}
}

func TestUpsertViewFallbacks(t *testing.T) {
	l := newTestLedger()

	// The patch alone has no content; the displayed view state does.
	view := View{
		UploadedFiles:   []UploadedFile{{Name: "slides.pptx", Status: FileStatusExtracted}},
		CombinedTextLen: 1200,
	}
	s := l.UpsertView(Patch{Messages: []Message{{Id: "m1", Role: RoleUser, Text: "hi"}}}, view)
	if s == nil {
		t.Fatal("view-state content should satisfy the creation gate")
	}
	if s.Title != "slides.pptx" {
		t.Errorf("title should fall back to the view's first file, got %q", s.Title)
	}
	if s.CombinedTextLen != 1200 || len(s.Messages) != 1 {
		t.Errorf("created session should merge patch over view: %+v", s)
	}
}

func intptr(n int) *int { return &n }
