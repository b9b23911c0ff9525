package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is used when neither the patch nor the uploads provide one.
const DefaultTitle = "New chat"

// Ledger is the registry of chat sessions for a single user plus the pointer
// to the one session currently being displayed and mutated. Sessions are
// created lazily (only once they have real content), patched in place via
// Upsert and never deleted for the lifetime of the process.
//
// All methods are safe for concurrent use; mutations are serialized by the
// internal mutex, so two racing upserts resolve last-write-wins.
type Ledger struct {
	mu       sync.Mutex
	sessions []*ChatSession // insertion order, newest first
	activeId string

	now func() time.Time
}

func New() *Ledger {
	return &Ledger{
		now: time.Now,
	}
}

// Upsert applies patch to the active session, creating one first when no
// active session exists and the patch carries real content. It returns the
// session the patch landed on, or nil when the call was a no-op.
func (l *Ledger) Upsert(patch Patch) *ChatSession {
	return l.UpsertView(patch, View{})
}

// UpsertView is Upsert with explicit view-state fallbacks for the creation
// branch. Fields absent from the patch are filled from view when a new
// session is synthesized; on a plain merge the view is ignored.
func (l *Ledger) UpsertView(patch Patch, view View) *ChatSession {
	l.mu.Lock()
	defer l.mu.Unlock()

	active := l.findLocked(l.activeId)
	if active == nil {
		// No active session, or the tracked id is stale. Create only when
		// there is real content; phantom empty threads are never recorded.
		merged := mergeWithView(patch, view)
		if !hasRealContent(merged) {
			return nil
		}
		s := l.createLocked(patch, merged)
		return s.clone()
	}

	applyPatch(active, patch)
	active.UpdatedAt = l.now()
	return active.clone()
}

// OpenThread makes the session with the given id active and returns it.
// An unknown id is silently ignored and leaves the ledger untouched.
func (l *Ledger) OpenThread(id string) (*ChatSession, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.findLocked(id)
	if s == nil {
		return nil, false
	}
	l.activeId = id
	return s.clone(), true
}

// StartNew clears the active pointer. Existing sessions are untouched; the
// caller is expected to reset its transient view state to defaults.
func (l *Ledger) StartNew() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.activeId = ""
}

// Active returns the currently active session, if any.
func (l *Ledger) Active() (*ChatSession, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.findLocked(l.activeId)
	if s == nil {
		return nil, false
	}
	return s.clone(), true
}

// Len reports how many sessions the ledger holds.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}

func (l *Ledger) findLocked(id string) *ChatSession {
	if id == "" {
		return nil
	}
	for _, s := range l.sessions {
		if s.Id == id {
			return s
		}
	}
	return nil
}

func (l *Ledger) createLocked(patch Patch, merged View) *ChatSession {
	title := DefaultTitle
	if patch.Title != nil && *patch.Title != "" {
		title = *patch.Title
	} else if len(merged.UploadedFiles) > 0 {
		title = merged.UploadedFiles[0].Name
	}

	// Slices are copied on the way in; callers keep ownership of the patch
	// and reads hand out clones, so ledger state is never aliased.
	s := &ChatSession{
		Id:               uuid.New().String(),
		Title:            title,
		UpdatedAt:        l.now(),
		BackendSessionId: merged.BackendSessionId,
		UploadedFiles:    append([]UploadedFile(nil), merged.UploadedFiles...),
		CombinedTextLen:  merged.CombinedTextLen,
		SelectedOutput:   merged.SelectedOutput,
		Messages:         append([]Message(nil), merged.Messages...),
	}

	// Prepend: the ledger is kept newest-first.
	l.sessions = append([]*ChatSession{s}, l.sessions...)
	l.activeId = s.Id
	return s
}

// mergeWithView resolves the effective content for the creation branch:
// patch fields win, view fills the gaps.
func mergeWithView(patch Patch, view View) View {
	merged := view
	if patch.BackendSessionId != nil {
		merged.BackendSessionId = *patch.BackendSessionId
	}
	if patch.UploadedFiles != nil {
		merged.UploadedFiles = patch.UploadedFiles
	}
	if patch.CombinedTextLen != nil {
		merged.CombinedTextLen = *patch.CombinedTextLen
	}
	if patch.SelectedOutput != nil {
		merged.SelectedOutput = *patch.SelectedOutput
	}
	if patch.Messages != nil {
		merged.Messages = patch.Messages
	}
	return merged
}

// hasRealContent is the creation gate: at least one uploaded file, a backend
// session id, or at least one message.
func hasRealContent(v View) bool {
	return len(v.UploadedFiles) > 0 || v.BackendSessionId != "" || len(v.Messages) > 0
}

// applyPatch is a shallow field-level merge: absent fields keep prior values,
// present slices replace wholesale.
func applyPatch(s *ChatSession, patch Patch) {
	if patch.Title != nil && *patch.Title != "" {
		s.Title = *patch.Title
	}
	if patch.BackendSessionId != nil {
		s.BackendSessionId = *patch.BackendSessionId
	}
	if patch.UploadedFiles != nil {
		s.UploadedFiles = append([]UploadedFile(nil), patch.UploadedFiles...)
	}
	if patch.CombinedTextLen != nil {
		s.CombinedTextLen = *patch.CombinedTextLen
	}
	if patch.SelectedOutput != nil {
		s.SelectedOutput = *patch.SelectedOutput
	}
	if patch.Messages != nil {
		s.Messages = append([]Message(nil), patch.Messages...)
	}
}

func (s *ChatSession) clone() *ChatSession {
	c := *s
	c.UploadedFiles = append([]UploadedFile(nil), s.UploadedFiles...)
	c.Messages = append([]Message(nil), s.Messages...)
	return &c
}
