package member

import (
	"sync"
	"testing"
	"time"

	"agentchat/pkg/domain"
)

type recordingNotifier struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (n *recordingNotifier) Notify(message string, typ domain.NotificationType) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, domain.Notification{Message: message, Type: typ})
}

func (n *recordingNotifier) last() (domain.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notes) == 0 {
		return domain.Notification{}, false
	}
	return n.notes[len(n.notes)-1], true
}

func newTestController() (*Controller, *recordingNotifier) {
	n := &recordingNotifier{}
	return New(n, 10*time.Millisecond, nil), n
}

func claude() domain.Member {
	return domain.Member{ID: "agent-claude", Name: "Claude", Role: "AI 助手", Status: domain.StatusOnline}
}

func TestAddRejectsDuplicateID(t *testing.T) {
	c, n := newTestController()
	if !c.Add(claude()) {
		t.Fatalf("first add failed")
	}
	if c.Add(claude()) {
		t.Fatalf("duplicate add succeeded")
	}
	if c.Len() != 1 {
		t.Fatalf("roster has %d rows, want 1", c.Len())
	}
	note, _ := n.last()
	if note.Type != domain.NotifyWarning {
		t.Fatalf("duplicate add toast = %+v, want warning", note)
	}
}

func TestRowStyling(t *testing.T) {
	c, _ := newTestController()
	c.Add(claude())
	c.Add(domain.Member{ID: "u1", Name: "张三", Role: "成员", Status: domain.StatusOnline})

	rows := c.List()
	if !rows[0].IsAgent || rows[0].Glyph != "C" {
		t.Fatalf("agent row = %+v", rows[0])
	}
	if rows[1].IsAgent || rows[1].Glyph != "张" {
		t.Fatalf("user row = %+v", rows[1])
	}
}

func TestIsAgentRole(t *testing.T) {
	for role, want := range map[string]bool{
		"AI 助手":     true,
		"智能体":       true,
		"code agent": true,
		"assistant":  true,
		"成员":         false,
		"管理员":        false,
	} {
		if got := IsAgentRole(role); got != want {
			t.Fatalf("IsAgentRole(%q) = %v, want %v", role, got, want)
		}
	}
}

func TestRemoveUnknownID(t *testing.T) {
	c, n := newTestController()
	if c.Remove("ghost") {
		t.Fatalf("removing an unknown id returned true")
	}
	note, _ := n.last()
	if note.Type != domain.NotifyError {
		t.Fatalf("unknown remove toast = %+v, want error", note)
	}
}

func TestRemoveDetachesAfterDelay(t *testing.T) {
	c, n := newTestController()
	c.Add(claude())

	if !c.Remove("agent-claude") {
		t.Fatalf("remove returned false for a known id")
	}
	// The row survives the transition window, marked deleting.
	row, ok := c.Get("agent-claude")
	if !ok || !row.Deleting {
		t.Fatalf("row should still be present and deleting, got %+v ok=%v", row, ok)
	}

	deadline := time.After(time.Second)
	for c.Len() != 0 {
		select {
		case <-deadline:
			t.Fatalf("row never detached")
		case <-time.After(2 * time.Millisecond):
		}
	}
	note, _ := n.last()
	if note.Type != domain.NotifySuccess {
		t.Fatalf("removal toast = %+v, want success naming the member", note)
	}
}

func TestAddDuringRemoveWindowIsRejected(t *testing.T) {
	c, _ := newTestController()
	c.Add(claude())
	c.Remove("agent-claude")
	// Still rendered during the transition, so the id is taken.
	if c.Add(claude()) {
		t.Fatalf("re-add during the removal window should be rejected")
	}
}

func TestUpdateStatus(t *testing.T) {
	c, _ := newTestController()
	c.Add(claude())
	if !c.UpdateStatus("agent-claude", domain.StatusBusy) {
		t.Fatalf("status update failed for a known id")
	}
	row, _ := c.Get("agent-claude")
	if row.Member.Status != domain.StatusBusy {
		t.Fatalf("status = %q, want busy", row.Member.Status)
	}
	// Free-form statuses are applied verbatim.
	c.UpdateStatus("agent-claude", "meditating")
	row, _ = c.Get("agent-claude")
	if row.Member.Status != "meditating" {
		t.Fatalf("free-form status = %q", row.Member.Status)
	}
	if c.UpdateStatus("ghost", domain.StatusAway) {
		t.Fatalf("status update for unknown id returned true")
	}
}

func TestCloseCancelsPendingRemoval(t *testing.T) {
	c, _ := newTestController()
	c.Add(claude())
	c.Remove("agent-claude")
	c.Close()
	time.Sleep(30 * time.Millisecond)
	if c.Len() != 1 {
		t.Fatalf("closed controller still detached the row")
	}
}
