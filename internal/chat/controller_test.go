package chat

import (
	"strings"
	"sync"
	"testing"
	"time"

	"agentchat/internal/attach"
	"agentchat/internal/store"
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

type memoryExporter struct {
	mu   sync.Mutex
	name string
	data []byte
}

func (e *memoryExporter) WriteExport(name string, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.name = name
	e.data = data
	return nil
}

func newTestController() (*Controller, *store.TranscriptLog, *recordingNotifier, *memoryExporter) {
	log := store.NewTranscriptLog()
	n := &recordingNotifier{}
	e := &memoryExporter{}
	c := New(Options{
		ChatID:     "c1",
		Log:        log,
		Notifier:   n,
		ReplyDelay: 15 * time.Millisecond,
		Exporter:   e,
	})
	return c, log, n, e
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func TestSendRejectsEmpty(t *testing.T) {
	c, log, n, _ := newTestController()
	if c.Send("   ", nil) {
		t.Fatalf("blank send succeeded")
	}
	if log.Len("c1") != 0 {
		t.Fatalf("blank send appended a message")
	}
	if len(n.notes) == 0 || n.notes[len(n.notes)-1].Type != domain.NotifyError {
		t.Fatalf("blank send should toast an error")
	}
}

func TestSendAttachmentOnlyIsAllowed(t *testing.T) {
	c, log, _, _ := newTestController()
	files := []domain.File{{Name: "a.png", Type: "image/png", Data: []byte{1}, Size: 1}}
	if !c.Send("", files) {
		t.Fatalf("attachment-only send failed")
	}
	msg := log.Messages("c1")[0]
	if msg.Attachment == nil || msg.Attachment.Name != "a.png" {
		t.Fatalf("attachment missing: %+v", msg)
	}
	if !strings.HasPrefix(msg.Attachment.URL, "blob:agentchat/") {
		t.Fatalf("attachment url = %q", msg.Attachment.URL)
	}
}

func TestSendKeepsOnlyFirstAttachment(t *testing.T) {
	c, log, _, _ := newTestController()
	files := []domain.File{
		{Name: "first.png", Type: "image/png"},
		{Name: "second.png", Type: "image/png"},
	}
	c.Send("带附件", files)
	msg := log.Messages("c1")[0]
	if msg.Attachment.Name != "first.png" {
		t.Fatalf("attachment = %q, want first.png (rest silently dropped)", msg.Attachment.Name)
	}
}

func TestSendWhileInactive(t *testing.T) {
	c, log, _, _ := newTestController()
	c.ToggleActive() // off
	if c.Send("hello", nil) {
		t.Fatalf("send succeeded while inactive")
	}
	if log.Len("c1") != 0 {
		t.Fatalf("inactive send appended a message")
	}
	time.Sleep(40 * time.Millisecond)
	if log.Len("c1") != 0 {
		t.Fatalf("inactive send scheduled a canned reply")
	}
}

func TestSendSchedulesCannedReply(t *testing.T) {
	c, log, _, _ := newTestController()
	if !c.Send("hello", nil) {
		t.Fatalf("send failed")
	}
	if got := log.Len("c1"); got != 1 {
		t.Fatalf("immediately after send log has %d messages, want 1", got)
	}
	if !c.Pending() {
		t.Fatalf("no reply pending after send")
	}

	waitFor(t, func() bool { return log.Len("c1") == 2 }, "canned reply")
	msgs := log.Messages("c1")
	user, agent := msgs[0], msgs[1]
	if user.IsAgent || user.Sender != "用户" {
		t.Fatalf("user message = %+v", user)
	}
	if !agent.IsAgent || agent.Sender != DefaultReply.Sender || agent.Text != DefaultReply.Text {
		t.Fatalf("agent message = %+v", agent)
	}
	if agent.Status != domain.MessageOnline {
		t.Fatalf("agent status = %q, want online", agent.Status)
	}
}

func TestToggleOffDropsPendingReply(t *testing.T) {
	c, log, _, _ := newTestController()
	c.Send("hello", nil)
	c.ToggleActive() // off before the reply timer fires
	time.Sleep(60 * time.Millisecond)
	if got := log.Len("c1"); got != 1 {
		t.Fatalf("log has %d messages, want 1 (reply dropped, not queued)", got)
	}
	if c.Pending() {
		t.Fatalf("reply still pending after the timer fired")
	}
}

func TestReceiveWhileInactive(t *testing.T) {
	c, log, _, _ := newTestController()
	c.ToggleActive()
	if c.Receive(domain.Message{Sender: "GPT-4", Text: "hi", IsAgent: true}) {
		t.Fatalf("receive succeeded while inactive")
	}
	if log.Len("c1") != 0 {
		t.Fatalf("inactive receive appended a message")
	}
}

func TestToggleActiveRoundTrip(t *testing.T) {
	c, _, n, _ := newTestController()
	if got := c.ToggleActive(); got {
		t.Fatalf("first toggle should disable")
	}
	icon, tooltip := c.ToggleButton()
	if icon != "▶" || tooltip != "开启聊天" {
		t.Fatalf("disabled button = %q %q", icon, tooltip)
	}
	if got := c.ToggleActive(); !got {
		t.Fatalf("second toggle should enable")
	}
	icon, _ = c.ToggleButton()
	if icon != "⏸" {
		t.Fatalf("enabled button icon = %q", icon)
	}
	if len(n.notes) != 2 {
		t.Fatalf("toggle toasts = %d, want 2", len(n.notes))
	}
}

func TestSendClearsInputAndTray(t *testing.T) {
	c, _, _, _ := newTestController()
	cleared := false
	c.SetClearInput(func() { cleared = true })
	attach.HandleUpload(domain.File{Name: "a.txt"}, c.tray)
	c.Send("with attachment", c.tray.Files())
	if !cleared {
		t.Fatalf("input not cleared")
	}
	if c.tray.Len() != 0 {
		t.Fatalf("tray not cleared")
	}
}

func TestExport(t *testing.T) {
	c, _, _, e := newTestController()
	c.Receive(domain.Message{Sender: "Claude", Text: "第一条", Time: "09:00", IsAgent: true})
	c.Receive(domain.Message{Sender: "用户", Text: "第二条", Time: "09:01"})
	c.Receive(domain.Message{Sender: "GPT-4", Text: "第三条", Time: "09:02", IsAgent: true})

	name, err := c.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(name, "聊天记录_") || !strings.HasSuffix(name, ".md") {
		t.Fatalf("export filename = %q", name)
	}
	doc := string(e.data)
	if !strings.HasPrefix(doc, "# 聊天记录导出\n") {
		t.Fatalf("missing heading: %q", doc)
	}
	if got := strings.Count(doc, "\n## "); got != 3 {
		t.Fatalf("sections = %d, want 3", got)
	}
	first := strings.Index(doc, "## Claude (09:00)")
	second := strings.Index(doc, "## 用户 (09:01)")
	third := strings.Index(doc, "## GPT-4 (09:02)")
	if first < 0 || second < 0 || third < 0 || !(first < second && second < third) {
		t.Fatalf("sections missing or out of order:\n%s", doc)
	}
	if !strings.Contains(doc, "第二条") {
		t.Fatalf("message text not reproduced verbatim:\n%s", doc)
	}
}

func TestExportReadsLogNotView(t *testing.T) {
	// Messages stay exportable regardless of what the view shows; only
	// clearing the log removes them.
	c, log, _, e := newTestController()
	c.Receive(domain.Message{Sender: "Claude", Text: "保留", Time: "09:00", IsAgent: true})
	if _, err := c.Export(); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(e.data), "保留") {
		t.Fatalf("logged message missing from export")
	}
	c.Clear()
	if log.Len("c1") != 0 {
		t.Fatalf("clear did not truncate the log")
	}
	if _, err := c.Export(); err != nil {
		t.Fatalf("export after clear: %v", err)
	}
	if strings.Contains(string(e.data), "保留") {
		t.Fatalf("cleared message still exported")
	}
}

func TestClearCancelsPendingReply(t *testing.T) {
	c, log, _, _ := newTestController()
	c.Send("hello", nil)
	c.Clear()
	time.Sleep(60 * time.Millisecond)
	if got := log.Len("c1"); got != 0 {
		t.Fatalf("log has %d messages after clear, want 0", got)
	}
}

func TestReplyLandsInOriginChatAfterSwitch(t *testing.T) {
	c, log, _, _ := newTestController()
	c.Send("hello", nil)
	c.SetChat("c2")
	waitFor(t, func() bool { return log.Len("c1") == 2 }, "reply in origin chat")
	if log.Len("c2") != 0 {
		t.Fatalf("reply leaked into the new chat")
	}
}
