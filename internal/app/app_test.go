package app

import (
	"errors"
	"testing"

	"agentchat/internal/config"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.ReplyDelayMS = 10
	cfg.RemoveDelayMS = 5
	cfg.NotifyShowMS = 20
	cfg.NotifyFadeMS = 10
	return cfg
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(testConfig())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestNewSeedsRosterAndWelcome(t *testing.T) {
	a := newTestApp(t)
	if got := a.Members.Len(); got != 3 {
		t.Fatalf("seeded members = %d, want 3", got)
	}
	msgs := a.Transcript.Messages(a.ActiveChat().ID)
	if len(msgs) != 1 || !msgs[0].IsAgent || !msgs[0].Markdown {
		t.Fatalf("welcome message = %+v", msgs)
	}
	if msgs[0].Sender != "Claude" {
		t.Fatalf("welcome sender = %q", msgs[0].Sender)
	}
}

func TestCreateChatValidation(t *testing.T) {
	a := newTestApp(t)
	before := len(a.Chats())

	_, err := a.CreateChat("bad name", "", "collaborative")
	if !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("err = %v, want ErrInvalidForm", err)
	}
	if len(a.Chats()) != before {
		t.Fatalf("invalid form still created a chat")
	}

	c, err := a.CreateChat("project_x", "讨论 Go 项目", "collaborative")
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	if a.ActiveChat().ID != c.ID {
		t.Fatalf("create did not switch to the new chat")
	}
	if a.Chat.ChatID() != c.ID {
		t.Fatalf("chat controller not retargeted")
	}
}

func TestSwitchChatPreservesHistory(t *testing.T) {
	a := newTestApp(t)
	first := a.ActiveChat()
	a.Chat.Send("第一个群的消息", nil)

	second, err := a.CreateChat("second_chat", "", "collaborative")
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	if n := a.Transcript.Len(second.ID); n != 0 {
		t.Fatalf("new chat transcript = %d messages, want 0", n)
	}

	if err := a.SwitchChat(first.ID); err != nil {
		t.Fatalf("switch back: %v", err)
	}
	if n := a.Transcript.Len(first.ID); n < 2 {
		t.Fatalf("history lost on switch: %d messages", n)
	}
}

func TestSwitchChatUnknownID(t *testing.T) {
	a := newTestApp(t)
	if err := a.SwitchChat("ghost"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("err = %v, want ErrChatNotFound", err)
	}
}

func TestUpdateChatSettings(t *testing.T) {
	a := newTestApp(t)
	if err := a.UpdateChatSettings("", ""); !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("empty name accepted")
	}
	if err := a.UpdateChatSettings("renamed_chat", "新的简介"); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	c := a.ActiveChat()
	if c.Name != "renamed_chat" || c.Description != "新的简介" {
		t.Fatalf("settings not applied: %+v", c)
	}
}

func TestCreateChatClosesModal(t *testing.T) {
	a := newTestApp(t)
	a.UI.ShowModal(ModalCreateChat)
	if _, err := a.CreateChat("modal_chat", "", ""); err != nil {
		t.Fatalf("create chat: %v", err)
	}
	if a.UI.ModalOpen(ModalCreateChat) {
		t.Fatalf("create-chat modal still open after success")
	}
}
