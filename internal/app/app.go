// Package app wires the controllers together and owns the chat registry.
// It is the single entry point the frontend calls; event handlers map
// one-to-one onto its methods.
package app

import (
	"fmt"
	"sync"
	"time"

	"agentchat/internal/attach"
	"agentchat/internal/chat"
	"agentchat/internal/config"
	"agentchat/internal/member"
	"agentchat/internal/store"
	"agentchat/internal/ui"
	"agentchat/internal/util"
	"agentchat/internal/validate"
	"agentchat/pkg/domain"
)

// Modal IDs registered at startup.
const (
	ModalCreateChat   = "createChat"
	ModalChatSettings = "chatSettings"
)

// App owns one chat widget instance: its config, blob registry, transcript
// log, controllers and chat registry. Several Apps can coexist; nothing
// here is package-level.
type App struct {
	cfg config.Config

	Blobs      *attach.Registry
	Tray       *attach.Tray
	Transcript *store.TranscriptLog
	UI         *ui.Controller
	Members    *member.Controller
	Chat       *chat.Controller

	mu       sync.Mutex
	chats    []domain.Chat
	active   string
	onChange func()
}

// New builds and seeds an App from config: the default chat, the member
// roster, the agent profiles and a welcome message.
func New(cfg config.Config) (*App, error) {
	if err := cfgSanity(cfg); err != nil {
		return nil, err
	}
	a := &App{
		cfg:        cfg,
		Blobs:      attach.NewRegistry(),
		Tray:       attach.NewTray(),
		Transcript: store.NewTranscriptLog(),
		onChange:   func() {},
	}

	profiles := make([]domain.AgentProfile, 0, len(cfg.Agents))
	for _, ag := range cfg.Agents {
		profiles = append(profiles, domain.AgentProfile{
			Name:         ag.Name,
			Role:         ag.Role,
			Glyph:        ag.Glyph,
			Description:  ag.Description,
			Capabilities: ag.Capabilities,
		})
	}
	a.UI = ui.New(ui.Options{
		Breakpoint:    cfg.Breakpoint,
		NotifyDisplay: cfg.NotifyShow(),
		NotifyFade:    cfg.NotifyFade(),
		UserLabel:     cfg.UserLabel,
		Profiles:      profiles,
		OnChange:      a.fireChange,
	})
	for _, id := range []string{ModalCreateChat, ModalChatSettings} {
		a.UI.RegisterModal(id)
	}

	a.Members = member.New(a.UI, cfg.RemoveDelay(), a.fireChange)

	defaultChat := domain.Chat{
		ID:        util.NewID(),
		Name:      cfg.DefaultChatName,
		Mode:      "collaborative",
		CreatedAt: time.Now(),
	}
	a.chats = []domain.Chat{defaultChat}
	a.active = defaultChat.ID

	a.Chat = chat.New(chat.Options{
		ChatID:     defaultChat.ID,
		Log:        a.Transcript,
		Tray:       a.Tray,
		Blobs:      a.Blobs,
		Notifier:   a.UI,
		UserLabel:  cfg.UserLabel,
		ReplyDelay: cfg.ReplyDelay(),
		Reply:      cannedReply(cfg),
		OnChange:   a.fireChange,
		Exporter:   chat.FileWriter{Dir: cfg.ExportDir},
	})

	a.seed()
	return a, nil
}

func cfgSanity(cfg config.Config) error {
	if cfg.UserLabel == "" {
		return fmt.Errorf("app: user label missing from config")
	}
	if cfg.DefaultChatName == "" {
		return fmt.Errorf("app: default chat name missing from config")
	}
	return nil
}

// cannedReply picks the first configured agent that declares a reply text.
func cannedReply(cfg config.Config) chat.Reply {
	for _, ag := range cfg.Agents {
		if ag.Reply != "" {
			return chat.Reply{Sender: ag.Name, Text: ag.Reply}
		}
	}
	return chat.DefaultReply
}

func (a *App) seed() {
	for _, m := range a.cfg.Members {
		a.Members.Add(domain.Member{
			ID:     m.ID,
			Name:   m.Name,
			Role:   m.Role,
			Status: domain.MemberStatus(m.Status),
		})
	}
	if len(a.cfg.Agents) > 0 {
		first := a.cfg.Agents[0]
		a.Chat.Receive(domain.Message{
			Sender:   first.Name,
			Text:     fmt.Sprintf("欢迎来到 **%s** 群聊！大家可以直接 @ 我提问。", a.cfg.DefaultChatName),
			Markdown: true,
			IsAgent:  true,
			Status:   domain.MessageOnline,
		})
	}
}

func (a *App) fireChange() {
	a.mu.Lock()
	fn := a.onChange
	a.mu.Unlock()
	fn()
}

// SetOnChange installs the frontend refresh callback, fired after every
// state change, including timer-driven ones.
func (a *App) SetOnChange(fn func()) {
	if fn == nil {
		fn = func() {}
	}
	a.mu.Lock()
	a.onChange = fn
	a.mu.Unlock()
}

// CreateChat validates the create form, registers the chat and switches to
// it. Validation failures surface as an error toast and ErrInvalidForm.
func (a *App) CreateChat(name, desc, mode string) (domain.Chat, error) {
	if r := validate.CreateForm(name, desc); !r.IsValid {
		a.UI.Notify(r.Message, domain.NotifyError)
		return domain.Chat{}, fmt.Errorf("%w: %s", ErrInvalidForm, r.Code)
	}
	c := domain.Chat{
		ID:          util.NewID(),
		Name:        name,
		Description: desc,
		Mode:        mode,
		CreatedAt:   time.Now(),
	}
	a.mu.Lock()
	a.chats = append(a.chats, c)
	a.active = c.ID
	a.mu.Unlock()

	a.Chat.SetChat(c.ID)
	a.UI.HideModal(ModalCreateChat)
	a.UI.Notify("群聊创建成功: "+name, domain.NotifySuccess)
	return c, nil
}

// UpdateChatSettings validates the settings form and rewrites the active
// chat's name and description.
func (a *App) UpdateChatSettings(name, desc string) error {
	if r := validate.SettingsForm(name, desc); !r.IsValid {
		a.UI.Notify(r.Message, domain.NotifyError)
		return fmt.Errorf("%w: %s", ErrInvalidForm, r.Code)
	}
	a.mu.Lock()
	for i := range a.chats {
		if a.chats[i].ID == a.active {
			a.chats[i].Name = name
			a.chats[i].Description = desc
		}
	}
	a.mu.Unlock()

	a.UI.HideModal(ModalChatSettings)
	a.UI.Notify("群聊设置已保存", domain.NotifySuccess)
	return nil
}

// SwitchChat re-targets the window at another chat. The transcript log is
// per-chat, so switching back re-renders the earlier history.
func (a *App) SwitchChat(id string) error {
	a.mu.Lock()
	found := false
	for _, c := range a.chats {
		if c.ID == id {
			found = true
			break
		}
	}
	if !found {
		a.mu.Unlock()
		a.UI.Notify("未找到该群聊", domain.NotifyError)
		return ErrChatNotFound
	}
	a.active = id
	a.mu.Unlock()

	a.Chat.SetChat(id)
	return nil
}

// Chats returns the sidebar chat list in creation order.
func (a *App) Chats() []domain.Chat {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.Chat, len(a.chats))
	copy(out, a.chats)
	return out
}

// ActiveChat returns the chat the window currently shows.
func (a *App) ActiveChat() domain.Chat {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, c := range a.chats {
		if c.ID == a.active {
			return c
		}
	}
	return domain.Chat{}
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Close tears the widget down: pending timers are cancelled and blobs
// released. State is process-lifetime only, so nothing is persisted.
func (a *App) Close() {
	a.Chat.Close()
	a.Members.Close()
	a.UI.Close()
	a.Blobs.RevokeAll()
}
