// Package chat implements the chat session controller: the active flag
// gating send and receive, message construction for the two layout
// variants, the delayed canned agent reply, and the Markdown transcript
// export.
package chat

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"agentchat/internal/attach"
	"agentchat/internal/store"
	"agentchat/internal/util"
	"agentchat/pkg/domain"
)

// DefaultReplyDelay is how long after a user send the canned agent reply
// arrives.
const DefaultReplyDelay = 1000 * time.Millisecond

const timeLayout = "15:04"

// Notifier surfaces send/receive failures and state changes as toasts.
type Notifier interface {
	Notify(message string, typ domain.NotificationType)
}

// Reply is the canned agent response scheduled after every user send.
type Reply struct {
	Sender string
	Text   string
}

// DefaultReply is used when no agent roster is configured.
var DefaultReply = Reply{
	Sender: "Claude",
	Text:   "收到！这是一条模拟回复，接入真实智能体后将由模型生成。",
}

// Options configure a Controller.
type Options struct {
	ChatID     string
	Log        *store.TranscriptLog
	Tray       *attach.Tray
	Blobs      *attach.Registry
	Notifier   Notifier
	UserLabel  string
	ReplyDelay time.Duration
	Reply      Reply
	// ClearInput empties the message-input collaborator after a send.
	ClearInput func()
	OnChange   func()
	Exporter   ExportWriter
}

// Controller owns one chat window's messaging state. The transcript log is
// the source of truth; the view renders a projection of it.
type Controller struct {
	mu sync.Mutex

	active bool
	chatID string

	log   *store.TranscriptLog
	tray  *attach.Tray
	blobs *attach.Registry

	notifier   Notifier
	userLabel  string
	replyDelay time.Duration
	reply      Reply
	replyTimer *time.Timer
	pending    int

	clearInput func()
	onChange   func()
	exporter   ExportWriter
	closed     bool
}

// New builds a Controller in the Active state.
func New(opts Options) *Controller {
	if opts.ReplyDelay <= 0 {
		opts.ReplyDelay = DefaultReplyDelay
	}
	if opts.UserLabel == "" {
		opts.UserLabel = "用户"
	}
	if opts.Reply == (Reply{}) {
		opts.Reply = DefaultReply
	}
	if opts.ClearInput == nil {
		opts.ClearInput = func() {}
	}
	if opts.OnChange == nil {
		opts.OnChange = func() {}
	}
	if opts.Exporter == nil {
		opts.Exporter = FileWriter{}
	}
	if opts.Tray == nil {
		opts.Tray = attach.NewTray()
	}
	if opts.Blobs == nil {
		opts.Blobs = attach.NewRegistry()
	}
	return &Controller{
		active:     true,
		chatID:     opts.ChatID,
		log:        opts.Log,
		tray:       opts.Tray,
		blobs:      opts.Blobs,
		notifier:   opts.Notifier,
		userLabel:  opts.UserLabel,
		replyDelay: opts.ReplyDelay,
		reply:      opts.Reply,
		clearInput: opts.ClearInput,
		onChange:   opts.OnChange,
		exporter:   opts.Exporter,
	}
}

// SetOnChange replaces the change callback.
func (c *Controller) SetOnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fn == nil {
		fn = func() {}
	}
	c.onChange = fn
}

// SetClearInput replaces the message-input clearing collaborator.
func (c *Controller) SetClearInput(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fn == nil {
		fn = func() {}
	}
	c.clearInput = fn
}

// Active reports whether the chat accepts messages.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// ChatID returns the chat the controller currently targets.
func (c *Controller) ChatID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chatID
}

// SetChat retargets the controller at another chat. The pending reply
// timer, if any, is left running: the reply lands in the chat it was sent
// from, since messages carry their chat ID.
func (c *Controller) SetChat(chatID string) {
	c.mu.Lock()
	c.chatID = chatID
	c.mu.Unlock()
	c.onChange()
}

// Pending reports whether a canned reply is still scheduled.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending > 0
}

// Send validates and appends a user message, clears the input and the
// attachment tray, and schedules the canned agent reply. Only the first
// pending attachment is taken; the rest are dropped.
func (c *Controller) Send(text string, files []domain.File) bool {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		c.notifier.Notify("聊天已禁用，无法发送消息", domain.NotifyError)
		return false
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" && len(files) == 0 {
		c.mu.Unlock()
		c.notifier.Notify("请输入消息内容", domain.NotifyError)
		return false
	}

	var attachment *domain.Attachment
	if len(files) > 0 {
		f := files[0]
		attachment = &domain.Attachment{
			Name: f.Name,
			Type: f.Type,
			URL:  c.blobs.Register(f.Data, f.Type),
			Size: f.Size,
		}
	}

	now := time.Now()
	msg := domain.Message{
		ID:         util.NewID(),
		ChatID:     c.chatID,
		Sender:     c.userLabel,
		Text:       trimmed,
		Time:       now.Format(timeLayout),
		IsAgent:    false,
		Attachment: attachment,
		CreatedAt:  now,
	}
	c.log.Append(msg)

	reply := domain.Message{
		ChatID:  c.chatID,
		Sender:  c.reply.Sender,
		Text:    c.reply.Text,
		IsAgent: true,
		Status:  domain.MessageOnline,
	}
	c.pending++
	c.replyTimer = time.AfterFunc(c.replyDelay, func() {
		c.mu.Lock()
		c.pending--
		c.mu.Unlock()
		// The receive path re-checks the active flag; a toggle-off during
		// the delay drops the reply.
		c.Receive(reply)
	})

	clearInput := c.clearInput
	c.mu.Unlock()

	clearInput()
	c.tray.Clear()
	c.onChange()
	return true
}

// Receive appends an incoming message. Inactive chats drop the message
// with a log line; it is lost, not queued.
func (c *Controller) Receive(msg domain.Message) bool {
	c.mu.Lock()
	if !c.active || c.closed {
		c.mu.Unlock()
		slog.Info("chat inactive, message dropped", "sender", msg.Sender)
		return false
	}
	if msg.ID == "" {
		msg.ID = util.NewID()
	}
	if msg.ChatID == "" {
		msg.ChatID = c.chatID
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	if msg.Time == "" {
		msg.Time = msg.CreatedAt.Format(timeLayout)
	}
	c.log.Append(msg)
	c.mu.Unlock()
	c.onChange()
	return true
}

// ToggleActive flips the active flag, shows the matching toast and returns
// the new state. It does not cancel a pending reply timer: the reply fires
// into Receive and is dropped there, preserving the observable race.
func (c *Controller) ToggleActive() bool {
	c.mu.Lock()
	c.active = !c.active
	active := c.active
	c.mu.Unlock()

	if active {
		c.notifier.Notify("已开启聊天", domain.NotifySuccess)
	} else {
		c.notifier.Notify("已禁用聊天", domain.NotifyWarning)
	}
	c.onChange()
	return active
}

// ToggleButton returns the icon and tooltip for the chat on/off button in
// the current state.
func (c *Controller) ToggleButton() (icon, tooltip string) {
	if c.Active() {
		return "⏸", "禁用聊天"
	}
	return "▶", "开启聊天"
}

// Clear truncates the chat's log and cancels a pending reply.
func (c *Controller) Clear() {
	c.mu.Lock()
	if c.replyTimer != nil && c.replyTimer.Stop() {
		c.pending--
	}
	chatID := c.chatID
	c.mu.Unlock()

	c.log.Clear(chatID)
	c.onChange()
}

// Close cancels the pending reply timer and stops accepting messages.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.replyTimer != nil {
		c.replyTimer.Stop()
	}
}
