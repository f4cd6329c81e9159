package domain

import "time"

type MemberStatus string

const (
	StatusOnline  MemberStatus = "online"
	StatusOffline MemberStatus = "offline"
	StatusBusy    MemberStatus = "busy"
	StatusAway    MemberStatus = "away"
)

type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyWarning NotificationType = "warning"
	NotifyInfo    NotificationType = "info"
)

// MessageStatus carries a transient display hint on a message.
// "thinking" renders a badge next to the agent name.
type MessageStatus string

const (
	MessageThinking MessageStatus = "thinking"
	MessageOnline   MessageStatus = "online"
)

// Message is one transcript entry. Time is the pre-formatted display
// string shown next to the message; CreatedAt orders the log.
type Message struct {
	ID         string        `json:"id"`
	ChatID     string        `json:"chatId"`
	Sender     string        `json:"sender"`
	Text       string        `json:"text"`
	Markdown   bool          `json:"markdown"`
	Time       string        `json:"time"`
	IsAgent    bool          `json:"isAgent"`
	Status     MessageStatus `json:"status,omitempty"`
	Attachment *Attachment   `json:"attachment,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// Attachment references uploaded bytes through a blob-local URL.
type Attachment struct {
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

type Member struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Role   string       `json:"role"`
	Status MemberStatus `json:"status"`
}

type Chat struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Mode        string    `json:"mode"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Notification struct {
	ID      string           `json:"id"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
	Fading  bool             `json:"fading"`
}

// AgentProfile backs the profile popup shown when an agent name is clicked.
type AgentProfile struct {
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Glyph        string   `json:"glyph"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

// File is the in-process stand-in for a selected or pasted browser file.
type File struct {
	Name string
	Type string
	Size int64
	Data []byte
}

// Validation result codes.
const (
	CodeEmpty        = "EMPTY"
	CodeInvalidChars = "INVALID_CHARS"
	CodeTooLong      = "TOO_LONG"
)

// ValidationResult is returned as data; callers decide whether to surface it.
type ValidationResult struct {
	IsValid bool   `json:"isValid"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func Valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

func Invalid(code, message string) ValidationResult {
	return ValidationResult{IsValid: false, Code: code, Message: message}
}
