// Package tui is the terminal frontend: it wires key events to the app
// facade and renders a projection of the controllers' state. All chat
// behavior lives in the controllers; this layer is glue.
package tui

import (
	"os"
	"path/filepath"
	"strings"

	"agentchat/internal/app"
	"agentchat/internal/attach"
	"agentchat/pkg/domain"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// RefreshMsg asks the model to re-render after an out-of-band state change
// (toast expiry, canned reply, member detach).
type RefreshMsg struct{}

const (
	fieldName = iota
	fieldDesc
)

// Model is the Bubble Tea model for the chat window.
type Model struct {
	app *app.App

	input     textinput.Model
	nameInput textinput.Model
	descInput textinput.Model
	spin      spinner.Model

	width  int
	height int

	modalField int
	md         *glamour.TermRenderer
}

// New builds the frontend around an App.
func New(a *app.App) Model {
	in := textinput.New()
	in.Placeholder = "输入消息，Enter 发送（/attach 路径 添加附件）"
	in.Prompt = "> "
	in.Focus()
	in.CharLimit = 0
	in.Width = 60

	name := textinput.New()
	name.Placeholder = "群聊名称（字母、数字、下划线）"
	name.CharLimit = 64

	desc := textinput.New()
	desc.Placeholder = "群聊简介（可选）"
	desc.CharLimit = 128

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	return Model{app: a, input: in, nameInput: name, descInput: desc, spin: sp}
}

func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.app.UI.SetWidth(msg.Width * 10) // terminal columns ≈ px/10 against the 768 breakpoint
		m.input.Width = max(msg.Width-4, 20)
		m.md, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(max(msg.Width-sidebarWidth-membersWidth-6, 30)),
		)
		return m, nil

	case RefreshMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ui := m.app.UI

	switch msg.String() {
	case "ctrl+c":
		m.app.Close()
		return m, tea.Quit
	case "esc":
		ui.HideAllModals()
		ui.HideAgentProfile()
		return m, nil
	case "ctrl+b":
		ui.ToggleSidebar()
		return m, nil
	case "ctrl+u":
		ui.ToggleMembers()
		return m, nil
	case "ctrl+t":
		m.app.Chat.ToggleActive()
		return m, nil
	case "ctrl+e":
		_, _ = m.app.Chat.Export()
		return m, nil
	case "ctrl+n":
		m.nameInput.SetValue("")
		m.descInput.SetValue("")
		m.modalField = fieldName
		m.nameInput.Focus()
		m.descInput.Blur()
		ui.ShowModal(app.ModalCreateChat)
		return m, nil
	case "ctrl+s":
		active := m.app.ActiveChat()
		m.nameInput.SetValue(active.Name)
		m.descInput.SetValue(active.Description)
		m.modalField = fieldName
		m.nameInput.Focus()
		m.descInput.Blur()
		ui.ShowModal(app.ModalChatSettings)
		return m, nil
	}

	if ui.ModalOpen(app.ModalCreateChat) || ui.ModalOpen(app.ModalChatSettings) {
		return m.handleModalKey(msg)
	}

	if msg.String() == "enter" {
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		if m.modalField == fieldName {
			m.modalField = fieldDesc
			m.nameInput.Blur()
			m.descInput.Focus()
		} else {
			m.modalField = fieldName
			m.descInput.Blur()
			m.nameInput.Focus()
		}
		return m, nil
	case "enter":
		name := m.nameInput.Value()
		desc := m.descInput.Value()
		if m.app.UI.ModalOpen(app.ModalCreateChat) {
			_, _ = m.app.CreateChat(name, desc, "collaborative")
		} else {
			_ = m.app.UpdateChatSettings(name, desc)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.modalField == fieldName {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.descInput, cmd = m.descInput.Update(msg)
	}
	return m, cmd
}

// submitInput sends the message text, routing slash commands first.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "/") {
		m.runCommand(trimmed)
		m.input.SetValue("")
		return m, nil
	}

	if m.app.Chat.Send(text, m.app.Tray.Files()) {
		m.input.SetValue("")
	}
	return m, nil
}

func (m Model) runCommand(cmd string) {
	parts := strings.Fields(cmd)
	arg := ""
	if len(parts) > 1 {
		arg = strings.Join(parts[1:], " ")
	}
	switch parts[0] {
	case "/attach":
		if arg == "" {
			m.app.UI.Notify("用法: /attach <文件路径>", domain.NotifyWarning)
			return
		}
		data, err := os.ReadFile(arg)
		if err != nil {
			m.app.UI.Notify("无法读取文件: "+err.Error(), domain.NotifyError)
			return
		}
		file := domain.File{
			Name: filepath.Base(arg),
			Type: mimeByName(arg),
			Size: int64(len(data)),
			Data: data,
		}
		attach.HandleUpload(file, m.app.Tray)
	case "/profile":
		m.app.UI.ShowAgentProfile(arg)
	case "/add":
		if len(parts) < 4 {
			m.app.UI.Notify("用法: /add <ID> <名称> <角色>", domain.NotifyWarning)
			return
		}
		m.app.Members.Add(domain.Member{
			ID:     parts[1],
			Name:   parts[2],
			Role:   strings.Join(parts[3:], " "),
			Status: domain.StatusOnline,
		})
	case "/remove":
		m.app.Members.Remove(arg)
	case "/status":
		if len(parts) == 3 {
			m.app.Members.UpdateStatus(parts[1], domain.MemberStatus(parts[2]))
			return
		}
		m.app.UI.Notify("用法: /status <成员ID> <状态>", domain.NotifyWarning)
	case "/switch":
		for _, c := range m.app.Chats() {
			if c.Name == arg || c.ID == arg {
				_ = m.app.SwitchChat(c.ID)
				return
			}
		}
		m.app.UI.Notify("未找到该群聊", domain.NotifyError)
	default:
		m.app.UI.Notify("未知命令: "+parts[0], domain.NotifyWarning)
	}
}

func mimeByName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
