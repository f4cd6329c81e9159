package tui

import (
	"fmt"
	"strings"

	"agentchat/internal/app"
	"agentchat/internal/attach"
	"agentchat/internal/member"
	"agentchat/pkg/domain"

	"github.com/charmbracelet/lipgloss"
)

const (
	sidebarWidth = 22
	membersWidth = 26
)

func (m Model) View() string {
	if m.width == 0 {
		return "加载中…"
	}

	var columns []string
	mainWidth := m.width

	if m.app.UI.Visible(m.app.UI.Sidebar()) {
		columns = append(columns, sidebarStyle.Width(sidebarWidth).Render(m.renderSidebar()))
		mainWidth -= sidebarWidth + 1
	}

	showMembers := m.app.UI.Visible(m.app.UI.Members())
	if showMembers {
		mainWidth -= membersWidth + 1
	}

	main := m.renderMain(mainWidth)
	columns = append(columns, lipgloss.NewStyle().Width(mainWidth).Render(main))

	if showMembers {
		columns = append(columns, memberPanelStyle.Width(membersWidth).Render(m.renderMembers()))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func (m Model) renderMain(width int) string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if toasts := m.renderToasts(); toasts != "" {
		b.WriteString(toasts)
		b.WriteString("\n")
	}

	if overlay := m.renderOverlay(width); overlay != "" {
		b.WriteString(overlay)
		b.WriteString("\n")
	}

	transcript := m.renderTranscript(width)
	inputArea := m.renderInputArea()

	// Keep the transcript within the space the input area leaves over.
	used := lipgloss.Height(b.String()) + lipgloss.Height(inputArea)
	avail := m.height - used - 1
	lines := strings.Split(transcript, "\n")
	if avail > 0 && len(lines) > avail {
		lines = lines[len(lines)-avail:]
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	b.WriteString(inputArea)
	return b.String()
}

func (m Model) renderHeader() string {
	active := m.app.ActiveChat()
	icon, tooltip := m.app.Chat.ToggleButton()
	header := titleStyle.Render(active.Name)
	if m.app.Chat.Pending() {
		header += " " + m.spin.View() + thinkingStyle.Render("对方正在输入…")
	}
	header += "  " + helpStyle.Render(fmt.Sprintf("[%s %s]", icon, tooltip))
	return header
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("群聊列表"))
	b.WriteString("\n\n")
	activeID := m.app.ActiveChat().ID
	for _, c := range m.app.Chats() {
		name := c.Name
		if c.ID == activeID {
			b.WriteString(activeChatStyle.Render("▸ " + name))
		} else {
			b.WriteString("  " + name)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("/switch 名称"))
	return b.String()
}

func (m Model) renderMembers() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("成员"))
	b.WriteString("\n\n")
	for _, row := range m.app.Members.List() {
		b.WriteString(renderMemberRow(row))
		b.WriteString("\n")
	}
	return b.String()
}

func renderMemberRow(row member.Row) string {
	name := row.Member.Name
	nameStyle := userNameStyle
	if row.IsAgent {
		nameStyle = agentNameStyle
	}
	line := fmt.Sprintf("(%s) %s %s",
		row.Glyph,
		nameStyle.Render(name),
		statusStyle(string(row.Member.Status)).Render("●"+string(row.Member.Status)),
	)
	if row.Deleting {
		return deletingStyle.Render(line + " 移除中…")
	}
	return line
}

func (m Model) renderToasts() string {
	notes := m.app.UI.Notifications()
	if len(notes) == 0 {
		return ""
	}
	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		lines = append(lines, toastStyle(string(n.Type), n.Fading).Render("• "+n.Message))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTranscript(width int) string {
	msgs := m.app.Transcript.Messages(m.app.ActiveChat().ID)
	if len(msgs) == 0 {
		return helpStyle.Render("暂无消息，说点什么吧。")
	}
	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, m.renderMessage(msg, width))
	}
	return strings.Join(blocks, "\n")
}

// renderMessage branches strictly on IsAgent: agents stack header, text and
// time; users get a name/time row above a bubble.
func (m Model) renderMessage(msg domain.Message, width int) string {
	body := m.renderBody(msg, width)

	if msg.IsAgent {
		header := agentNameStyle.Render(msg.Sender)
		if msg.Status == domain.MessageThinking {
			header += " " + thinkingStyle.Render("思考中…")
		}
		return header + "\n" + body + "\n" + timeStyle.Render(msg.Time) + "\n"
	}

	header := userNameStyle.Render(msg.Sender) + " " + timeStyle.Render(msg.Time)
	return header + "\n" + userBubbleStyle.Render(body) + "\n"
}

// renderBody applies the markdown/plain security contract: only messages
// flagged markdown render as rich content, everything else is escaped.
func (m Model) renderBody(msg domain.Message, width int) string {
	text := msg.Text
	if msg.Markdown && m.md != nil {
		if rendered, err := m.md.Render(text); err == nil {
			text = strings.TrimRight(rendered, "\n")
		}
	} else {
		text = escapePlain(text)
	}
	if msg.Attachment != nil {
		text += "\n" + renderAttachment(*msg.Attachment)
	}
	return text
}

func renderAttachment(a domain.Attachment) string {
	if strings.HasPrefix(a.Type, "image/") {
		return attachmentStyle.Render(fmt.Sprintf("🖼 [图片] %s", a.Name))
	}
	icon := attach.IconFor(domain.File{Name: a.Name, Type: a.Type})
	return attachmentStyle.Render(fmt.Sprintf("%s %s ⬇", icon.Glyph(), a.Name))
}

func (m Model) renderInputArea() string {
	var b strings.Builder
	if previews := m.app.Tray.List(); len(previews) > 0 {
		parts := make([]string, 0, len(previews))
		for _, p := range previews {
			parts = append(parts, fmt.Sprintf("%s %s ✕", p.Icon.Glyph(), p.Label))
		}
		b.WriteString(attachmentStyle.Render(strings.Join(parts, "  ")))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Enter发送 · ^B侧栏 · ^U成员 · ^T开关 · ^E导出 · ^N新群聊 · ^S设置 · ^C退出"))
	return b.String()
}

func (m Model) renderOverlay(width int) string {
	if p := m.app.UI.VisibleProfile(); p != nil {
		return m.renderProfile(*p, width)
	}
	if m.app.UI.ModalOpen(app.ModalCreateChat) {
		return m.renderFormModal("创建群聊", width)
	}
	if m.app.UI.ModalOpen(app.ModalChatSettings) {
		return m.renderFormModal("群聊设置", width)
	}
	return ""
}

func (m Model) renderFormModal(title string, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n")
	b.WriteString(m.descInput.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("Tab切换 · Enter确认 · Esc取消"))
	return modalStyle.MaxWidth(width).Render(b.String())
}

func (m Model) renderProfile(p domain.AgentProfile, width int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("(%s) %s — %s\n\n", p.Glyph, titleStyle.Render(p.Name), p.Role))
	b.WriteString(p.Description)
	if len(p.Capabilities) > 0 {
		b.WriteString("\n\n能力: " + strings.Join(p.Capabilities, " / "))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("Esc关闭"))
	return modalStyle.MaxWidth(width).Render(b.String())
}

// escapePlain strips terminal escape and control characters from untrusted
// text so a message cannot inject styling or cursor movement.
func escapePlain(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
