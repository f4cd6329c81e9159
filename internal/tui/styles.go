package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("240")).
			PaddingRight(1)

	memberPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(lipgloss.Color("240")).
				PaddingLeft(1)

	activeChatStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

	agentNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	userNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114"))
	timeStyle      = lipgloss.NewStyle().Faint(true)
	thinkingStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))

	userBubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("114")).
			PaddingLeft(1).PaddingRight(1)

	attachmentStyle = lipgloss.NewStyle().Faint(true)

	deletingStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)

	statusStyles = map[string]lipgloss.Style{
		"online":  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"busy":    lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"away":    lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		"offline": lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	}
	statusDefaultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	toastStyles = map[string]lipgloss.Style{
		"success": lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		"error":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		"warning": lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		"info":    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
	}
	toastFadingStyle = lipgloss.NewStyle().Faint(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 2)

	helpStyle = lipgloss.NewStyle().Faint(true)
)

func statusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return statusDefaultStyle
}

func toastStyle(typ string, fading bool) lipgloss.Style {
	s, ok := toastStyles[typ]
	if !ok {
		s = toastStyles["info"]
	}
	if fading {
		return toastFadingStyle
	}
	return s
}
