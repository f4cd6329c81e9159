package chat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"agentchat/pkg/domain"
)

// ExportWriter persists an exported transcript. The default writes a file
// in the export directory; tests substitute an in-memory writer.
type ExportWriter interface {
	WriteExport(name string, data []byte) error
}

// FileWriter writes exports into Dir (current directory when empty).
type FileWriter struct {
	Dir string
}

func (w FileWriter) WriteExport(name string, data []byte) error {
	return os.WriteFile(filepath.Join(w.Dir, name), data, 0o644)
}

// RenderTranscript turns messages into the exported Markdown document: a
// fixed heading, then one "## sender (time)" section per message in log
// order, each reproducing the message text verbatim.
func RenderTranscript(msgs []domain.Message) string {
	var b strings.Builder
	b.WriteString("# 聊天记录导出\n")
	for _, m := range msgs {
		fmt.Fprintf(&b, "\n## %s (%s)\n\n%s\n", m.Sender, m.Time, m.Text)
	}
	return b.String()
}

// Export reads the chat's log — not the rendered view — renders it to
// Markdown and hands it to the export writer. It returns the generated
// filename.
func (c *Controller) Export() (string, error) {
	c.mu.Lock()
	chatID := c.chatID
	exporter := c.exporter
	c.mu.Unlock()

	msgs := c.log.Messages(chatID)
	doc := RenderTranscript(msgs)
	name := fmt.Sprintf("聊天记录_%s.md", time.Now().Format("2006-01-02"))
	if err := exporter.WriteExport(name, []byte(doc)); err != nil {
		c.notifier.Notify("导出失败: "+err.Error(), domain.NotifyError)
		return "", fmt.Errorf("write export: %w", err)
	}
	c.notifier.Notify("聊天记录已导出: "+name, domain.NotifySuccess)
	return name, nil
}
