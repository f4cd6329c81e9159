// Package attach builds attachment previews for the message input area.
// There is no real upload: bytes stay in the process and previews only
// describe what will be attached to the next sent message.
package attach

import (
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"agentchat/pkg/domain"

	"github.com/google/uuid"
)

// IconKind classifies a file for preview display.
type IconKind string

const (
	IconImage       IconKind = "image"
	IconPDF         IconKind = "pdf"
	IconWord        IconKind = "word"
	IconSpreadsheet IconKind = "spreadsheet"
	IconSlides      IconKind = "slides"
	IconGeneric     IconKind = "file"
)

// iconByExt is consulted after the MIME check. Matching is case-sensitive:
// "report.PDF" falls through to the generic icon.
var iconByExt = map[string]IconKind{
	".pdf":  IconPDF,
	".doc":  IconWord,
	".docx": IconWord,
	".xls":  IconSpreadsheet,
	".xlsx": IconSpreadsheet,
	".ppt":  IconSlides,
	".pptx": IconSlides,
}

// Glyph returns the terminal glyph for the icon.
func (k IconKind) Glyph() string {
	switch k {
	case IconImage:
		return "🖼"
	case IconPDF:
		return "📕"
	case IconWord:
		return "📘"
	case IconSpreadsheet:
		return "📗"
	case IconSlides:
		return "📙"
	default:
		return "📄"
	}
}

// IconFor picks an icon by MIME type first, then by filename extension.
func IconFor(file domain.File) IconKind {
	if strings.HasPrefix(file.Type, "image/") {
		return IconImage
	}
	if kind, ok := iconByExt[path.Ext(file.Name)]; ok {
		return kind
	}
	return IconGeneric
}

const maxLabelRunes = 20

// truncateLabel shortens long filenames around a middle ellipsis so the
// extension stays visible.
func truncateLabel(name string) string {
	runes := []rune(name)
	if len(runes) <= maxLabelRunes {
		return name
	}
	head := runes[:10]
	tail := runes[len(runes)-7:]
	return string(head) + "…" + string(tail)
}

// Preview is one pending attachment shown above the message input.
type Preview struct {
	ID    string
	File  domain.File
	Icon  IconKind
	Label string

	tray *Tray
}

// NewPreview builds a preview element for the file.
func NewPreview(file domain.File) *Preview {
	return &Preview{
		ID:    uuid.NewString(),
		File:  file,
		Icon:  IconFor(file),
		Label: truncateLabel(file.Name),
	}
}

// Remove detaches the preview from its tray. It only affects the preview:
// there is no in-flight upload to cancel.
func (p *Preview) Remove() {
	if p.tray != nil {
		p.tray.remove(p.ID)
		p.tray = nil
	}
}

// Tray is the ordered container of pending previews (the input-wrapper
// collaborator in the original layout).
type Tray struct {
	mu       sync.Mutex
	previews []*Preview
}

// NewTray initializes an empty preview tray.
func NewTray() *Tray {
	return &Tray{}
}

// Add attaches a preview to the end of the tray.
func (t *Tray) Add(p *Preview) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p.tray = t
	t.previews = append(t.previews, p)
}

func (t *Tray) remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.previews[:0]
	for _, p := range t.previews {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	t.previews = kept
}

// List returns the current previews in display order.
func (t *Tray) List() []*Preview {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Preview, len(t.previews))
	copy(out, t.previews)
	return out
}

// Files returns the pending files in display order.
func (t *Tray) Files() []domain.File {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.File, 0, len(t.previews))
	for _, p := range t.previews {
		out = append(out, p.File)
	}
	return out
}

// Clear detaches every preview, as after a successful send.
func (t *Tray) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.previews {
		p.tray = nil
	}
	t.previews = nil
}

// Len reports the number of pending previews.
func (t *Tray) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.previews)
}

// HandleUpload builds a preview for the file, attaches it to the tray and
// returns it.
func HandleUpload(file domain.File, tray *Tray) *Preview {
	p := NewPreview(file)
	tray.Add(p)
	return p
}

// WrapPastedImage wraps clipboard image bytes into a synthetic PNG file.
func WrapPastedImage(data []byte) domain.File {
	return domain.File{
		Name: fmt.Sprintf("pasted-image_%d.png", time.Now().UnixMilli()),
		Type: "image/png",
		Size: int64(len(data)),
		Data: data,
	}
}

// HandlePastedImage wraps the pasted bytes and attaches a preview for them.
func HandlePastedImage(data []byte, tray *Tray) *Preview {
	return HandleUpload(WrapPastedImage(data), tray)
}
