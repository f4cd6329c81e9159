// Package ui owns the chrome state of the chat window: panel collapse,
// modal visibility, toast notifications and the agent-profile popup.
// Rendering is left to the frontend; this package only holds state and
// timers.
package ui

import (
	"log/slog"
	"sync"
	"time"

	"agentchat/internal/util"
	"agentchat/pkg/domain"
)

// DefaultBreakpoint is the viewport width below which the side panels
// behave as overlays instead of collapsing in place.
const DefaultBreakpoint = 768

// Panel is the collapse state of one side panel.
type Panel struct {
	// OverlayActive applies below the breakpoint: the panel slides over
	// the content instead of reserving space.
	OverlayActive bool
	// Collapsed applies at or above the breakpoint; ContentExpanded is the
	// companion flag on the main content region.
	Collapsed       bool
	ContentExpanded bool
}

// Indicator returns the direction glyph of the panel's collapse toggle.
func (p Panel) Indicator(rightPanel bool) string {
	open := !p.Collapsed
	if open != rightPanel {
		return "‹"
	}
	return "›"
}

type toast struct {
	note  domain.Notification
	fade  *time.Timer
	expel *time.Timer
}

// Options configure a Controller.
type Options struct {
	Breakpoint    int
	NotifyDisplay time.Duration
	NotifyFade    time.Duration
	UserLabel     string
	Profiles      []domain.AgentProfile
	OnChange      func()
}

// Controller is one instance of the chrome state. Multiple widgets can each
// own their own Controller; there is no package-level state.
type Controller struct {
	mu sync.Mutex

	width      int
	breakpoint int
	sidebar    Panel
	members    Panel

	modals        map[string]bool
	bodyModalOpen bool

	toasts        []*toast
	notifyDisplay time.Duration
	notifyFade    time.Duration

	userLabel string
	profiles  map[string]domain.AgentProfile
	visible   *domain.AgentProfile

	onChange func()
	closed   bool
}

// New builds a Controller with the built-in agent profiles plus any extras
// from opts. Modal IDs must be registered before they can be shown.
func New(opts Options) *Controller {
	if opts.Breakpoint <= 0 {
		opts.Breakpoint = DefaultBreakpoint
	}
	if opts.NotifyDisplay <= 0 {
		opts.NotifyDisplay = 3000 * time.Millisecond
	}
	if opts.NotifyFade <= 0 {
		opts.NotifyFade = 500 * time.Millisecond
	}
	if opts.UserLabel == "" {
		opts.UserLabel = "用户"
	}
	c := &Controller{
		breakpoint:    opts.Breakpoint,
		notifyDisplay: opts.NotifyDisplay,
		notifyFade:    opts.NotifyFade,
		userLabel:     opts.UserLabel,
		modals:        make(map[string]bool),
		profiles:      make(map[string]domain.AgentProfile),
		onChange:      opts.OnChange,
	}
	for _, p := range builtinProfiles {
		c.profiles[p.Name] = p
	}
	for _, p := range opts.Profiles {
		c.profiles[p.Name] = p
	}
	if c.onChange == nil {
		c.onChange = func() {}
	}
	return c
}

// SetOnChange replaces the change callback fired after every state update.
func (c *Controller) SetOnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fn == nil {
		fn = func() {}
	}
	c.onChange = fn
}

// SetWidth records the viewport width used by the breakpoint checks.
func (c *Controller) SetWidth(w int) {
	c.mu.Lock()
	c.width = w
	c.mu.Unlock()
}

// Narrow reports whether the viewport is below the breakpoint, where the
// side panels behave as overlays.
func (c *Controller) Narrow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width < c.breakpoint
}

// Visible reports whether a panel is shown in the current layout mode:
// overlay-active below the breakpoint, not-collapsed at or above it.
func (c *Controller) Visible(p Panel) bool {
	if c.Narrow() {
		return p.OverlayActive
	}
	return !p.Collapsed
}

// ToggleSidebar flips the sidebar between shown and hidden. Two calls
// restore the original state.
func (c *Controller) ToggleSidebar() {
	c.mu.Lock()
	togglePanel(&c.sidebar, c.width, c.breakpoint)
	c.mu.Unlock()
	c.onChange()
}

// ToggleMembers flips the member panel between shown and hidden.
func (c *Controller) ToggleMembers() {
	c.mu.Lock()
	togglePanel(&c.members, c.width, c.breakpoint)
	c.mu.Unlock()
	c.onChange()
}

func togglePanel(p *Panel, width, breakpoint int) {
	if width < breakpoint {
		p.OverlayActive = !p.OverlayActive
		return
	}
	p.Collapsed = !p.Collapsed
	p.ContentExpanded = p.Collapsed
}

// Sidebar returns the sidebar panel state.
func (c *Controller) Sidebar() Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sidebar
}

// Members returns the member panel state.
func (c *Controller) Members() Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.members
}

// RegisterModal declares a modal ID. Showing an unregistered modal is a
// programming error surfaced as an error toast.
func (c *Controller) RegisterModal(id string) {
	c.mu.Lock()
	if _, ok := c.modals[id]; !ok {
		c.modals[id] = false
	}
	c.mu.Unlock()
}

// ShowModal opens the named modal and marks the body as modal-open.
func (c *Controller) ShowModal(id string) bool {
	c.mu.Lock()
	if _, ok := c.modals[id]; !ok {
		c.mu.Unlock()
		slog.Error("unknown modal", "id", id)
		c.Notify("未找到对话框: "+id, domain.NotifyError)
		return false
	}
	c.modals[id] = true
	c.bodyModalOpen = true
	c.mu.Unlock()
	c.onChange()
	return true
}

// HideModal closes the named modal; the body marker clears once no modal
// remains open.
func (c *Controller) HideModal(id string) {
	c.mu.Lock()
	if _, ok := c.modals[id]; ok {
		c.modals[id] = false
	}
	anyOpen := false
	for _, open := range c.modals {
		anyOpen = anyOpen || open
	}
	c.bodyModalOpen = anyOpen
	c.mu.Unlock()
	c.onChange()
}

// HideAllModals closes every modal and clears the body marker. This is the
// cancel path for every dialog.
func (c *Controller) HideAllModals() {
	c.mu.Lock()
	for id := range c.modals {
		c.modals[id] = false
	}
	c.bodyModalOpen = false
	c.mu.Unlock()
	c.onChange()
}

// ModalOpen reports whether the named modal is visible.
func (c *Controller) ModalOpen(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modals[id]
}

// BodyModalOpen reports whether any modal is visible.
func (c *Controller) BodyModalOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bodyModalOpen
}

// Notify shows a transient toast. It fades after the display duration and
// is removed after the fade; concurrent toasts simply stack. The dismiss
// timers are owned by the toast and cancelled on Close.
func (c *Controller) Notify(message string, typ domain.NotificationType) {
	if typ == "" {
		typ = domain.NotifySuccess
	}
	t := &toast{note: domain.Notification{ID: util.NewID(), Message: message, Type: typ}}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.toasts = append(c.toasts, t)
	t.fade = time.AfterFunc(c.notifyDisplay, func() { c.fadeToast(t.note.ID) })
	c.mu.Unlock()
	c.onChange()
}

func (c *Controller) fadeToast(id string) {
	c.mu.Lock()
	for _, t := range c.toasts {
		if t.note.ID == id {
			t.note.Fading = true
			t.expel = time.AfterFunc(c.notifyFade, func() { c.expelToast(id) })
		}
	}
	c.mu.Unlock()
	c.onChange()
}

func (c *Controller) expelToast(id string) {
	c.mu.Lock()
	kept := c.toasts[:0]
	for _, t := range c.toasts {
		if t.note.ID != id {
			kept = append(kept, t)
		}
	}
	c.toasts = kept
	c.mu.Unlock()
	c.onChange()
}

// Notifications returns the live toasts in creation order.
func (c *Controller) Notifications() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Notification, 0, len(c.toasts))
	for _, t := range c.toasts {
		out = append(out, t.note)
	}
	return out
}

// ShowAgentProfile opens the profile popup for the named agent. Empty names
// and the current user label are ignored; unknown agents get a generic
// profile whose avatar glyph is the name's first character.
func (c *Controller) ShowAgentProfile(name string) bool {
	if name == "" || name == c.userLabel {
		return false
	}
	c.mu.Lock()
	p, ok := c.profiles[name]
	if !ok {
		p = genericProfile(name)
	}
	c.visible = &p
	c.mu.Unlock()
	c.onChange()
	return true
}

// HideAgentProfile dismisses the profile popup.
func (c *Controller) HideAgentProfile() {
	c.mu.Lock()
	c.visible = nil
	c.mu.Unlock()
	c.onChange()
}

// VisibleProfile returns the currently shown profile, if any.
func (c *Controller) VisibleProfile() *domain.AgentProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.visible == nil {
		return nil
	}
	p := *c.visible
	return &p
}

// Close cancels every pending toast timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, t := range c.toasts {
		if t.fade != nil {
			t.fade.Stop()
		}
		if t.expel != nil {
			t.expel.Stop()
		}
	}
	c.toasts = nil
}
