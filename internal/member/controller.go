// Package member maintains the chat's member roster: add with duplicate-ID
// rejection, delayed removal with a visual transition window, and in-place
// status updates.
package member

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"agentchat/pkg/domain"
)

// DefaultRemoveDelay matches the row's leave transition: the row is marked
// deleting immediately and detached once the transition has played.
const DefaultRemoveDelay = 300 * time.Millisecond

// Notifier surfaces roster changes as toasts. *ui.Controller satisfies it.
type Notifier interface {
	Notify(message string, typ domain.NotificationType)
}

// agentRoleMarkers decide avatar styling: a role containing any marker gets
// the agent look, everything else the user look.
var agentRoleMarkers = []string{"智能体", "助手", "agent", "assistant", "AI"}

// IsAgentRole reports whether a role string marks an agent member.
func IsAgentRole(role string) bool {
	for _, marker := range agentRoleMarkers {
		if strings.Contains(role, marker) {
			return true
		}
	}
	return false
}

// Row is one rendered roster entry.
type Row struct {
	Member   domain.Member
	Glyph    string
	IsAgent  bool
	Deleting bool

	timer *time.Timer
}

// Controller owns the live roster for one chat window instance.
type Controller struct {
	mu          sync.Mutex
	rows        []*Row
	index       map[string]*Row
	notifier    Notifier
	removeDelay time.Duration
	onChange    func()
	closed      bool
}

// New builds an empty roster controller.
func New(notifier Notifier, removeDelay time.Duration, onChange func()) *Controller {
	if removeDelay <= 0 {
		removeDelay = DefaultRemoveDelay
	}
	if onChange == nil {
		onChange = func() {}
	}
	return &Controller{
		index:       make(map[string]*Row),
		notifier:    notifier,
		removeDelay: removeDelay,
		onChange:    onChange,
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

// Add appends a member row. Duplicate IDs are rejected with a warning
// toast; a member whose removal is still pending counts as present.
func (c *Controller) Add(m domain.Member) bool {
	c.mu.Lock()
	if _, exists := c.index[m.ID]; exists {
		c.mu.Unlock()
		c.notifier.Notify("成员已存在: "+m.Name, domain.NotifyWarning)
		return false
	}
	row := &Row{Member: m, Glyph: firstRune(m.Name), IsAgent: IsAgentRole(m.Role)}
	c.rows = append(c.rows, row)
	c.index[m.ID] = row
	c.mu.Unlock()

	c.notifier.Notify("已添加成员: "+m.Name, domain.NotifySuccess)
	c.onChange()
	return true
}

// Remove marks the member's row as deleting and detaches it after the
// transition delay. It returns true as soon as the removal is scheduled;
// callers must not assume the roster has shrunk yet.
func (c *Controller) Remove(id string) bool {
	c.mu.Lock()
	row, ok := c.index[id]
	if !ok || c.closed {
		c.mu.Unlock()
		c.notifier.Notify("未找到该成员", domain.NotifyError)
		return false
	}
	if row.Deleting {
		c.mu.Unlock()
		return true
	}
	row.Deleting = true
	row.timer = time.AfterFunc(c.removeDelay, func() { c.detach(id) })
	c.mu.Unlock()
	c.onChange()
	return true
}

func (c *Controller) detach(id string) {
	c.mu.Lock()
	row, ok := c.index[id]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.index, id)
	kept := c.rows[:0]
	for _, r := range c.rows {
		if r.Member.ID != id {
			kept = append(kept, r)
		}
	}
	c.rows = kept
	c.mu.Unlock()

	c.notifier.Notify("已移除成员: "+row.Member.Name, domain.NotifySuccess)
	c.onChange()
}

// UpdateStatus rewrites a member's status tag verbatim; the status value is
// not validated. Unknown IDs are logged and reported as false.
func (c *Controller) UpdateStatus(id string, status domain.MemberStatus) bool {
	c.mu.Lock()
	row, ok := c.index[id]
	if !ok {
		c.mu.Unlock()
		slog.Warn("member not found for status update", "id", id, "status", status)
		return false
	}
	row.Member.Status = status
	c.mu.Unlock()
	c.onChange()
	return true
}

// Get returns a snapshot of one member's row.
func (c *Controller) Get(id string) (Row, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	row, ok := c.index[id]
	if !ok {
		return Row{}, false
	}
	return *row, true
}

// List returns the roster rows in display order.
func (c *Controller) List() []Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Row, 0, len(c.rows))
	for _, r := range c.rows {
		out = append(out, *r)
	}
	return out
}

// Len reports the number of rendered rows, deleting ones included.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rows)
}

// Close cancels pending removal timers.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, r := range c.rows {
		if r.timer != nil {
			r.timer.Stop()
		}
	}
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return "?"
}
