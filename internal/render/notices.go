package render

import "sync"

// Backlog is how many notices the log keeps; older ones fall off.
const Backlog = 30

// NoticeLog keeps the most recent authority messages for display under the
// table. Safe for use from the loop goroutine and the renderer.
type NoticeLog struct {
	mu    sync.Mutex
	lines []string
}

func (n *NoticeLog) Add(line string) {
	if line == "" {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lines = append(n.lines, line)
	if len(n.lines) > Backlog {
		n.lines = n.lines[len(n.lines)-Backlog:]
	}
}

// Lines returns a copy of the backlog, oldest first.
func (n *NoticeLog) Lines() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.lines...)
}

// Latest returns the newest notice, or "" when the log is empty.
func (n *NoticeLog) Latest() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.lines) == 0 {
		return ""
	}
	return n.lines[len(n.lines)-1]
}
