package tmux

import "strings"

// paneFields is the list-panes format. Fields are tab separated, in the order
// ParsePanes expects them. The title is last since it may contain tabs.
var paneFields = []string{
	"#{pane_id}",
	"#{window_id}",
	"#{window_index}",
	"#{window_name}",
	"#{pane_current_command}",
	"#{pane_left}",
	"#{pane_top}",
	"#{pane_width}",
	"#{pane_height}",
	"#{pane_active}",
	"#{pane_title}",
}

// PaneFormat is the -F argument passed to list-panes.
var PaneFormat = strings.Join(paneFields, "\t")

// Pane is one tmux pane as reported by list-panes.
type Pane struct {
	ID          string // Pane id (e.g. "%3")
	WindowID    string // Window id (e.g. "@1")
	WindowIndex string // Window index in the session (e.g. "1")
	WindowName  string // Window name (e.g. "editor")
	Command     string // Foreground command (e.g. "vim")
	Title       string // Pane title
	Left        int    // Column of the pane's left edge
	Top         int    // Row of the pane's top edge
	Width       int    // Width in cells
	Height      int    // Height in cells
	Active      bool   // Is this the window's active pane?
}

// Screen returns the partition key for the pane's window, "index:name".
func (p Pane) Screen() string {
	return p.WindowIndex + ":" + p.WindowName
}
