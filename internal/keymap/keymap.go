package keymap

import "github.com/charmbracelet/bubbles/key"

// Binding contexts.
const (
	ContextGlobal = "global"
	ContextFeed   = "feed"
	ContextViewer = "viewer"
)

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string
}

// All contains all key bindings for help generation.
var All = []Binding{
	// Global
	{ActionQuit, []string{"ctrl+c"}, "Quit", ContextGlobal},
	{ActionHelp, []string{"?"}, "Toggle help", ContextGlobal},

	// Feed list
	{ActionMoveUp, []string{"k", "up"}, "Move up", ContextFeed},
	{ActionMoveDown, []string{"j", "down"}, "Move down", ContextFeed},
	{ActionJumpStart, []string{"g", "home"}, "First story", ContextFeed},
	{ActionJumpEnd, []string{"G", "end"}, "Last story", ContextFeed},
	{ActionOpen, []string{"enter"}, "Watch", ContextFeed},
	{ActionReload, []string{"r"}, "Reload feed", ContextFeed},
	{ActionQuit, []string{"q"}, "Quit", ContextFeed},

	// Viewer
	{ActionPrevSnap, []string{"h", "left"}, "Previous", ContextViewer},
	{ActionNextSnap, []string{"l", "right"}, "Next", ContextViewer},
	{ActionTogglePause, []string{" "}, "Pause/resume", ContextViewer},
	{ActionDismiss, []string{"esc", "q"}, "Close", ContextViewer},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// ForScreen returns the bindings active on a screen: its own plus the
// global ones.
func ForScreen(context string) []Binding {
	return append(ByContext(context), ByContext(ContextGlobal)...)
}

// Key converts the binding for bubbles/help.
func (b Binding) Key() key.Binding {
	return key.NewBinding(
		key.WithKeys(b.Keys...),
		key.WithHelp(helpKeys(b.Keys), b.Description),
	)
}

func helpKeys(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	k := keys[0]
	switch k {
	case " ":
		return "space"
	case "left":
		return "←"
	case "right":
		return "→"
	}
	if len(keys) > 1 && len(k) == 1 {
		if alt, ok := arrows[keys[1]]; ok {
			return k + "/" + alt
		}
	}
	return k
}

var arrows = map[string]string{
	"up":    "↑",
	"down":  "↓",
	"left":  "←",
	"right": "→",
}
