// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Feed list actions
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionJumpStart Action = "jump_start"
	ActionJumpEnd   Action = "jump_end"
	ActionOpen      Action = "open"   // enter - watch from the selected story
	ActionReload    Action = "reload" // r - re-import the feed file

	// Viewer actions
	ActionPrevSnap    Action = "prev_snap"    // left zone
	ActionNextSnap    Action = "next_snap"    // right zone
	ActionTogglePause Action = "toggle_pause" // middle zone
	ActionDismiss     Action = "dismiss"
)
