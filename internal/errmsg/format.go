// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Feed operations
	OpFeedLoad   Op = "load feed"
	OpFeedImport Op = "import feed"
	OpFeedWatch  Op = "watch feed"
	OpFeedPrune  Op = "prune expired snaps"

	// Store operations
	OpStoreOpen Op = "open story database"
	OpStoreLoad Op = "load stories"

	// Viewer operations
	OpViewerOpen Op = "open story"
	OpMediaLoad  Op = "load media"
	OpPhotoLoad  Op = "load photo"

	// Initialization
	OpConfigLoad Op = "load config"
	OpLogOpen    Op = "open log file"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
