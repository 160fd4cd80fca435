package config

import "time"

const (
	// MaxTitleLength caps workspace, folder and file titles. 255 fits the
	// VARCHAR(255) columns and keeps titles displayable in the sidebar.
	MaxTitleLength = 255

	// DefaultDebounceDelay is the quiet period before a rename or content
	// edit is persisted. Matches the editor's autosave cadence.
	DefaultDebounceDelay = 5 * time.Second

	// DefaultFolderIcon and DefaultFileIcon seed newly created nodes until
	// the user picks an emoji.
	DefaultFolderIcon = "📁"
	DefaultFileIcon   = "📄"

	// FreePlanFolderLimit is how many folders a workspace may hold without
	// an active subscription.
	FreePlanFolderLimit = 3
)
