package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFolderNameLength = 255

	// MaxChatNameLength is the maximum length for chat names.
	// Same as folder names for consistency.
	MaxChatNameLength = 255

	// MaxDescriptionLength is the maximum length for folder descriptions.
	// Set to 2000 to allow a short paragraph of matter context without
	// letting descriptions become documents.
	MaxDescriptionLength = 2000
)
