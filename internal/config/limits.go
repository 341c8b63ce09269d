package config

const (
	// MaxSessionTitleLength is the maximum length for session titles.
	// Kept short for reasonable UX (titles should be short and descriptive)
	// and to fit a VARCHAR(255) column if sessions ever gain persistence.
	MaxSessionTitleLength = 255

	// MaxDerivedTitleLength is the cut point when deriving a session title
	// from the first prompt.
	MaxDerivedTitleLength = 40

	// MaxPromptLength bounds a single prompt submission.
	MaxPromptLength = 32_000

	// MinPasswordLength is the minimum account password length.
	MinPasswordLength = 6

	// MinUsernameLength / MaxUsernameLength bound account usernames.
	MinUsernameLength = 3
	MaxUsernameLength = 30

	// MaxUploadFiles is the maximum number of files per upload batch.
	MaxUploadFiles = 5

	// MaxUploadFileSize is the per-file upload size limit (5MB).
	MaxUploadFileSize = 5 << 20
)
