package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	// Workspace errors
	ErrWorkspaceNotFound     = "WORKSPACE_NOT_FOUND"
	ErrWorkspaceNotSpecified = "WORKSPACE_NOT_SPECIFIED"
	ErrConfigInvalid         = "CONFIG_INVALID"

	// Catalog errors
	ErrCatalogNotFound = "CATALOG_NOT_FOUND"
	ErrCatalogInvalid  = "CATALOG_INVALID"

	// Record errors
	ErrRecordNotFound  = "RECORD_NOT_FOUND"
	ErrFolderNotFound  = "FOLDER_NOT_FOUND"
	ErrFolderExists    = "FOLDER_EXISTS"
	ErrSelectorInvalid = "SELECTOR_INVALID"

	// File errors
	ErrFileNotFound         = "FILE_NOT_FOUND"
	ErrFileExists           = "FILE_EXISTS"
	ErrFileReadError        = "FILE_READ_ERROR"
	ErrFileWriteError       = "FILE_WRITE_ERROR"
	ErrFileOutsideWorkspace = "FILE_OUTSIDE_WORKSPACE"

	// Database errors
	ErrDatabaseError  = "DATABASE_ERROR"
	ErrDatabaseLocked = "DATABASE_LOCKED"

	// Validation errors
	ErrValidationFailed = "VALIDATION_FAILED"
	ErrInvalidValue     = "INVALID_VALUE"

	// Query errors
	ErrQueryInvalid = "QUERY_INVALID"

	// Input errors
	ErrInvalidInput         = "INVALID_INPUT"
	ErrMissingArgument      = "MISSING_ARGUMENT"
	ErrDuplicateName        = "DUPLICATE_NAME"
	ErrConfirmationRequired = "CONFIRMATION_REQUIRED"

	// General errors
	ErrInternal       = "INTERNAL_ERROR"
	ErrNotImplemented = "NOT_IMPLEMENTED"
)

// Warning codes for non-fatal issues.
const (
	WarnSkippedLine       = "SKIPPED_LINE"
	WarnUnknownType       = "UNKNOWN_TYPE"
	WarnIndexUpdateFailed = "INDEX_UPDATE_FAILED"
	WarnEmptyFolder       = "EMPTY_FOLDER"
	WarnNotIndexed        = "NOT_INDEXED"
)
