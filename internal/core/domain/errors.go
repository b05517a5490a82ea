package domain

import "errors"

// ============================================================================
// Catalog Errors
// ============================================================================

// Not found errors
var (
	ErrArtifactNotFound    = errors.New("artifact not found")
	ErrShapeNotFound       = errors.New("shape not found")
	ErrCultureNotFound     = errors.New("culture not found")
	ErrTagNotFound         = errors.New("tag not found")
	ErrInstitutionNotFound = errors.New("institution not found")
	ErrThumbnailNotFound   = errors.New("thumbnail not found")
	ErrModelNotFound       = errors.New("3d model not found")
	ErrImageNotFound       = errors.New("image not found")
	ErrInvalidPage         = errors.New("invalid page")
)

// Conflict errors
var (
	ErrArtifactExists    = errors.New("artifact with this id already exists")
	ErrInstitutionExists = errors.New("institution with this name already exists")
	ErrAlreadyExists     = errors.New("already exists")
)

// Validation errors
var (
	ErrDescriptionRequired = errors.New("description is required")
	ErrDescriptionTooLong  = errors.New("description must be at most 300 characters")
	ErrShapeRequired       = errors.New("shape is required")
	ErrCultureRequired     = errors.New("culture is required")
	ErrModelFilesRequired  = errors.New("texture, object and material files are required")
	ErrInvalidFilename     = errors.New("invalid file name")
	ErrInstitutionRequired = errors.New("institution name is required")
	ErrRequesterIncomplete = errors.New("name, rut, email and institution are required")
	ErrInvalidRUT          = errors.New("invalid rut")
	ErrInvalidRole         = errors.New("role must be FUNCIONARIO or ADMINISTRADOR")
	ErrUsernameRequired    = errors.New("username is required")
	ErrCredentialsRequired = errors.New("email and password are required")
)

// ============================================================================
// Access Control Errors
// ============================================================================

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user with this username or email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication credentials were not provided or are invalid")
	ErrSessionExpired     = errors.New("login required again")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrUserInactive       = errors.New("user account is disabled")
)

// ============================================================================
// Import Errors
// ============================================================================

var (
	ErrSourceNotFound = errors.New("import source not found")
	ErrMalformedRow   = errors.New("malformed row")
)
