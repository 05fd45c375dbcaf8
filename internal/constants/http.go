package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
)

// HTTP Content Types
const (
	ContentTypeJSON      = "application/json"
	ContentTypeMultipart = "multipart/form-data"
)

// Common HTTP Error Messages
const (
	MsgUnauthorized  = "Unauthorized request"
	MsgNotFound      = "Resource not found"
	MsgBadRequest    = "Invalid request"
	MsgInternalError = "Internal server error"
	MsgConflict      = "Resource already exists"
)

// Multipart form field names for asset uploads
const (
	FormFieldAvatar     = "avatar"
	FormFieldCoverImage = "coverImage"
)
