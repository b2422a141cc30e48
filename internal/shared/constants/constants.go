package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderUserAgent     = "User-Agent"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUser      = "current_user"
	ContextKeyUserRoles = "user_roles"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableUsers        = "users"
	TableRoles        = "roles"
	TableUserRoles    = "user_roles"
	TableUserSessions = "user_sessions"
	TableTeachers     = "teachers"
	TableCourses      = "courses"
	TableReviews      = "reviews"

	// Client metadata column widths.
	MaxUserAgentLength = 255
	MaxIPAddressLength = 64

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgForbidden           = "Not enough permissions"
	ErrMsgMissingCredentials  = "Authentication credentials were not provided"
	ErrMsgInvalidAccessToken  = "Invalid or expired access token"
)
