package constants

const (
	// Session and gin context keys
	SessionCookieName     = "taskboard_session"
	SessionKeyAddress     = "wallet_address"
	SessionKeyNonce       = "wallet_nonce"
	ContextKeySession     = "session"
	ContextKeyTask        = "task"
	SessionMaxAgeSeconds  = 86400 * 7
	DefaultListenAddr     = ":8080"
	DefaultProfilePicBase = "https://picsum.photos"

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200

	// Decorative profile pictures are picked from ids [0, ProfilePicIDRange)
	ProfilePicIDRange = 1000
	ProfilePicSize    = 150

	MaxAIGeneratedTasks = 20
)
