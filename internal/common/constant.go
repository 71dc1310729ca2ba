// Package common contains shared constants and sentinel errors used across
// the blog client components.
package common

// Durable storage keys. The credential store keeps the bearer token and a
// couple of display hints under these names.
const (
	TokenKey      = "token"
	UsernameKey   = "username"
	IsLoggedInKey = "isLoggedIn"
)

// Outbound header names.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// Messages surfaced to containers when the server did not supply one.
const (
	GenericFailureMessage = "server error"
	LogoutFailureMessage  = "logout failed"
	SessionExpiredNotice  = "session expired, please log in again"
)
