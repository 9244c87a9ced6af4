// Package common contains shared constants and sentinel errors used across
// weynak components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the session token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is accepted in front of the token but not required.
const BearerPrefix = "Bearer "
