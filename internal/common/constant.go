package common

// GuestOwnerKey is the reserved partition that always exists and needs no
// credential.
const GuestOwnerKey = "guest"

// AuthorizationHeaderName carries the bearer token on requests to the token
// server.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "
