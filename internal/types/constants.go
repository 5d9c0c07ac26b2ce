package types

import "time"

// Session handling constants shared by the auth service and middleware.
const (
	SessionHeaderName = "X-Session-Token"
	SessionKeyPrefix  = "Session_"
	DefaultSessionTTL = 30 * time.Minute
)

// Client-facing messages. The exact wording is part of the API contract and
// is asserted in tests; change with care.
const (
	MsgUnauthorizedAccess  = "Unauthorized access. Please login."
	MsgInvalidCredentials  = "Invalid username or password."
	MsgSessionExpired      = "Your session has expired. Please login again."
	MsgValidationFailed    = "Validation failed."
	MsgInternalServerError = "An internal server error occurred."
	MsgResourceNotFound    = "The requested resource was not found."
)
