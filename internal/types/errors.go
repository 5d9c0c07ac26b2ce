package types

import "errors"

var ErrNotFound = errors.New("requested item not found")
var ErrConflict = errors.New("item already exists or conflict")
var ErrUnauthenticated = errors.New("authentication required or invalid credentials")
var ErrSessionExpired = errors.New("session missing or expired")
var ErrValidation = errors.New("validation failed")
