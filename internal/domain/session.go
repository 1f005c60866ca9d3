package domain

import "errors"

// ErrSessionNotFound indicates that no user is currently authenticated.
var ErrSessionNotFound = errors.New("sesión no encontrada")

// The session is a single optional snapshot of the authenticated user,
// overwritten as a whole on login, logout and balance updates. It mirrors
// one User record and carries no extra fields of its own.
