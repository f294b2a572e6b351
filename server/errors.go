package main

import "errors"

// Join rejections. The world is left unchanged whenever one is returned.
var (
	ErrInvalidRole       = errors.New("invalid role")
	ErrMissingUsername   = errors.New("missing username")
	ErrMissingTeam       = errors.New("missing team")
	ErrUnknownTeam       = errors.New("unknown team")
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrNoSpawnPoint      = errors.New("no spawn point")
	ErrUsernameReserved  = errors.New("username reserved")
)

// joinErrorMessage is the text sent back to a client whose join failed
func joinErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRole):
		return "Invalid role."
	case errors.Is(err, ErrMissingUsername):
		return "Username is required."
	case errors.Is(err, ErrMissingTeam):
		return "Team is required."
	case errors.Is(err, ErrUnknownTeam):
		return "Unknown team."
	case errors.Is(err, ErrDuplicateUsername):
		return "Username already exists."
	case errors.Is(err, ErrNoSpawnPoint):
		return "No available spawn point."
	case errors.Is(err, ErrUsernameReserved):
		return "Username belongs to a registered account."
	}
	return "Join failed."
}
