package main

import "strings"

// admission is the outcome of a successful join
type admission struct {
	role     string
	username string
	tank     TankState
}

// Admit validates a join and, for players, creates the tank. Every
// rejection leaves the world untouched.
func (h *Hub) Admit(msg JoinMsg) (admission, error) {
	role := strings.ToLower(strings.TrimSpace(msg.Role))
	switch role {
	case RoleSpectator:
		return admission{role: role}, nil
	case RolePlayer:
	default:
		return admission{}, ErrInvalidRole
	}

	username := strings.TrimSpace(msg.Username)
	if username == "" {
		return admission{}, ErrMissingUsername
	}
	if strings.TrimSpace(msg.Team) == "" {
		return admission{}, ErrMissingTeam
	}
	team, ok := ParseTeam(msg.Team)
	if !ok {
		return admission{}, ErrUnknownTeam
	}
	if h.world.HasUsername(username) {
		return admission{}, ErrDuplicateUsername
	}
	// Account lookup runs outside the world lock.
	if h.auth != nil {
		if err := h.auth.CheckReservation(username, msg.Token); err != nil {
			return admission{}, err
		}
	}

	tank, err := h.world.CreateTank(username, team)
	if err != nil {
		return admission{}, err
	}
	return admission{role: role, username: tank.Username, tank: tank}, nil
}
