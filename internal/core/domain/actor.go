package domain

import "strconv"

// Role is the small integer group identifier stored on every actor.
type Role int

const (
	RoleAttendee Role = 1
	RoleHost     Role = 2
)

// Valid reports whether r is one of the known groups.
func (r Role) Valid() bool {
	return r == RoleAttendee || r == RoleHost
}

func (r Role) String() string {
	switch r {
	case RoleAttendee:
		return "ATTENDEE"
	case RoleHost:
		return "HOST"
	default:
		return "UNKNOWN(" + strconv.Itoa(int(r)) + ")"
	}
}

// Actor models an authenticated principal. Actors are created by an
// external registration path and never mutated here.
type Actor struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"name"`
	Role        Role   `json:"group_id"`
}

// Claims is the identity recovered from a verified session token.
type Claims struct {
	ActorID int64
	Role    Role
}
