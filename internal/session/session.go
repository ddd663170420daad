// Package session tracks the privilege level of the current console
// session. The state is an explicit value threaded through the
// dispatcher rather than a process-wide global, so gating is testable
// in isolation.
package session

// Role is the session's privilege level.
type Role int

const (
	// RoleRestricted is the initial, unprivileged role.
	RoleRestricted Role = iota
	// RolePrivileged is the administrative role, reached only through a
	// successful credential check.
	RolePrivileged
)

// Identity names accepted by the change-identity command.
const (
	RestrictedName = "user"
	PrivilegedName = "admin"
)

// Session holds the role for one console session. Lifetime is the
// process; nothing is persisted across runs.
type Session struct {
	role Role
}

// New returns a session starting in the restricted role.
func New() *Session {
	return &Session{role: RoleRestricted}
}

// Role returns the current role.
func (s *Session) Role() Role { return s.role }

// Privileged reports whether gated operations are currently allowed.
func (s *Session) Privileged() bool { return s.role == RolePrivileged }

// Elevate promotes the session to the privileged role. Callers must
// have verified credentials first; the session itself does not check.
func (s *Session) Elevate() { s.role = RolePrivileged }

// Drop demotes the session to the restricted role. Always succeeds,
// from either prior state.
func (s *Session) Drop() { s.role = RoleRestricted }

// Name returns the identity name for the current role.
func (s *Session) Name() string {
	if s.role == RolePrivileged {
		return PrivilegedName
	}
	return RestrictedName
}
