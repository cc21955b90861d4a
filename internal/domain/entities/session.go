package entities

// Session describes the authenticated account acting on the local data,
// as resolved from the remote profiles table.
type Session struct {
	UserID      string
	Email       string
	Role        string // domain.RoleAdmin | RoleUser
	DisplayName string
}

// IsAdmin reports whether the session holds the elevated organizer role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == "admin"
}
