package model

// Session is the authenticated identity held by the client: an opaque
// bearer token and the user record it was issued for.
// Trust in the pairing is not re-verified after login.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Valid reports whether both halves of the session are present.
// A session missing either the token or the user is treated as no session.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User != nil
}
