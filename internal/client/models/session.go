package models

// Session is the signed-in state of the client.
type Session struct {
	Username       string
	OrganizationID string
	AccessToken    string
}

// Active reports whether the session can scope writes to an organization.
func (s Session) Active() bool {
	return s.OrganizationID != ""
}
