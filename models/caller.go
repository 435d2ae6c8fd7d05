package models

// Caller identifies the authenticated principal behind a request.
type Caller struct {
	UserID  string
	IsAdmin bool
}

// CanAccess reports whether the caller may act on a resource owned by ownerID.
func (c Caller) CanAccess(ownerID string) bool {
	return c.IsAdmin || (c.UserID != "" && c.UserID == ownerID)
}
