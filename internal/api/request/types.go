package request

// SetPasswordRequest is the request body for forcing a password change.
// An empty password clears the stored credential (force-unregister).
type SetPasswordRequest struct {
	Password string `json:"password"`
}
