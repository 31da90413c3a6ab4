package auth

// Identity is the reduced, session-scoped representation of an
// authenticated user. Provider-internal token fields are dropped at
// the boundary; this is the only user shape passed between layers.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}
