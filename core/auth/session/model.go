// Package session owns the client-side authentication state: the credential
// store, the role resolver, and the controller orchestrating login,
// registration, logout and startup hydration.
package session

// Identity is the authenticated user's profile as the backends emit it.
type Identity struct {
	ID          any      `json:"id,omitempty"`
	Username    string   `json:"username,omitempty"`
	Email       string   `json:"email,omitempty"`
	FirstName   string   `json:"first_name,omitempty"`
	LastName    string   `json:"last_name,omitempty"`
	Role        string   `json:"role,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	IsStaff     bool     `json:"is_staff,omitempty"`
	IsSuperuser bool     `json:"is_superuser,omitempty"`
}

// TokenPair is the product of one successful authentication exchange.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Grant is the auth service's response to login and registration: a token
// pair plus, optionally, the authenticated identity.
type Grant struct {
	Access  string    `json:"access"`
	Refresh string    `json:"refresh"`
	User    *Identity `json:"user,omitempty"`
}

// Registration carries the fields of a registration request.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}
