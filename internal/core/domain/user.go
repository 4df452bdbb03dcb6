package domain

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User models a record in the user directory. Password always holds the
// codec-encoded value, never the plaintext.
type User struct {
	ID       string `json:"_id,omitempty"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the user's role grants administrative access.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
