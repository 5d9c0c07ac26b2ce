package types

// User is a registered account. Username and email are unique; the database
// constraints are the authoritative guard, the validator only pre-checks.
type User struct {
	BaseEntity
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	FullName     *string `json:"full_name,omitempty"`
	IsActive     bool    `json:"is_active"`
}

// NewUser builds a user ready to be staged for insert.
func NewUser(username, email, passwordHash string, fullName *string) *User {
	return &User{
		BaseEntity:   NewBaseEntity(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		IsActive:     true,
	}
}

// UserInfo is the immutable snapshot captured at login time and stored with
// the session. Later changes to the user row are not reflected here.
type UserInfo struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name,omitempty"`
}
