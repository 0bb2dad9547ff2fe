package model

// User is the authenticated account profile returned by the backend.
type User struct {
	CreatedAt  Time     `json:"created_at,omitempty"`
	ID         RecordID `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	AvatarPath string   `json:"avatar_path,omitempty"`
	IsVerified bool     `json:"is_verified,omitempty"`
}

// Session pairs a bearer token with the user it authenticates.
type Session struct {
	Token string
	User  User
}
