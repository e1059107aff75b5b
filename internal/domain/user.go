package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	UserID       string    `json:"-" dynamodbav:"user_id"`
	Phone        string    `json:"phone" dynamodbav:"phone"`
	FullName     string    `json:"fullname" dynamodbav:"fullname"`
	Username     string    `json:"username" dynamodbav:"username"`
	Profile      string    `json:"profile,omitempty" dynamodbav:"profile"` // avatar URL
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Role         string    `json:"role" dynamodbav:"role"`
	IsBanned     bool      `json:"is_banned" dynamodbav:"is_banned"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// UserSnapshot is the client-visible projection of a User. It is what the
// readable credential cookie carries, so it must never include the internal
// identifier or the password hash.
type UserSnapshot struct {
	Phone     string    `json:"phone"`
	FullName  string    `json:"fullname"`
	Username  string    `json:"username"`
	Profile   string    `json:"profile,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created"`
}

// Snapshot strips the trust-sensitive fields from the user record.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		Phone:     u.Phone,
		FullName:  u.FullName,
		Username:  u.Username,
		Profile:   u.Profile,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type SignupRequest struct {
	Phone    string `json:"phone" validate:"required,numeric,min=10,max=13"`
	FullName string `json:"fullname" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Otp      string `json:"otp" validate:"required"`
}

type UpdateAccountRequest struct {
	FullName *string `json:"fullname"`
	Username *string `json:"username"`
	Profile  *string `json:"profile"`
}
