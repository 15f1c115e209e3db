package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User's password is stored only as a bcrypt hash; the hash never leaves
// the backend.
type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FullName     string    `json:"full_name" bson:"full_name" validate:"required,min=2,max=100"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Department   string    `json:"department" bson:"department" validate:"required,min=1,max=100"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Role         string    `json:"role" bson:"role" validate:"required,oneof=user admin"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// UserRegistration is the signup payload. The password cap matches the
// bcrypt input limit of 72 bytes.
type UserRegistration struct {
	FullName   string `json:"full_name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Department string `json:"department" validate:"required,min=1,max=100"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
}

type UserCredentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
