package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies a user's position in the assignment hierarchy.
type Role string

// The three fixed roles. Delegation runs admin -> manager -> user.
const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Common validation errors. All of them wrap ErrValidation so the HTTP
// layer can map the whole family to a single status code.
var (
	ErrEmptyUserID       = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyUserName     = fmt.Errorf("%w: user name cannot be empty", ErrValidation)
	ErrEmptyEmail        = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail      = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrPasswordTooShort  = fmt.Errorf("%w: password must be at least 6 characters long", ErrValidation)
	ErrPasswordNoLower   = fmt.Errorf("%w: password must contain at least one lowercase letter", ErrValidation)
	ErrPasswordNoUpper   = fmt.Errorf("%w: password must contain at least one uppercase letter", ErrValidation)
	ErrPasswordNoDigit   = fmt.Errorf("%w: password must contain at least one number", ErrValidation)
	ErrPasswordNoSpecial = fmt.Errorf("%w: password must contain at least one special character", ErrValidation)
	ErrPasswordMismatch  = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrEmptyPassword     = fmt.Errorf("%w: password cannot be empty", ErrValidation)
)

// User represents a registered user of the task management service.
//
// ManagerID is only meaningful for role=user records and links the user to
// the manager authorized to administer their tasks. TokenVersion is a
// monotonic counter; incrementing it invalidates every previously issued
// session token.
type User struct {
	ID             uuid.UUID  `json:"id"`
	UserName       string     `json:"userName"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"` // Never expose the password hash in JSON
	Role           Role       `json:"role"`
	ManagerID      *uuid.UUID `json:"manager,omitempty"`
	TokenVersion   int        `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewUser creates a new user-role User with the given name, email and hashed
// password. The email is lowercased before storage so uniqueness is
// case-insensitive. The caller is responsible for hashing the password and
// for validating the plaintext with ValidatePassword beforehand.
func NewUser(userName, email, hashedPassword string) (*User, error) {
	user := &User{
		ID:             uuid.New(),
		UserName:       strings.TrimSpace(userName),
		Email:          strings.ToLower(strings.TrimSpace(email)),
		HashedPassword: hashedPassword,
		Role:           RoleUser,
		TokenVersion:   0,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.UserName == "" {
		return ErrEmptyUserName
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !ValidateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}
	if u.HashedPassword == "" {
		return ErrEmptyPassword
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsManager reports whether the user holds the manager role.
func (u *User) IsManager() bool { return u.Role == RoleManager }

// Manages reports whether the user is the manager of the given target.
// Only meaningful when the receiver holds the manager role.
func (u *User) Manages(target *User) bool {
	return target != nil && target.ManagerID != nil && *target.ManagerID == u.ID
}

// ValidateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func ValidateEmailFormat(email string) bool {
	atIndex := strings.Index(email, "@")
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	// The domain part needs a dot that is neither leading nor trailing.
	domainPart := email[atIndex+1:]
	dotIndex := strings.Index(domainPart, ".")
	if dotIndex <= 0 || dotIndex == len(domainPart)-1 {
		return false
	}

	return true
}

// ValidatePassword checks a plaintext password against the registration
// policy: at least 6 characters with at least one lowercase letter, one
// uppercase letter, one digit and one special character. The confirmation
// must match the password exactly.
func ValidatePassword(password, confirmPassword string) error {
	if len(password) < 6 {
		return ErrPasswordTooShort
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= '0' && c <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	switch {
	case !hasLower:
		return ErrPasswordNoLower
	case !hasUpper:
		return ErrPasswordNoUpper
	case !hasDigit:
		return ErrPasswordNoDigit
	case !hasSpecial:
		return ErrPasswordNoSpecial
	}

	if password != confirmPassword {
		return ErrPasswordMismatch
	}

	return nil
}
