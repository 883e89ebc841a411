package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// ROLE
// =============================================================================

// Role is the closed set of account roles. The zero value is not a valid role.
type Role int

const (
	RoleCustomer Role = iota + 1
	RoleAdmin
)

// Wire values stored in the users collection.
const (
	roleCustomerValue = "user"
	roleAdminValue    = "admin"
)

// ErrInvalidRole is returned when a role string is neither "admin" nor "user".
var ErrInvalidRole = &Error{Code: EINVALID, Message: "Role must be one of: admin, user"}

// ParseRole converts a stored or path value into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case roleAdminValue:
		return RoleAdmin, nil
	case roleCustomerValue:
		return RoleCustomer, nil
	default:
		return 0, ErrInvalidRole
	}
}

// String returns the wire value of the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return roleAdminValue
	case RoleCustomer:
		return roleCustomerValue
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCustomer:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether r grants admin access.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleCustomer:
		return false
	default:
		return false
	}
}

// Toggled returns the opposite role: admin becomes user and user becomes admin.
func (r Role) Toggled() (Role, error) {
	switch r {
	case RoleAdmin:
		return RoleCustomer, nil
	case RoleCustomer:
		return RoleAdmin, nil
	default:
		return 0, ErrInvalidRole
	}
}

// MarshalJSON encodes the role as its wire value. An unset role encodes as "".
func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return json.Marshal("")
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes "admin" or "user".
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// =============================================================================
// USER
// =============================================================================

// DefaultUserPhoto is assigned when a user is created without a photo.
const DefaultUserPhoto = "https://static.wikia.nocookie.net/worldofmayhem_gamepedia_en/images/8/81/Bugs_Bunny_%28artwork%29.png/revision/latest/scale-to-width-down/1200?cb=20210205220852"

// User is a storefront account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Photo        string    `json:"photo"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateUserParams holds input for UserService.CreateUser.
type CreateUserParams struct {
	Name     string
	Email    string
	Password string
	Photo    string
}

// UpdateUserParams holds input for UserService.UpdateUser.
// Empty strings leave the stored value unchanged.
type UpdateUserParams struct {
	Name     string
	Email    string
	Password string
	Photo    string
}

var (
	ErrUserNotFound      = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrEmailInUse        = &Error{Code: ECONFLICT, Message: "Email is already in use"}
	ErrInvalidCredential = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password"}
)

// UserService manages accounts and roles.
type UserService interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, params CreateUserParams) (*User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*User, error)
	DeleteUser(ctx context.Context, id string) (*User, error)

	// IsAdmin reports whether the user with email has the admin role.
	IsAdmin(ctx context.Context, email string) (bool, error)

	// ToggleRole flips the role of user id. current must match the path value
	// the client believes the user has ("admin" or "user").
	ToggleRole(ctx context.Context, id string, current string) (*User, error)

	// Authenticate checks email and password and returns the user.
	Authenticate(ctx context.Context, email, password string) (*User, error)
}
