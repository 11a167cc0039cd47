package domain

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleStaff  UserRole = "staff"
	RoleParent UserRole = "parent"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanActOnKid reports whether the user may place or inspect orders for the
// given kid. Admin and staff act on any kid; a parent only on their own.
func (u User) CanActOnKid(kid Kid) bool {
	if u.Role == RoleAdmin || u.Role == RoleStaff {
		return true
	}
	return u.Role == RoleParent && kid.ParentID == u.ID
}
