package domain

import "time"

type Language string

const (
	LanguageEN Language = "en"
	LanguageAR Language = "ar"
)

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsStaff reports whether the role may act on bookings it does not own.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin || r == RoleSuperAdmin
}

type User struct {
	ID        int64
	Name      string
	Email     string
	Mobile    string
	Language  Language
	Role      Role
	IsActive  bool
	CreatedAt time.Time
}
