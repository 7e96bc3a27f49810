package domain

import "time"

// Role is assigned once at registration and never changes afterwards.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleUser     Role = "USER"
	RoleBusiness Role = "BUSINESS"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleUser || r == RoleBusiness
}

// User models an authenticated actor. PasswordHash is the only mutable field
// after creation (password reset).
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BusinessProfile is the business-facing identity linked one-to-one to a
// BUSINESS-role user.
type BusinessProfile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	TaxID       string    `json:"tax_id,omitempty"`
	City        string    `json:"city,omitempty"`
	Voivodeship string    `json:"voivodeship,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Identity is the request-scoped resolved caller. It is an immutable value;
// enrichment (lazy business resolution) returns a new Identity instead of
// mutating a shared one.
type Identity struct {
	UserID     string
	Role       Role
	BusinessID string
}

// WithBusinessID returns a copy of the identity carrying the resolved
// business profile id.
func (i Identity) WithBusinessID(businessID string) Identity {
	i.BusinessID = businessID
	return i
}

// Category groups deals. Slug is URL-safe kebab-case and unique, as is Name.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
