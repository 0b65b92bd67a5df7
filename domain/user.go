package domain

import "time"

type Role string

const (
	RoleStudent      Role = "STUDENT"
	RoleProfessional Role = "PROFESSIONAL"
	RoleCompany      Role = "COMPANY"
	RoleAdmin        Role = "ADMIN"
)

// Valid reports whether r is one of the known account roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessional, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// User is a role-tagged account. Companies and professionals may own jobs,
// students and professionals apply to them.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Email       string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Role        Role      `gorm:"size:32;not null;index" json:"role"`
	CompanyName string    `gorm:"size:255" json:"company_name,omitempty"`
	Bio         string    `gorm:"type:text" json:"bio,omitempty"`
	Skills      []string  `gorm:"type:text;serializer:json" json:"skills"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DisplayName is the company name for company accounts, the person's name otherwise.
func (u User) DisplayName() string {
	if u.CompanyName != "" {
		return u.CompanyName
	}
	return u.Name
}
