package domain

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

type User struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
	Phone string `json:"phone,omitempty" db:"phone"`
	Role  Role   `json:"role" db:"role"`
	Hash  string `json:"-" db:"password_hash"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
