package domain

// Role is decided once at registration. No bolted-on admin flag: access
// checks branch on the role variant only.
type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        string `db:"id"`
	Email     string `db:"email"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Hash      string `db:"password_hash"`
	Role      Role   `db:"role"`
	// Seller-only metadata; empty for buyers and admins.
	StoreName    string `db:"store_name"`
	BusinessType string `db:"business_type"`
	CreatedAt    string `db:"created_at"`
}

func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) IsSeller() bool { return u.Role == RoleSeller }
func (u *User) IsAdmin() bool  { return u.Role == RoleAdmin }
