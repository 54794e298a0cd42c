package model

const (
	RoleClient   = "Client"
	RoleEmployee = "Employee"
	RoleAdmin    = "Admin"
)

// Account represents a row of the account table
type Account struct {
	ID           int    `json:"account_id"`
	FirstName    string `json:"account_firstname"`
	LastName     string `json:"account_lastname"`
	Email        string `json:"account_email"`
	PasswordHash string `json:"-"` // Never rendered or serialized
	Type         string `json:"account_type"`
}

// Principal is the authenticated identity attached to a request, either
// from the server-side session or decoded from a token.
type Principal struct {
	ID        int    `json:"account_id"`
	FirstName string `json:"account_firstname"`
	LastName  string `json:"account_lastname"`
	Email     string `json:"account_email"`
	Role      string `json:"account_type"`
}

// Principal returns the session/token view of the account.
func (a *Account) Principal() Principal {
	role := a.Type
	if role == "" {
		role = RoleClient
	}
	return Principal{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Role:      role,
	}
}

// IsStaff reports whether the principal may use inventory management.
func (p Principal) IsStaff() bool {
	return p.Role == RoleEmployee || p.Role == RoleAdmin
}
