package auth

// Role is the coarse caller role carried in the token. Tenant admins act
// as "admin"; end users as "user".
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)
