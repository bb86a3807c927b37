package domain

// RoleAdmin роль модератора.
const RoleAdmin = "Admin"

// Principal аутентифицированный пользователь запроса.
type Principal struct {
	UserID int64
	Role   string
}
