package models

type Role string

const (
	RoleAuthor    Role = "author"
	RoleModerator Role = "moderator"
	RoleGuest     Role = "guest"
)

func IsValidRole(role Role) bool {
	switch role {
	case RoleAuthor, RoleModerator, RoleGuest:
		return true
	}
	return false
}
