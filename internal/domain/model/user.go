package model

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	Unum           int64  `json:"unum"`
	UserID         string `json:"userid"`
	HashedPassword string `json:"-"` // Not exposed
	Role           string `json:"role"`
}
