package model

import "time"

// TimestampLayout is the text layout of invited_at / used_at.
const TimestampLayout = "2006-01-02 15:04:05"

// JST is the zone invitation timestamps are written in.
var JST = time.FixedZone("JST", 9*60*60)

// FormatTimestamp renders t as a stored invitation timestamp.
func FormatTimestamp(t time.Time) string {
	return t.In(JST).Format(TimestampLayout)
}

// Invitation is a row of allowed_users: permission for exactly one signup
// under UserID.
type Invitation struct {
	ID        int64   `json:"id"`
	UserID    string  `json:"userid"`
	Email     *string `json:"email"`
	Role      string  `json:"role"`
	InvitedAt string  `json:"invited_at"`
	UsedAt    *string `json:"used_at"`
	IsActive  bool    `json:"is_active"`
}

// Consumed reports whether a signup has already used the invitation.
func (i *Invitation) Consumed() bool {
	return i.UsedAt != nil
}

// GrantedRole is the role a signup through this invitation receives.
func (i *Invitation) GrantedRole() string {
	if i.Role == "" {
		return RoleMember
	}
	return i.Role
}
