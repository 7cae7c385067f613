package model

import "time"

const (
	RoleCandidate   = "candidate"
	RoleInterviewer = "interviewer"
)

// User is keyed on (name, role): the same name may exist once per role.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_name_role" json:"name"`
	Role      string    `gorm:"type:varchar(50);not null;default:candidate;uniqueIndex:idx_users_name_role" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) TableName() string {
	return "users"
}
