package entity

import "time"

type TeamMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TeamID    uint      `json:"team_id" gorm:"not null;index;uniqueIndex:idx_team_members_pair"`
	UserID    uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_team_members_pair"`
	Role      string    `json:"role" binding:"omitempty,oneof=member admin" gorm:"size:50;not null;default:member"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}
