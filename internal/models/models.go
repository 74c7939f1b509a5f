package models

import (
	"time"
)

const (
	RoleStudent = "student"
	RoleClub    = "club"
	RoleAdmin   = "admin"
)

const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string     `gorm:"unique;not null"          json:"email"`
	Username     string     `gorm:"not null"                 json:"username"`
	Role         string     `gorm:"not null;default:student" json:"role"`
	IsPrivate    bool       `gorm:"not null;default:false"   json:"is_private"`
	IsBanned     bool       `gorm:"not null;default:false"   json:"is_banned"`
	BanExpiresAt *time.Time `json:"ban_expires_at,omitempty"`
}

// Banned reports whether the user is banned right now. A ban with an
// expiry in the past no longer counts.
func (u *User) Banned(now time.Time) bool {
	if !u.IsBanned {
		return false
	}
	if u.BanExpiresAt != nil && now.After(*u.BanExpiresAt) {
		return false
	}
	return true
}

type Follow struct {
	ID         uint `gorm:"primaryKey"                          json:"id"`
	FollowerID uint `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowedID uint `gorm:"not null;uniqueIndex:idx_follow_pair" json:"followed_id"`
}

type FollowRequest struct {
	ID         uint `gorm:"primaryKey"                           json:"id"`
	SenderID   uint `gorm:"not null;uniqueIndex:idx_request_pair" json:"sender_id"`
	ReceiverID uint `gorm:"not null;uniqueIndex:idx_request_pair" json:"receiver_id"`
}

type RoleRequest struct {
	ID      uint   `gorm:"primaryKey"               json:"id"`
	UserID  uint   `gorm:"index;not null"           json:"user_id"`
	Message string `json:"message"`
	Status  string `gorm:"not null;default:pending" json:"status"`
}

type Post struct {
	ID        uint      `gorm:"primaryKey"     json:"id"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Body      string    `gorm:"not null"       json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type Event struct {
	ID          uint      `gorm:"primaryKey"     json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Title       string    `gorm:"not null"       json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
}

type SupportTicket struct {
	ID      uint   `gorm:"primaryKey"               json:"id"`
	UserID  uint   `gorm:"index;not null"           json:"user_id"`
	Subject string `gorm:"not null"                 json:"subject"`
	Body    string `json:"body"`
	Status  string `gorm:"not null;default:open"    json:"status"`
}

type Report struct {
	ID           uint   `gorm:"primaryKey"             json:"id"`
	ReporterID   uint   `gorm:"index;not null"         json:"reporter_id"`
	TargetUserID uint   `gorm:"index;not null"         json:"target_user_id"`
	Reason       string `gorm:"not null"               json:"reason"`
	Resolved     bool   `gorm:"not null;default:false" json:"resolved"`
}
