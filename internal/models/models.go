package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var PostTypes = []string{"lost", "found"}

var AnimalTypes = []string{"dog", "cat", "bird", "rabbit", "hamster", "horse", "other"}

type User struct {
	ID           string    `gorm:"primaryKey"           json:"_id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"not null"             json:"username"`
	PasswordHash string    `gorm:"not null"             json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// RefreshToken rows are the user's set of currently valid refresh tokens.
// A token counts as valid only while it verifies cryptographically AND its
// row is still present.
type RefreshToken struct {
	ID        string    `gorm:"primaryKey"           json:"id"`
	UserID    string    `gorm:"index;not null"       json:"user_id"`
	TokenHash string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt int64     `gorm:"not null"             json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type Location struct {
	Type        string    `json:"type"`
	Coordinates []float64 `gorm:"serializer:json" json:"coordinates"`
	Address     string    `json:"address,omitempty"`
}

type Post struct {
	ID              string    `gorm:"primaryKey"     json:"_id"`
	Sender          string    `gorm:"index;not null" json:"sender"`
	Type            string    `gorm:"not null"       json:"type"`
	AnimalType      string    `gorm:"not null"       json:"animalType"`
	Location        Location  `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	DateTimeOccured time.Time `gorm:"not null"       json:"dateTimeOccured"`
	Description     string    `json:"description,omitempty"`
	Photos          []string  `gorm:"serializer:json" json:"photos,omitempty"`
	IsResolved      bool      `gorm:"default:false"  json:"isResolved"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Comment struct {
	ID          string    `gorm:"primaryKey"     json:"_id"`
	PostID      string    `gorm:"index;not null" json:"postId"`
	Sender      string    `gorm:"index;not null" json:"sender"`
	CommentText string    `gorm:"not null"       json:"commentText"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
