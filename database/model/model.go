// Package model defines the persistent entities of the loctrack API.
package model

import "time"

// User is an account that can authenticate against the API. Accounts
// flagged as terminals are allowed to create and mutate location records.
// The password hash is never serialized.
type User struct {
	Id           int        `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string     `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;not null"`
	IsTerminal   bool       `json:"is_terminal" gorm:"not null;default:false"`
	Locations    []Location `json:"locations,omitempty" gorm:"foreignKey:OwnerId;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

// Location is a geolocation record owned by the user that posted it.
// PostedAt is server-assigned and refreshed on every update.
type Location struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Latitude  float64   `json:"latitude" gorm:"not null"`
	Longitude float64   `json:"longitude" gorm:"not null"`
	Info      string    `json:"info"`
	PostedAt  time.Time `json:"posted_at"`
	OwnerId   int       `json:"owner_id" gorm:"not null;index"`
}

func (Location) TableName() string {
	return "locations"
}
