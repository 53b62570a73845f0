package models

import "time"

// User is keyed by the checksummed wallet address. It is written once on the
// first successful connect and never changed afterwards.
type User struct {
	Address    string    `gorm:"primarykey;type:varchar(42)" json:"address" firestore:"address"`
	ProfilePic string    `gorm:"type:varchar(255);not null" json:"profilePic" firestore:"profilePic"`
	JoinedAt   time.Time `json:"joinedAt" firestore:"joinedAt"`
}
