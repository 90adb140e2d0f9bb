package entities

import "time"

type User struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Email     string `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username  string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`
	Password  string `gorm:"size:128;not null" json:"-"`
	IsBlocked bool   `gorm:"default:false" json:"-"`

	Timestamp
}

// Follow is a join row: follower is subscribed to author.
// Self-follows are rejected before any write reaches this table.
type Follow struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	AuthorID   uint      `gorm:"not null;uniqueIndex:idx_author_follower" json:"author_id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_author_follower" json:"follower_id"`
	CreatedAt  time.Time `json:"created_at"`

	Author   *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Follower *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
}
