/**
 * @description
 * User database model.
 * Maps to the 'users' table shared with the legacy dashboard.
 *
 * @dependencies
 * - gorm.io/gorm
 */

package models

import "strconv"

// User is a dashboard account. Password holds the credential hash, never plain text.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"size:15;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:50;uniqueIndex" json:"email"`
	Password string `gorm:"size:80" json:"-"`
	Type     string `gorm:"size:15" json:"type"`
	Project  string `gorm:"size:15" json:"project"`
}

// TableName overrides the table name used by User to `users`
func (User) TableName() string {
	return "users"
}

// Subject is the value stored in the token "sub" claim.
func (u User) Subject() string {
	return strconv.FormatInt(u.ID, 10)
}
