// Package models holds the durable records owned by the server.
package models

import "time"

// User is the account record. Otp and OtpExpiresAt are either both nil or
// both set; every store keeps them paired within a single write.
type User struct {
	ID           string     `db:"id" bson:"_id"`
	Name         string     `db:"name" bson:"name"`
	Email        string     `db:"email" bson:"email"`
	PasswordHash string     `db:"password_hash" bson:"password_hash"`
	Otp          *string    `db:"otp" bson:"otp"`
	OtpExpiresAt *time.Time `db:"otp_expires_at" bson:"otp_expires_at"`
	CreatedAt    time.Time  `db:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" bson:"updated_at"`
}

// HasPendingReset reports whether a reset code is currently stored.
func (u *User) HasPendingReset() bool {
	return u.Otp != nil && u.OtpExpiresAt != nil
}

// OtpExpired reports whether the stored code is past its expiry at now.
// A user without a pending reset is treated as expired.
func (u *User) OtpExpired(now time.Time) bool {
	if u.OtpExpiresAt == nil {
		return true
	}
	return now.After(*u.OtpExpiresAt)
}
