package domain

import "time"

// Ban permanently blocks a phone number from holding an account. Created by an
// administrative ban, never mutated, deleted only by an explicit unban.
type Ban struct {
	BanID     string    `json:"id" dynamodbav:"ban_id"`
	Phone     string    `json:"phone" dynamodbav:"phone"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}
