package model

import "time"

// Completion is the immutable ledger record granting a user credit for one
// activity. The composite unique index is the at-most-once guard: a second
// insert for the same (user, activity) pair fails at the database, whatever
// the interleaving of the requests that produced it.
// swagger:model Completion
type Completion struct {
	BaseModel
	UserID     uint      `gorm:"index:idx_user_activity,unique;not null" json:"userId"`
	ActivityID uint      `gorm:"index:idx_user_activity,unique;not null" json:"activityId"`
	GrantedAt  time.Time `gorm:"not null;index" json:"grantedAt"`
	Correct    bool      `gorm:"default:true" json:"correct"`
}

func (Completion) TableName() string {
	return "completions"
}
