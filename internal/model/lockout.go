package model

import "time"

type LockReason string

const (
	LockReasonCaptcha  LockReason = "CAPTCHA"
	LockReasonPassword LockReason = "PASSWORD"
)

// LockoutRecord tracks escalating punishment for one (email, ip, reason) key.
// LockCount survives unlock: a key that earned tier N resumes at tier N+1 on
// its next escalation even after a successful login cleared the active lock.
type LockoutRecord struct {
	ID            int64
	Email         string
	IP            string
	Reason        LockReason
	LockCount     int
	AttemptCount  int
	LockUntil     time.Time
	IsUnlocked    bool
	UnlockedAt    *time.Time
	LastAttemptAt time.Time
	CreatedAt     time.Time
}

type LockStatus struct {
	Locked    bool
	Message   string
	LockUntil time.Time
	Reason    LockReason
	LockCount int
}
