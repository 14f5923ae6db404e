package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modushop/backend/internal/db"
	"github.com/modushop/backend/internal/model"
)

// lockDurations is the escalation ladder. lock_count indexes into it, clamped
// to the last entry, so repeat offenders top out at 30 days.
var lockDurations = []time.Duration{
	1 * time.Minute,
	5 * time.Minute,
	15 * time.Minute,
	30 * time.Minute,
	1 * time.Hour,
	3 * time.Hour,
	6 * time.Hour,
	12 * time.Hour,
	24 * time.Hour,
	48 * time.Hour,
	7 * 24 * time.Hour,
	30 * 24 * time.Hour,
}

func LockDuration(lockCount int) time.Duration {
	if lockCount < 0 {
		lockCount = 0
	}
	if lockCount >= len(lockDurations) {
		lockCount = len(lockDurations) - 1
	}
	return lockDurations[lockCount]
}

type lockoutStore interface {
	GetLockout(ctx context.Context, email, ip string, reason model.LockReason) (*model.LockoutRecord, error)
	UpsertLockout(ctx context.Context, rec *model.LockoutRecord) error
	MarkLockoutUnlocked(ctx context.Context, id int64, now time.Time) error
	UnlockAll(ctx context.Context, email, ip string, now time.Time) error
}

type attemptCounter interface {
	Increment(ctx context.Context, reason model.LockReason, ip, email string) (int64, error)
	Delete(ctx context.Context, reason model.LockReason, ip, email string) error
	Reset(ctx context.Context, ip, email string) error
}

// Throttler decides when an (email, ip, reason) key transitions into and out
// of a lockout. Counting lives in the volatile cache; escalation memory lives
// in the durable lockouts table.
type Throttler struct {
	lockouts  lockoutStore
	attempts  attemptCounter
	threshold int
	now       func() time.Time
}

func NewThrottler(lockouts lockoutStore, attempts attemptCounter, threshold int) *Throttler {
	if threshold <= 0 {
		threshold = 5
	}
	return &Throttler{
		lockouts:  lockouts,
		attempts:  attempts,
		threshold: threshold,
		now:       time.Now,
	}
}

// CheckLock reports whether the key is currently locked. A lock whose
// deadline has passed is unlocked in place; checking never counts as an
// attempt.
func (t *Throttler) CheckLock(ctx context.Context, email, ip string, reason model.LockReason) (model.LockStatus, error) {
	email = NormalizeEmail(email)

	rec, err := t.lockouts.GetLockout(ctx, email, ip, reason)
	if err != nil {
		if db.IsNoRows(err) {
			return model.LockStatus{}, nil
		}
		return model.LockStatus{}, err
	}
	if rec.IsUnlocked {
		return model.LockStatus{}, nil
	}

	now := t.now()
	if rec.LockUntil.After(now) {
		return model.LockStatus{
			Locked:    true,
			Message:   lockMessage(rec.LockUntil.Sub(now)),
			LockUntil: rec.LockUntil,
			Reason:    reason,
			LockCount: rec.LockCount,
		}, nil
	}

	// Deadline passed: persist the unlock so later checks skip the record.
	if err := t.lockouts.MarkLockoutUnlocked(ctx, rec.ID, now); err != nil {
		return model.LockStatus{}, err
	}
	return model.LockStatus{}, nil
}

// RegisterFailure counts one failed attempt and escalates into a lock when
// the counter reaches the threshold. The counter is dropped on escalation so
// the next cycle starts from zero.
func (t *Throttler) RegisterFailure(ctx context.Context, email, ip string, reason model.LockReason) error {
	email = NormalizeEmail(email)

	count, err := t.attempts.Increment(ctx, reason, ip, email)
	if err != nil {
		return err
	}
	if count < int64(t.threshold) {
		return nil
	}

	if err := t.lockAccount(ctx, email, ip, reason); err != nil {
		return err
	}
	return t.attempts.Delete(ctx, reason, ip, email)
}

func (t *Throttler) lockAccount(ctx context.Context, email, ip string, reason model.LockReason) error {
	newLockCount := 0
	rec, err := t.lockouts.GetLockout(ctx, email, ip, reason)
	if err == nil {
		newLockCount = rec.LockCount + 1
	} else if !db.IsNoRows(err) {
		return err
	}

	now := t.now()
	return t.lockouts.UpsertLockout(ctx, &model.LockoutRecord{
		Email:         email,
		IP:            ip,
		Reason:        reason,
		LockCount:     newLockCount,
		AttemptCount:  t.threshold,
		LockUntil:     now.Add(LockDuration(newLockCount)),
		LastAttemptAt: now,
	})
}

// ResetLock clears the volatile counters and every active lock for the key.
// lock_count stays: a key that earned tier N re-enters at tier N+1.
func (t *Throttler) ResetLock(ctx context.Context, email, ip string) error {
	email = NormalizeEmail(email)

	if err := t.attempts.Reset(ctx, ip, email); err != nil {
		return err
	}
	return t.lockouts.UnlockAll(ctx, email, ip, t.now())
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func lockMessage(remaining time.Duration) string {
	return fmt.Sprintf("too many failed attempts, try again in %s", formatRemaining(remaining))
}

func formatRemaining(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Round(time.Second).Seconds())
		if secs < 1 {
			secs = 1
		}
		return fmt.Sprintf("%ds", secs)
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int((d + time.Minute - 1) / time.Minute))
	}
	hours := int(d / time.Hour)
	mins := int((d % time.Hour) / time.Minute)
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
