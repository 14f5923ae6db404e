package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modushop/backend/internal/model"
)

type captchaStore interface {
	Store(ctx context.Context, id, answer string, ttl time.Duration) error
	Take(ctx context.Context, id string) (string, bool, error)
}

// CaptchaService issues arithmetic challenges. Answers are stored lowercased
// behind a TTL and consumed on first validation, pass or fail.
type CaptchaService struct {
	store captchaStore
	ttl   time.Duration
}

func NewCaptchaService(store captchaStore, ttl time.Duration) *CaptchaService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CaptchaService{store: store, ttl: ttl}
}

func (s *CaptchaService) New(ctx context.Context) (model.CaptchaResponse, error) {
	a := rand.IntN(9) + 1
	b := rand.IntN(9) + 1

	var question string
	var answer int
	if rand.IntN(2) == 0 {
		question = fmt.Sprintf("%d + %d = ?", a, b)
		answer = a + b
	} else {
		if a < b {
			a, b = b, a
		}
		question = fmt.Sprintf("%d - %d = ?", a, b)
		answer = a - b
	}

	id := uuid.NewString()
	if err := s.store.Store(ctx, id, fmt.Sprintf("%d", answer), s.ttl); err != nil {
		return model.CaptchaResponse{}, err
	}

	return model.CaptchaResponse{CaptchaID: id, Question: question}, nil
}

// Verify consumes the challenge. Missing, expired and mismatched all report
// false without distinguishing; the caller treats them the same.
func (s *CaptchaService) Verify(ctx context.Context, id, code string) (bool, error) {
	id = strings.TrimSpace(id)
	code = strings.ToLower(strings.TrimSpace(code))
	if id == "" || code == "" {
		return false, nil
	}

	answer, found, err := s.store.Take(ctx, id)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return code == strings.ToLower(answer), nil
}
