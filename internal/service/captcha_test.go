package service

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"
)

type fakeCaptchaStore struct {
	answers map[string]string
}

func newFakeCaptchaStore() *fakeCaptchaStore {
	return &fakeCaptchaStore{answers: make(map[string]string)}
}

func (f *fakeCaptchaStore) Store(_ context.Context, id, answer string, _ time.Duration) error {
	f.answers[id] = answer
	return nil
}

func (f *fakeCaptchaStore) Take(_ context.Context, id string) (string, bool, error) {
	answer, ok := f.answers[id]
	if ok {
		delete(f.answers, id)
	}
	return answer, ok, nil
}

func TestCaptchaNewAndVerify(t *testing.T) {
	store := newFakeCaptchaStore()
	svc := NewCaptchaService(store, time.Minute)
	ctx := context.Background()

	resp, err := svc.New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if resp.CaptchaID == "" || resp.Question == "" {
		t.Fatalf("empty challenge: %+v", resp)
	}

	answer := solveChallenge(t, resp.Question)
	ok, err := svc.Verify(ctx, resp.CaptchaID, answer)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("correct answer %q rejected for %q", answer, resp.Question)
	}
}

func TestCaptchaSingleUse(t *testing.T) {
	store := newFakeCaptchaStore()
	svc := NewCaptchaService(store, time.Minute)
	ctx := context.Background()

	store.answers["c1"] = "7"

	ok, err := svc.Verify(ctx, "c1", "7")
	if err != nil || !ok {
		t.Fatalf("first Verify = (%v, %v), want (true, nil)", ok, err)
	}

	// same challenge again: consumed, must fail
	ok, err = svc.Verify(ctx, "c1", "7")
	if err != nil {
		t.Fatalf("second Verify: %v", err)
	}
	if ok {
		t.Fatal("challenge accepted twice")
	}
}

func TestCaptchaConsumedOnWrongAnswer(t *testing.T) {
	store := newFakeCaptchaStore()
	svc := NewCaptchaService(store, time.Minute)
	ctx := context.Background()

	store.answers["c1"] = "7"

	ok, err := svc.Verify(ctx, "c1", "8")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatal("wrong answer accepted")
	}
	if _, left := store.answers["c1"]; left {
		t.Fatal("challenge survived a failed attempt")
	}
}

func TestCaptchaVerifyTrimsAndIgnoresCase(t *testing.T) {
	store := newFakeCaptchaStore()
	svc := NewCaptchaService(store, time.Minute)
	ctx := context.Background()

	store.answers["c1"] = "7"
	ok, err := svc.Verify(ctx, " c1 ", " 7 ")
	if err != nil || !ok {
		t.Fatalf("trimmed Verify = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestCaptchaVerifyEmptyInputs(t *testing.T) {
	store := newFakeCaptchaStore()
	svc := NewCaptchaService(store, time.Minute)
	ctx := context.Background()

	store.answers["c1"] = "7"

	if ok, _ := svc.Verify(ctx, "", "7"); ok {
		t.Fatal("empty id accepted")
	}
	if ok, _ := svc.Verify(ctx, "c1", ""); ok {
		t.Fatal("empty code accepted")
	}
	// neither call may consume the challenge
	if _, left := store.answers["c1"]; !left {
		t.Fatal("challenge consumed by empty input")
	}
}

func solveChallenge(t *testing.T, question string) string {
	t.Helper()
	fields := strings.Fields(strings.TrimSuffix(question, " = ?"))
	if len(fields) != 3 {
		t.Fatalf("unexpected question format: %q", question)
	}
	a, err1 := strconv.Atoi(fields[0])
	b, err2 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected operands in %q", question)
	}
	switch fields[1] {
	case "+":
		return strconv.Itoa(a + b)
	case "-":
		return strconv.Itoa(a - b)
	}
	t.Fatalf("unexpected operator in %q", question)
	return ""
}
