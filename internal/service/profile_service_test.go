package service

import (
	"errors"
	"testing"

	"blazequiz_backend/internal/model"

	"gorm.io/gorm"
)

type fakeProfileStore struct {
	profiles    map[string]*model.UserProfile
	createCalls int
	failAll     bool
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[string]*model.UserProfile)}
}

func (f *fakeProfileStore) FindByUserID(userID string) (*model.UserProfile, error) {
	if f.failAll {
		return nil, errors.New("store unavailable")
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeProfileStore) Create(profile *model.UserProfile) error {
	if f.failAll {
		return errors.New("store unavailable")
	}
	f.createCalls++
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfileStore) Update(profile *model.UserProfile) error {
	if f.failAll {
		return errors.New("store unavailable")
	}
	f.profiles[profile.UserID] = profile
	return nil
}

func TestProfileLoadLazyCreate(t *testing.T) {
	store := newFakeProfileStore()
	svc := NewProfileService(store, nil)

	p, err := svc.Load("u1", "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.UserID != "u1" || p.Email != "alice@example.com" {
		t.Errorf("lazy-created profile = %+v", p)
	}
	if store.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", store.createCalls)
	}

	if _, err := svc.Load("u1", "alice@example.com"); err != nil {
		t.Fatal(err)
	}
	if store.createCalls != 1 {
		t.Errorf("second load must not create again, createCalls = %d", store.createCalls)
	}
}

// 称呼逐级降级：displayName → 邮箱前缀 → 占位
func TestDisplayNameFallbackChain(t *testing.T) {
	store := newFakeProfileStore()
	svc := NewProfileService(store, nil)

	// 无 displayName：邮箱前缀
	if got := svc.DisplayName("u1", "alice@example.com"); got != "alice" {
		t.Errorf("got %q, want %q", got, "alice")
	}

	// 设置了 displayName：直接用
	if _, err := svc.UpdateDisplayName("u1", "alice@example.com", "Blaze Queen"); err != nil {
		t.Fatal(err)
	}
	if got := svc.DisplayName("u1", "alice@example.com"); got != "Blaze Queen" {
		t.Errorf("got %q, want %q", got, "Blaze Queen")
	}

	// 无邮箱：占位称呼
	if got := svc.DisplayName("u2", ""); got != "User" {
		t.Errorf("got %q, want %q", got, "User")
	}
}

// 画像存储整体不可用时不报错，降级到派生称呼
func TestDisplayNameStoreFailure(t *testing.T) {
	store := newFakeProfileStore()
	store.failAll = true
	svc := NewProfileService(store, nil)

	if got := svc.DisplayName("u1", "bob@example.com"); got != "bob" {
		t.Errorf("got %q, want derived %q", got, "bob")
	}
	if got := svc.DisplayName("u1", ""); got != "User" {
		t.Errorf("got %q, want %q", got, "User")
	}
}
