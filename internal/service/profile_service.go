package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"blazequiz_backend/internal/model"
	"blazequiz_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProfileStore 画像持久化口径，测试注入假实现
type ProfileStore interface {
	FindByUserID(userID string) (*model.UserProfile, error)
	Create(profile *model.UserProfile) error
	Update(profile *model.UserProfile) error
}

// ProfileService 用户展示信息。画像失败不致命：
// 拿不到记录就降级到邮箱前缀或占位称呼。
type ProfileService struct {
	Profiles ProfileStore
	Storage  *StorageService
}

func NewProfileService(profiles ProfileStore, storage *StorageService) *ProfileService {
	return &ProfileService{Profiles: profiles, Storage: storage}
}

const fallbackDisplayName = "User"

// Load 读取画像，缺失则按 userId+email 惰性创建
func (s *ProfileService) Load(userID, email string) (*model.UserProfile, error) {
	profile, err := s.Profiles.FindByUserID(userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := &model.UserProfile{UserID: userID, Email: email}
	if createErr := s.Profiles.Create(fresh); createErr != nil {
		if existing, findErr := s.Profiles.FindByUserID(userID); findErr == nil {
			return existing, nil
		}
		return nil, createErr
	}
	return fresh, nil
}

// DisplayName 问候语用的称呼，逐级降级：displayName → 邮箱前缀 → 占位
func (s *ProfileService) DisplayName(userID, email string) string {
	profile, err := s.Load(userID, email)
	if err != nil {
		logger.Log.Warn("profile load failed, falling back to derived display name",
			zap.String("userId", userID), zap.Error(err))
		return derivedDisplayName(email)
	}
	if profile.DisplayName != "" {
		return profile.DisplayName
	}
	return derivedDisplayName(profile.Email)
}

func derivedDisplayName(email string) string {
	if email == "" {
		return fallbackDisplayName
	}
	local := strings.SplitN(email, "@", 2)[0]
	if local == "" {
		return fallbackDisplayName
	}
	return local
}

func (s *ProfileService) UpdateDisplayName(userID, email, name string) (*model.UserProfile, error) {
	profile, err := s.Load(userID, email)
	if err != nil {
		return nil, err
	}
	profile.DisplayName = name
	if err := s.Profiles.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UploadAvatar 头像入对象存储，key 回写画像
func (s *ProfileService) UploadAvatar(ctx context.Context, userID, email, filename string, reader io.Reader, size int64, contentType string) (*model.UserProfile, error) {
	profile, err := s.Load(userID, email)
	if err != nil {
		return nil, err
	}

	key := "avatars/" + userID + "/" + filename
	if _, err := s.Storage.Upload(ctx, key, reader, size, contentType); err != nil {
		return nil, err
	}

	profile.AvatarKey = key
	if err := s.Profiles.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// AvatarURL 由存储 key 解析出可访问地址，纯装饰用途
func (s *ProfileService) AvatarURL(profile *model.UserProfile) string {
	if profile == nil || profile.AvatarKey == "" {
		return ""
	}
	return s.Storage.GetURL(profile.AvatarKey)
}
