package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")

	ErrCampaignNotFound = errors.New("campaign not found")
	ErrSectionNotFound  = errors.New("section not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrSectionLocked    = errors.New("section is locked")

	// ErrNoCorrectAnswer 题目没有标记为正确的答案，属于内容数据错误，拒绝判题
	ErrNoCorrectAnswer = errors.New("question has no correct answer")

	// ErrPersistFailed 进度写入失败，本地状态已用远端权威记录替换
	ErrPersistFailed = errors.New("failed to persist user progress")

	ErrProgressNotFound = errors.New("user progress not found")
	ErrProfileNotFound  = errors.New("user profile not found")
)
