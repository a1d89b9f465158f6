package service

import (
	"errors"
	"sync"
	"time"

	"blazequiz_backend/internal/model"
	"blazequiz_backend/internal/util"
	"blazequiz_backend/pkg/logger"
	"blazequiz_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressStore 进度持久化口径。具体实现是 gorm 仓库，
// 测试用内存假实现注入。
type ProgressStore interface {
	FindByUserID(userID string) (*model.UserProgress, error)
	Create(progress *model.UserProgress) error
	Update(progress *model.UserProgress) error
	TopByXP(limit int) ([]model.UserProgress, error)
	FindSectionProgress(userID, sectionID string) (*model.SectionProgress, error)
	SaveSectionProgress(sp *model.SectionProgress) error
	FindCampaignProgress(userID, campaignID string) (*model.CampaignProgress, error)
	SaveCampaignProgress(cp *model.CampaignProgress) error
}

type QuestionSource interface {
	FindByID(id string) (*model.Question, error)
	FindActive() ([]model.Question, error)
	FindActiveBySectionID(sectionID string) ([]model.Question, error)
}

type SectionSource interface {
	FindByID(id string) (*model.Section, error)
	FindActiveOrdered() ([]model.Section, error)
	FindActiveByCampaign(campaignID string) ([]model.Section, error)
}

type CampaignSource interface {
	FindActiveOrdered() ([]model.Campaign, error)
}

type ProgressService struct {
	Progress  ProgressStore
	Questions QuestionSource
	Sections  SectionSource
	Campaigns CampaignSource

	// 同一用户的提交串行化，保证本地变更按提交顺序落地
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewProgressService(progress ProgressStore, questions QuestionSource, sections SectionSource, campaigns CampaignSource) *ProgressService {
	return &ProgressService{
		Progress:  progress,
		Questions: questions,
		Sections:  sections,
		Campaigns: campaigns,
		userLocks: make(map[string]*sync.Mutex),
	}
}

func (s *ProgressService) lockUser(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.userLocks[userID] = l
	}
	return l
}

// Load 读取用户进度，不存在则惰性创建全零记录。
// 并发创建撞上 user_id 唯一索引时回读既有记录（last-write-wins 不会发生，
// 唯一索引保证单条）。
func (s *ProgressService) Load(userID string) (*model.UserProgress, error) {
	progress, err := s.Progress.FindByUserID(userID)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := model.NewUserProgress(userID)
	if createErr := s.Progress.Create(fresh); createErr != nil {
		// 可能是并发请求先建出来了
		if existing, findErr := s.Progress.FindByUserID(userID); findErr == nil {
			return existing, nil
		}
		return nil, createErr
	}
	return fresh, nil
}

// SubmitResult 一次提交的结果。进度字段永远是一致的完整快照。
type SubmitResult struct {
	Correct                 bool                `json:"correct"`
	AlreadyAnswered         bool                `json:"alreadyAnswered"`
	XPAwarded               int                 `json:"xpAwarded"`
	TotalXP                 int                 `json:"totalXP"`
	AnsweredQuestions       []string            `json:"answeredQuestions"`
	CompletedSections       []int               `json:"completedSections"`
	DailyStreak             int                 `json:"dailyStreak"`
	NewlyCompletedCampaigns []string            `json:"newlyCompletedCampaigns,omitempty"`
	Progress                *model.UserProgress `json:"-"`
}

// SubmitAnswer 判题并记账。
// 错误答案不留任何痕迹，可重试；重复答对同一题是幂等空操作（XP 不重发）；
// 持久化失败时回读远端权威记录并采纳（自愈半写），调用方收到 ErrPersistFailed。
func (s *ProgressService) SubmitAnswer(userID, questionID, userAnswer string) (*SubmitResult, error) {
	lock := s.lockUser(userID)
	lock.Lock()
	defer lock.Unlock()

	question, err := s.Questions.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	correct, err := CorrectAnswer(question)
	if err != nil {
		return nil, err
	}

	progress, err := s.Load(userID)
	if err != nil {
		return nil, err
	}

	if !MatchAnswer(userAnswer, correct) {
		monitoring.AnswerCounter.WithLabelValues("incorrect").Inc()
		return s.result(progress, false, false, 0, nil), nil
	}

	if progress.AnsweredQuestions.Contains(questionID) {
		monitoring.AnswerCounter.WithLabelValues("duplicate").Inc()
		return s.result(progress, true, true, 0, nil), nil
	}

	snapshot := progress.Clone()

	xp := question.XP()
	progress.AnsweredQuestions = append(progress.AnsweredQuestions, questionID)
	progress.TotalXP += xp
	bumpDailyStreak(progress, time.Now().UTC())

	if byNumber, qErr := s.questionIDsBySectionNumber(); qErr == nil {
		progress.CompletedSections = ComputeCompletedSections(byNumber, progress.AnsweredQuestions)
	} else {
		logger.Log.Error("failed to recompute completed sections", zap.Error(qErr))
	}

	if persistErr := s.Progress.Update(progress); persistErr != nil {
		logger.Log.Error("progress persist failed, re-fetching authoritative record",
			zap.String("userId", userID), zap.Error(persistErr))
		monitoring.AnswerCounter.WithLabelValues("persist_error").Inc()

		authoritative, findErr := s.Progress.FindByUserID(userID)
		if findErr != nil {
			// 远端也读不到，退回更新前快照，保证不暴露半写状态
			authoritative = snapshot
		}
		res := s.result(authoritative, true, false, 0, nil)
		res.Progress = authoritative
		return res, util.ErrPersistFailed
	}

	monitoring.AnswerCounter.WithLabelValues("correct").Inc()

	newlyCompleted := s.syncHierarchyProgress(userID, question, progress)

	return s.result(progress, true, false, xp, newlyCompleted), nil
}

func (s *ProgressService) result(p *model.UserProgress, correct, dup bool, xp int, newly []string) *SubmitResult {
	return &SubmitResult{
		Correct:                 correct,
		AlreadyAnswered:         dup,
		XPAwarded:               xp,
		TotalXP:                 p.TotalXP,
		AnsweredQuestions:       append([]string{}, p.AnsweredQuestions...),
		CompletedSections:       append([]int{}, p.CompletedSections...),
		DailyStreak:             p.DailyStreak,
		NewlyCompletedCampaigns: newly,
		Progress:                p,
	}
}

// bumpDailyStreak 按 UTC 日期维护连击：同日不变，隔一日 +1，断档归 1
func bumpDailyStreak(p *model.UserProgress, now time.Time) {
	today := now.Truncate(24 * time.Hour)
	if p.LastBlazeAt != nil {
		last := p.LastBlazeAt.UTC().Truncate(24 * time.Hour)
		switch {
		case last.Equal(today):
			p.LastBlazeAt = &now
			return
		case last.Equal(today.AddDate(0, 0, -1)):
			p.DailyStreak++
			p.LastBlazeAt = &now
			return
		}
	}
	p.DailyStreak = 1
	p.LastBlazeAt = &now
}

func (s *ProgressService) questionIDsBySectionNumber() (map[int][]string, error) {
	questions, err := s.Questions.FindActive()
	if err != nil {
		return nil, err
	}
	byNumber := make(map[int][]string)
	for _, q := range questions {
		byNumber[q.Section] = append(byNumber[q.Section], q.ID)
	}
	return byNumber, nil
}

// syncHierarchyProgress 维护关系型的 SectionProgress/CampaignProgress 派生行，
// 并检测战役完成的 false→true 跳变（一次性 toast 的触发源）。
// 这些都是独立写入的派生数据，失败只记日志，不影响已入账的 XP。
func (s *ProgressService) syncHierarchyProgress(userID string, question *model.Question, progress *model.UserProgress) []string {
	if question.SectionID == "" {
		return nil
	}

	answered := AnsweredSet(progress.AnsweredQuestions)

	sectionQuestions, err := s.Questions.FindActiveBySectionID(question.SectionID)
	if err != nil {
		logger.Log.Error("failed to load section questions", zap.Error(err))
		return nil
	}
	ids := make([]string, 0, len(sectionQuestions))
	answeredInSection := model.StringList{}
	for _, q := range sectionQuestions {
		ids = append(ids, q.ID)
		if answered[q.ID] {
			answeredInSection = append(answeredInSection, q.ID)
		}
	}

	sp, err := s.Progress.FindSectionProgress(userID, question.SectionID)
	if err != nil {
		sp = &model.SectionProgress{UserID: userID, SectionID: question.SectionID}
	}
	sp.AnsweredQuestionIDs = answeredInSection
	sp.CorrectCount = len(answeredInSection)
	sp.Completed = SectionComplete(ids, answered)
	if err := s.Progress.SaveSectionProgress(sp); err != nil {
		logger.Log.Error("failed to save section progress", zap.Error(err))
	}

	section, err := s.Sections.FindByID(question.SectionID)
	if err != nil {
		return nil
	}
	return s.refreshCampaignProgress(userID, section.CampaignID, answered)
}

func (s *ProgressService) refreshCampaignProgress(userID, campaignID string, answered map[string]bool) []string {
	sections, err := s.Sections.FindActiveByCampaign(campaignID)
	if err != nil {
		logger.Log.Error("failed to load campaign sections", zap.Error(err))
		return nil
	}

	done := true
	for _, sec := range sections {
		questions, err := s.Questions.FindActiveBySectionID(sec.ID)
		if err != nil {
			logger.Log.Error("failed to load section questions", zap.Error(err))
			return nil
		}
		ids := make([]string, 0, len(questions))
		for _, q := range questions {
			ids = append(ids, q.ID)
		}
		if !SectionComplete(ids, answered) {
			done = false
			break
		}
	}
	if !done {
		return nil
	}

	cp, err := s.Progress.FindCampaignProgress(userID, campaignID)
	if err != nil {
		cp = &model.CampaignProgress{UserID: userID, CampaignID: campaignID}
	}
	if cp.Completed {
		// 已经标记过，跳变只报告一次
		return nil
	}
	cp.Completed = true
	if err := s.Progress.SaveCampaignProgress(cp); err != nil {
		logger.Log.Error("failed to save campaign progress", zap.Error(err))
		return nil
	}
	return []string{campaignID}
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	UserID      string `json:"userId"`
	TotalXP     int    `json:"totalXP"`
	DailyStreak int    `json:"dailyStreak"`
}

func (s *ProgressService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	records, err := s.Progress.TopByXP(limit)
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, LeaderboardEntry{
			UserID:      r.UserID,
			TotalXP:     r.TotalXP,
			DailyStreak: r.DailyStreak,
		})
	}
	return entries, nil
}
