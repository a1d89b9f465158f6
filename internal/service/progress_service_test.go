package service

import (
	"errors"
	"sort"
	"testing"
	"time"

	"blazequiz_backend/internal/model"
	"blazequiz_backend/internal/util"

	"gorm.io/gorm"
)

type fakeProgressStore struct {
	records   map[string]*model.UserProgress
	sections  map[string]*model.SectionProgress
	campaigns map[string]*model.CampaignProgress

	createCalls int
	updateCalls int

	failUpdate    bool
	findCalls     int
	failFindAfter int // >0 时：第 N 次之后的 FindByUserID 失败
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{
		records:   make(map[string]*model.UserProgress),
		sections:  make(map[string]*model.SectionProgress),
		campaigns: make(map[string]*model.CampaignProgress),
	}
}

func (f *fakeProgressStore) FindByUserID(userID string) (*model.UserProgress, error) {
	f.findCalls++
	if f.failFindAfter > 0 && f.findCalls > f.failFindAfter {
		return nil, errors.New("store unavailable")
	}
	p, ok := f.records[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// 模拟数据库行与内存对象解耦
	return p.Clone(), nil
}

func (f *fakeProgressStore) Create(progress *model.UserProgress) error {
	f.createCalls++
	if _, exists := f.records[progress.UserID]; exists {
		return errors.New("duplicate key")
	}
	f.records[progress.UserID] = progress.Clone()
	return nil
}

func (f *fakeProgressStore) Update(progress *model.UserProgress) error {
	f.updateCalls++
	if f.failUpdate {
		return errors.New("write timeout")
	}
	f.records[progress.UserID] = progress.Clone()
	return nil
}

func (f *fakeProgressStore) TopByXP(limit int) ([]model.UserProgress, error) {
	out := make([]model.UserProgress, 0, len(f.records))
	for _, p := range f.records {
		out = append(out, *p.Clone())
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProgressStore) FindSectionProgress(userID, sectionID string) (*model.SectionProgress, error) {
	sp, ok := f.sections[userID+"/"+sectionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return sp, nil
}

func (f *fakeProgressStore) SaveSectionProgress(sp *model.SectionProgress) error {
	f.sections[sp.UserID+"/"+sp.SectionID] = sp
	return nil
}

func (f *fakeProgressStore) FindCampaignProgress(userID, campaignID string) (*model.CampaignProgress, error) {
	cp, ok := f.campaigns[userID+"/"+campaignID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cp, nil
}

func (f *fakeProgressStore) SaveCampaignProgress(cp *model.CampaignProgress) error {
	f.campaigns[cp.UserID+"/"+cp.CampaignID] = cp
	return nil
}

type fakeQuestionSource struct {
	questions map[string]*model.Question
}

func (f *fakeQuestionSource) FindByID(id string) (*model.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return q, nil
}

func (f *fakeQuestionSource) FindActive() ([]model.Question, error) {
	out := make([]model.Question, 0, len(f.questions))
	for _, q := range f.questions {
		if q.IsActive {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeQuestionSource) FindActiveBySectionID(sectionID string) ([]model.Question, error) {
	var out []model.Question
	for _, q := range f.questions {
		if q.IsActive && q.SectionID == sectionID {
			out = append(out, *q)
		}
	}
	return out, nil
}

type fakeSectionSource struct {
	sections map[string]*model.Section
}

func (f *fakeSectionSource) FindByID(id string) (*model.Section, error) {
	s, ok := f.sections[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeSectionSource) FindActiveOrdered() ([]model.Section, error) {
	var out []model.Section
	for _, s := range f.sections {
		if s.IsActive {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakeSectionSource) FindActiveByCampaign(campaignID string) ([]model.Section, error) {
	var out []model.Section
	for _, s := range f.sections {
		if s.IsActive && s.CampaignID == campaignID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

type fakeCampaignSource struct {
	campaigns []model.Campaign
}

func (f *fakeCampaignSource) FindActiveOrdered() ([]model.Campaign, error) {
	return f.campaigns, nil
}

func question(id, sectionID string, sectionNumber int, answer string, xp int) *model.Question {
	q := &model.Question{
		SectionID: sectionID,
		Section:   sectionNumber,
		Text:      "q " + id,
		XPValue:   xp,
		IsActive:  true,
		Answers: []model.Answer{
			{Content: answer, IsCorrect: true, IsActive: true},
		},
	}
	q.ID = id
	return q
}

// 单战役两小节：s1 两题，s2 一题
func newTestService() (*ProgressService, *fakeProgressStore) {
	store := newFakeProgressStore()

	s1 := &model.Section{CampaignID: "c1", Number: 1, IsActive: true, UnlockRule: model.UnlockAllPrevCorrect}
	s1.ID = "s1"
	s2 := &model.Section{CampaignID: "c1", Number: 2, IsActive: true, UnlockRule: model.UnlockAllPrevCorrect}
	s2.ID = "s2"

	questions := &fakeQuestionSource{questions: map[string]*model.Question{
		"q1": question("q1", "s1", 1, "Paris", 10),
		"q2": question("q2", "s1", 1, "4", 15),
		"q3": question("q3", "s2", 2, "Tokyo", 10),
	}}
	sections := &fakeSectionSource{sections: map[string]*model.Section{"s1": s1, "s2": s2}}

	c1 := model.Campaign{IsActive: true}
	c1.ID = "c1"
	campaigns := &fakeCampaignSource{campaigns: []model.Campaign{c1}}

	return NewProgressService(store, questions, sections, campaigns), store
}

func TestLoadLazyCreate(t *testing.T) {
	svc, store := newTestService()

	p, err := svc.Load("u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TotalXP != 0 || len(p.AnsweredQuestions) != 0 || len(p.CompletedSections) != 0 || p.DailyStreak != 0 {
		t.Errorf("fresh progress must be all-zero, got %+v", p)
	}
	if p.LastBlazeAt != nil {
		t.Error("fresh progress must have no lastBlazeAt")
	}
	if store.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", store.createCalls)
	}

	if _, err := svc.Load("u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.createCalls != 1 {
		t.Errorf("second load must not create again, createCalls = %d", store.createCalls)
	}
}

func TestSubmitAnswerCorrect(t *testing.T) {
	svc, store := newTestService()

	res, err := svc.SubmitAnswer("u1", "q1", "  paris ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Correct || res.AlreadyAnswered {
		t.Fatalf("got correct=%v already=%v, want correct first answer", res.Correct, res.AlreadyAnswered)
	}
	if res.XPAwarded != 10 || res.TotalXP != 10 {
		t.Errorf("xp awarded=%d total=%d, want 10/10", res.XPAwarded, res.TotalXP)
	}
	if res.DailyStreak != 1 {
		t.Errorf("streak = %d, want 1", res.DailyStreak)
	}
	if len(res.CompletedSections) != 0 {
		t.Errorf("section 1 still has an open question, got completed %v", res.CompletedSections)
	}

	saved := store.records["u1"]
	if saved == nil || !saved.AnsweredQuestions.Contains("q1") {
		t.Error("answered question must be persisted")
	}
}

func TestSubmitAnswerIncorrectHasNoSideEffects(t *testing.T) {
	svc, store := newTestService()

	res, err := svc.SubmitAnswer("u1", "q1", "london")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Correct {
		t.Fatal("wrong answer reported as correct")
	}
	if res.XPAwarded != 0 || res.TotalXP != 0 {
		t.Errorf("wrong answer must not award XP, got %d/%d", res.XPAwarded, res.TotalXP)
	}
	if store.updateCalls != 0 {
		t.Errorf("wrong answer must not persist anything, updateCalls = %d", store.updateCalls)
	}

	// 答错后可以立即重试并答对
	res, err = svc.SubmitAnswer("u1", "q1", "Paris")
	if err != nil || !res.Correct {
		t.Fatalf("retry after wrong answer failed: %v %+v", err, res)
	}
}

func TestSubmitAnswerDuplicateIsIdempotent(t *testing.T) {
	svc, store := newTestService()

	if _, err := svc.SubmitAnswer("u1", "q1", "Paris"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := svc.SubmitAnswer("u1", "q1", "Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Correct || !res.AlreadyAnswered {
		t.Fatalf("duplicate must report correct+alreadyAnswered, got %+v", res)
	}
	if res.XPAwarded != 0 {
		t.Errorf("duplicate must not re-award XP, got %d", res.XPAwarded)
	}
	if res.TotalXP != 10 {
		t.Errorf("totalXP = %d, want 10", res.TotalXP)
	}
	if len(res.AnsweredQuestions) != 1 {
		t.Errorf("answeredQuestions = %v, want single entry", res.AnsweredQuestions)
	}
	if store.updateCalls != 1 {
		t.Errorf("duplicate must not persist, updateCalls = %d", store.updateCalls)
	}
}

func TestXPNeverDecreases(t *testing.T) {
	svc, _ := newTestService()

	submissions := []struct{ q, a string }{
		{"q1", "wrong"},
		{"q1", "Paris"},
		{"q1", "Paris"},
		{"q2", "nope"},
		{"q2", "4"},
		{"q3", "Tokyo"},
		{"q3", "Tokyo"},
	}

	prev := 0
	for _, sub := range submissions {
		res, err := svc.SubmitAnswer("u1", sub.q, sub.a)
		if err != nil {
			t.Fatalf("submit(%s) error: %v", sub.q, err)
		}
		if res.TotalXP < prev {
			t.Fatalf("totalXP decreased from %d to %d", prev, res.TotalXP)
		}
		prev = res.TotalXP
	}
	if prev != 35 {
		t.Errorf("final totalXP = %d, want 35", prev)
	}
}

func TestSubmitAnswerCompletesSections(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.SubmitAnswer("u1", "q1", "Paris"); err != nil {
		t.Fatal(err)
	}
	res, err := svc.SubmitAnswer("u1", "q2", "4")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.CompletedSections) != 1 || res.CompletedSections[0] != 1 {
		t.Errorf("completedSections = %v, want [1]", res.CompletedSections)
	}
	if len(res.NewlyCompletedCampaigns) != 0 {
		t.Errorf("campaign still has section 2 open, got %v", res.NewlyCompletedCampaigns)
	}
}

func TestSubmitAnswerQuestionNotFound(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.SubmitAnswer("u1", "missing", "x"); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("got %v, want ErrQuestionNotFound", err)
	}
}

func TestSubmitAnswerNoCorrectAnswer(t *testing.T) {
	svc, _ := newTestService()
	broken := question("q9", "s1", 1, "x", 10)
	broken.Answers[0].IsCorrect = false
	svc.Questions.(*fakeQuestionSource).questions["q9"] = broken

	if _, err := svc.SubmitAnswer("u1", "q9", "x"); !errors.Is(err, util.ErrNoCorrectAnswer) {
		t.Fatalf("got %v, want ErrNoCorrectAnswer", err)
	}
}

// 持久化失败：回读权威记录，调用方拿到的是远端状态而不是半写的本地状态
func TestSubmitAnswerPersistFailureAdoptsAuthoritative(t *testing.T) {
	svc, store := newTestService()

	// 另一个会话已经累了 99 XP，本地这次写入会失败
	authoritative := model.NewUserProgress("u1")
	authoritative.TotalXP = 99
	authoritative.AnsweredQuestions = model.StringList{"q3"}
	store.records["u1"] = authoritative
	store.failUpdate = true

	res, err := svc.SubmitAnswer("u1", "q1", "Paris")
	if !errors.Is(err, util.ErrPersistFailed) {
		t.Fatalf("got %v, want ErrPersistFailed", err)
	}
	if res == nil {
		t.Fatal("result must still carry a consistent snapshot")
	}
	if res.TotalXP != 99 {
		t.Errorf("totalXP = %d, want the authoritative 99", res.TotalXP)
	}
	if res.XPAwarded != 0 {
		t.Errorf("no XP can be claimed when the write failed, got %d", res.XPAwarded)
	}
	for _, id := range res.AnsweredQuestions {
		if id == "q1" {
			t.Error("half-written local state leaked into the result")
		}
	}
}

// 持久化失败且回读也失败：退回更新前快照
func TestSubmitAnswerPersistFailureFallsBackToSnapshot(t *testing.T) {
	svc, store := newTestService()

	seeded := model.NewUserProgress("u1")
	seeded.TotalXP = 25
	seeded.AnsweredQuestions = model.StringList{"q2"}
	store.records["u1"] = seeded
	store.failUpdate = true
	store.failFindAfter = 1 // 锁内 Load 成功，更新失败后的回读失败

	res, err := svc.SubmitAnswer("u1", "q1", "Paris")
	if !errors.Is(err, util.ErrPersistFailed) {
		t.Fatalf("got %v, want ErrPersistFailed", err)
	}
	if res.TotalXP != 25 {
		t.Errorf("snapshot fallback totalXP = %d, want pre-update 25", res.TotalXP)
	}
	for _, id := range res.AnsweredQuestions {
		if id == "q1" {
			t.Error("half-written local state leaked into the snapshot")
		}
	}
}

func TestCampaignCompletionReportedOnce(t *testing.T) {
	svc, store := newTestService()

	if _, err := svc.SubmitAnswer("u1", "q1", "Paris"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SubmitAnswer("u1", "q2", "4"); err != nil {
		t.Fatal(err)
	}
	res, err := svc.SubmitAnswer("u1", "q3", "Tokyo")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.NewlyCompletedCampaigns) != 1 || res.NewlyCompletedCampaigns[0] != "c1" {
		t.Fatalf("newlyCompletedCampaigns = %v, want [c1]", res.NewlyCompletedCampaigns)
	}

	cp := store.campaigns["u1/c1"]
	if cp == nil || !cp.Completed {
		t.Fatal("campaign progress flag must be persisted")
	}

	// 跳变只报告一次：标记已落库后重复提交不再报告
	res, err = svc.SubmitAnswer("u1", "q3", "Tokyo")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.NewlyCompletedCampaigns) != 0 {
		t.Errorf("completed campaign reported again: %v", res.NewlyCompletedCampaigns)
	}
}

func TestBumpDailyStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	// 首次答对
	p := model.NewUserProgress("u1")
	bumpDailyStreak(p, now)
	if p.DailyStreak != 1 {
		t.Errorf("first blaze streak = %d, want 1", p.DailyStreak)
	}

	// 同一 UTC 日内再次答对：不变
	bumpDailyStreak(p, now.Add(2*time.Hour))
	if p.DailyStreak != 1 {
		t.Errorf("same-day streak = %d, want 1", p.DailyStreak)
	}

	// 次日答对：+1
	bumpDailyStreak(p, now.AddDate(0, 0, 1))
	if p.DailyStreak != 2 {
		t.Errorf("next-day streak = %d, want 2", p.DailyStreak)
	}

	// 断档两天：归 1
	bumpDailyStreak(p, now.AddDate(0, 0, 3))
	if p.DailyStreak != 1 {
		t.Errorf("streak after a gap = %d, want 1", p.DailyStreak)
	}
}

func TestLeaderboard(t *testing.T) {
	svc, store := newTestService()

	a := model.NewUserProgress("alice")
	a.TotalXP = 50
	store.records["alice"] = a
	b := model.NewUserProgress("bob")
	b.TotalXP = 30
	store.records["bob"] = b

	entries, err := svc.Leaderboard(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
}
