package service

import (
	"errors"

	"blazequiz_backend/internal/model"
	"blazequiz_backend/internal/util"

	"gorm.io/gorm"
)

// 学生端的进度视角内容视图：小节/战役带 locked、completed、initialOpen 标记。

type SectionView struct {
	ID              string `json:"id"`
	Number          int    `json:"number"`
	Title           string `json:"title"`
	EducationalText string `json:"educationalText,omitempty"`
	QuestionCount   int    `json:"questionCount"`
	AnsweredCount   int    `json:"answeredCount"`
	Completed       bool   `json:"completed"`
	Locked          bool   `json:"locked"`
	InitialOpen     bool   `json:"initialOpen"`
}

type CampaignView struct {
	ID           string        `json:"id"`
	Slug         string        `json:"slug"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	ThumbnailURL string        `json:"thumbnailUrl,omitempty"`
	ThumbnailAlt string        `json:"thumbnailAlt,omitempty"`
	Completed    bool          `json:"completed"`
	Locked       bool          `json:"locked"`
	Sections     []SectionView `json:"sections,omitempty"`
}

// QuestionView 学生端题目，不携带 isCorrect/答案内容，只给掩码
type QuestionView struct {
	ID         string           `json:"id"`
	Text       string           `json:"text"`
	XPValue    int              `json:"xpValue"`
	Difficulty model.Difficulty `json:"difficulty"`
	Mask       Mask             `json:"mask"`
	Answered   bool             `json:"answered"`
}

// CampaignOverview 全部战役及其小节的完成/锁定标记，一次进度加载全量计算
func (s *ProgressService) CampaignOverview(userID string, resolveThumb func(key string) string) ([]CampaignView, error) {
	progress, err := s.Load(userID)
	if err != nil {
		return nil, err
	}
	answered := AnsweredSet(progress.AnsweredQuestions)

	campaigns, err := s.Campaigns.FindActiveOrdered()
	if err != nil {
		return nil, err
	}

	views := make([]CampaignView, 0, len(campaigns))
	campaignCompletions := make([]bool, 0, len(campaigns))

	for _, campaign := range campaigns {
		sections, err := s.Sections.FindActiveByCampaign(campaign.ID)
		if err != nil {
			return nil, err
		}

		sectionViews := make([]SectionView, 0, len(sections))
		completions := make([]bool, 0, len(sections))
		var prev *model.Section
		prevAnswered, prevTotal := 0, 0

		for i := range sections {
			sec := sections[i]
			questions, err := s.Questions.FindActiveBySectionID(sec.ID)
			if err != nil {
				return nil, err
			}
			ids := make([]string, 0, len(questions))
			answeredCount := 0
			for _, q := range questions {
				ids = append(ids, q.ID)
				if answered[q.ID] {
					answeredCount++
				}
			}
			complete := SectionComplete(ids, answered)

			prevComplete := len(completions) == 0 || completions[len(completions)-1]
			locked := SectionLocked(&sec, prev, prevComplete, prevAnswered, prevTotal)

			sectionViews = append(sectionViews, SectionView{
				ID:              sec.ID,
				Number:          sec.Number,
				Title:           sec.Title,
				EducationalText: sec.EducationalText,
				QuestionCount:   len(ids),
				AnsweredCount:   answeredCount,
				Completed:       complete,
				Locked:          locked,
				InitialOpen:     i == 0,
			})
			completions = append(completions, complete)
			prev = &sections[i]
			prevAnswered, prevTotal = answeredCount, len(ids)
		}

		campaignDone := CampaignComplete(completions)
		views = append(views, CampaignView{
			ID:           campaign.ID,
			Slug:         campaign.Slug,
			Title:        campaign.Title,
			Description:  campaign.Description,
			ThumbnailURL: thumbnailURL(&campaign, resolveThumb),
			ThumbnailAlt: campaign.ThumbnailAlt,
			Completed:    campaignDone,
			Sections:     sectionViews,
		})
		campaignCompletions = append(campaignCompletions, campaignDone)
	}

	// 战役层与小节层同一条链式解锁策略
	for i := range views {
		views[i].Locked = Locked(i, campaignCompletions)
	}
	return views, nil
}

// CampaignDetail 单个战役视图（按 ID 或 slug），含小节的锁定/完成标记
func (s *ProgressService) CampaignDetail(userID, idOrSlug string, resolveThumb func(key string) string) (*CampaignView, error) {
	views, err := s.CampaignOverview(userID, resolveThumb)
	if err != nil {
		return nil, err
	}
	for i := range views {
		if views[i].ID == idOrSlug || views[i].Slug == idOrSlug {
			return &views[i], nil
		}
	}
	return nil, util.ErrCampaignNotFound
}

// SectionQuestions 小节题目（学生视角）。锁定的小节拒绝访问。
func (s *ProgressService) SectionQuestions(userID, sectionID string) ([]QuestionView, error) {
	section, err := s.Sections.FindByID(sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSectionNotFound
		}
		return nil, err
	}

	locked, err := s.sectionLockedForUser(userID, section)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, util.ErrSectionLocked
	}

	progress, err := s.Load(userID)
	if err != nil {
		return nil, err
	}
	answered := AnsweredSet(progress.AnsweredQuestions)

	questions, err := s.Questions.FindActiveBySectionID(sectionID)
	if err != nil {
		return nil, err
	}
	return buildQuestionViews(questions, answered), nil
}

// LegacyQuestions 旧版扁平列表：按小节编号过滤，客户端自行分组
func (s *ProgressService) LegacyQuestions(userID string, sectionNumber int) ([]QuestionView, error) {
	progress, err := s.Load(userID)
	if err != nil {
		return nil, err
	}
	answered := AnsweredSet(progress.AnsweredQuestions)

	questions, err := s.Questions.FindActive()
	if err != nil {
		return nil, err
	}
	if sectionNumber > 0 {
		filtered := questions[:0]
		for _, q := range questions {
			if q.Section == sectionNumber {
				filtered = append(filtered, q)
			}
		}
		questions = filtered
	}
	return buildQuestionViews(questions, answered), nil
}

func buildQuestionViews(questions []model.Question, answered map[string]bool) []QuestionView {
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		correct, err := CorrectAnswer(&q)
		mask := Mask{Placeholder: maskPlaceholder}
		if err == nil {
			mask = AnswerMask(correct)
		}
		views = append(views, QuestionView{
			ID:         q.ID,
			Text:       q.Text,
			XPValue:    q.XP(),
			Difficulty: q.Difficulty,
			Mask:       mask,
			Answered:   answered[q.ID],
		})
	}
	return views
}

func (s *ProgressService) sectionLockedForUser(userID string, section *model.Section) (bool, error) {
	sections, err := s.Sections.FindActiveByCampaign(section.CampaignID)
	if err != nil {
		return false, err
	}

	progress, err := s.Load(userID)
	if err != nil {
		return false, err
	}
	answered := AnsweredSet(progress.AnsweredQuestions)

	var prev *model.Section
	prevComplete := true
	prevAnswered, prevTotal := 0, 0
	for i := range sections {
		sec := sections[i]
		questions, err := s.Questions.FindActiveBySectionID(sec.ID)
		if err != nil {
			return false, err
		}
		ids := make([]string, 0, len(questions))
		answeredCount := 0
		for _, q := range questions {
			ids = append(ids, q.ID)
			if answered[q.ID] {
				answeredCount++
			}
		}

		if sec.ID == section.ID {
			return SectionLocked(&sec, prev, prevComplete, prevAnswered, prevTotal), nil
		}

		prevComplete = SectionComplete(ids, answered)
		prev = &sections[i]
		prevAnswered, prevTotal = answeredCount, len(ids)
	}
	return false, util.ErrSectionNotFound
}

func thumbnailURL(c *model.Campaign, resolve func(key string) string) string {
	if c.ThumbnailKey != "" && resolve != nil {
		return resolve(c.ThumbnailKey)
	}
	return c.ThumbnailURL
}
