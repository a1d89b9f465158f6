package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"blazequiz_backend/internal/config"
	"blazequiz_backend/internal/model"
	"blazequiz_backend/internal/repository"
	"blazequiz_backend/internal/util"
	"blazequiz_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	campaignContentKeyPrefix = "content:campaign:"
	contentCacheTTL          = 5 * time.Minute
)

// ContentService 内容层：战役/小节/题目/答案的读取与作者端维护。
// 学生端的带进度视图在 ProgressService，这里是原始内容。
type ContentService struct {
	CampaignRepo *repository.CampaignRepository
	SectionRepo  *repository.SectionRepository
	QuestionRepo *repository.QuestionRepository
	Storage      *StorageService
	Redis        *redis.Client
	Cfg          *config.Config
}

func NewContentService(
	campaignRepo *repository.CampaignRepository,
	sectionRepo *repository.SectionRepository,
	questionRepo *repository.QuestionRepository,
	storage *StorageService,
	rdb *redis.Client,
	cfg *config.Config,
) *ContentService {
	return &ContentService{
		CampaignRepo: campaignRepo,
		SectionRepo:  sectionRepo,
		QuestionRepo: questionRepo,
		Storage:      storage,
		Redis:        rdb,
		Cfg:          cfg,
	}
}

// CampaignContent 组装好的战役内容（作者视角，含答案）
type CampaignContent struct {
	Campaign model.Campaign   `json:"campaign"`
	Sections []SectionContent `json:"sections"`
}

type SectionContent struct {
	Section   model.Section    `json:"section"`
	Questions []model.Question `json:"questions"`
}

// GetCampaignContent 整装战役内容，Redis 短 TTL 缓存，作者写操作时失效
func (s *ContentService) GetCampaignContent(ctx context.Context, campaignID string) (*CampaignContent, error) {
	cacheKey := campaignContentKeyPrefix + campaignID

	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached CampaignContent
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("content cache read failed", zap.Error(err))
		}
	}

	campaign, err := s.CampaignRepo.FindByID(campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCampaignNotFound
		}
		return nil, err
	}

	sections, err := s.SectionRepo.FindActiveByCampaign(campaignID)
	if err != nil {
		return nil, err
	}

	content := &CampaignContent{Campaign: *campaign}
	for _, sec := range sections {
		questions, err := s.QuestionRepo.FindActiveBySectionID(sec.ID)
		if err != nil {
			return nil, err
		}
		content.Sections = append(content.Sections, SectionContent{Section: sec, Questions: questions})
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(content); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, raw, contentCacheTTL).Err(); err != nil {
				logger.Log.Warn("content cache write failed", zap.Error(err))
			}
		}
	}
	return content, nil
}

func (s *ContentService) invalidateCampaign(campaignID string) {
	if s.Redis == nil || campaignID == "" {
		return
	}
	if err := s.Redis.Del(context.Background(), campaignContentKeyPrefix+campaignID).Err(); err != nil {
		logger.Log.Warn("content cache invalidation failed", zap.Error(err))
	}
}

func (s *ContentService) ListCampaigns() ([]model.Campaign, error) {
	return s.CampaignRepo.FindAllOrdered()
}

func (s *ContentService) CreateCampaign(campaign *model.Campaign) error {
	return s.CampaignRepo.Create(campaign)
}

func (s *ContentService) UpdateCampaign(campaign *model.Campaign) error {
	if err := s.CampaignRepo.Update(campaign); err != nil {
		return err
	}
	s.invalidateCampaign(campaign.ID)
	return nil
}

func (s *ContentService) DeleteCampaign(id string) error {
	if err := s.CampaignRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateCampaign(id)
	return nil
}

// SetCampaignThumbnail 上传缩略图并回填存储 key
func (s *ContentService) SetCampaignThumbnail(ctx context.Context, campaignID, filename string, reader io.Reader, size int64, contentType, alt string) (*model.Campaign, error) {
	campaign, err := s.CampaignRepo.FindByID(campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCampaignNotFound
		}
		return nil, err
	}

	key := "campaign-thumbnails/" + campaignID + "/" + filename
	url, err := s.Storage.Upload(ctx, key, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	campaign.ThumbnailKey = key
	campaign.ThumbnailURL = url
	if alt != "" {
		campaign.ThumbnailAlt = alt
	}
	if err := s.CampaignRepo.Update(campaign); err != nil {
		return nil, err
	}
	s.invalidateCampaign(campaignID)
	return campaign, nil
}

func (s *ContentService) CreateSection(section *model.Section) error {
	if err := s.SectionRepo.Create(section); err != nil {
		return err
	}
	s.invalidateCampaign(section.CampaignID)
	return nil
}

func (s *ContentService) UpdateSection(section *model.Section) error {
	if err := s.SectionRepo.Update(section); err != nil {
		return err
	}
	s.invalidateCampaign(section.CampaignID)
	return nil
}

func (s *ContentService) DeleteSection(id string) error {
	section, err := s.SectionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSectionNotFound
		}
		return err
	}
	if err := s.SectionRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateCampaign(section.CampaignID)
	return nil
}

// SetManualUnlock MANUAL 规则小节的作者开关，解锁与否完全由它驱动
func (s *ContentService) SetManualUnlock(sectionID string, unlocked bool) error {
	section, err := s.SectionRepo.FindByID(sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSectionNotFound
		}
		return err
	}
	if section.UnlockRule != model.UnlockManual {
		return errors.New("section unlock rule is not MANUAL")
	}
	if err := s.SectionRepo.SetManualUnlock(sectionID, unlocked); err != nil {
		return err
	}
	s.invalidateCampaign(section.CampaignID)
	return nil
}

func (s *ContentService) CreateQuestion(question *model.Question) error {
	if err := s.QuestionRepo.Create(question); err != nil {
		return err
	}
	s.invalidateQuestionCampaign(question)
	return nil
}

func (s *ContentService) UpdateQuestion(question *model.Question) error {
	if err := s.QuestionRepo.Update(question); err != nil {
		return err
	}
	s.invalidateQuestionCampaign(question)
	return nil
}

func (s *ContentService) DeleteQuestion(id string) error {
	question, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	if err := s.QuestionRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateQuestionCampaign(question)
	return nil
}

func (s *ContentService) CreateAnswer(answer *model.Answer) error {
	question, err := s.QuestionRepo.FindByID(answer.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	if err := s.QuestionRepo.CreateAnswer(answer); err != nil {
		return err
	}
	s.invalidateQuestionCampaign(question)
	return nil
}

func (s *ContentService) UpdateAnswer(answer *model.Answer) error {
	return s.QuestionRepo.UpdateAnswer(answer)
}

func (s *ContentService) DeleteAnswer(id string) error {
	return s.QuestionRepo.DeleteAnswer(id)
}

func (s *ContentService) invalidateQuestionCampaign(question *model.Question) {
	if question.SectionID == "" {
		return
	}
	section, err := s.SectionRepo.FindByID(question.SectionID)
	if err != nil {
		return
	}
	s.invalidateCampaign(section.CampaignID)
}
