package controller

import (
	"blazequiz_backend/internal/service"
	"blazequiz_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type CampaignController struct {
	ProgressService *service.ProgressService
	StorageService  *service.StorageService
}

func NewCampaignController(progressService *service.ProgressService, storageService *service.StorageService) *CampaignController {
	return &CampaignController{
		ProgressService: progressService,
		StorageService:  storageService,
	}
}

// GetCampaigns godoc
// @Summary 战役列表
// @Description 当前用户视角的战役列表，带完成与锁定标记
// @Tags 内容
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/campaigns [get]
func (c *CampaignController) GetCampaigns(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	views, err := c.ProgressService.CampaignOverview(user.UserID, c.StorageService.GetURL)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, views)
}

// GetCampaign godoc
// @Summary 战役详情
// @Description 单个战役（按 ID 或 slug），小节带锁定/完成/初始展开标记
// @Tags 内容
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "战役ID或slug"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "战役不存在"
// @Router /api/campaigns/{id} [get]
func (c *CampaignController) GetCampaign(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.ProgressService.CampaignDetail(user.UserID, ctx.Param("id"), c.StorageService.GetURL)
	if err != nil {
		if errors.Is(err, util.ErrCampaignNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// GetSectionQuestions godoc
// @Summary 小节题目
// @Description 小节内题目（学生视角，含掩码，不含答案），锁定小节返回 403
// @Tags 内容
// @Produce json
// @Security ApiKeyAuth
// @Param sectionId path string true "小节ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "小节未解锁"
// @Failure 404 {object} util.Response "小节不存在"
// @Router /api/sections/{sectionId}/questions [get]
func (c *CampaignController) GetSectionQuestions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	questions, err := c.ProgressService.SectionQuestions(user.UserID, ctx.Param("sectionId"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSectionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrSectionLocked):
			util.Error(ctx, 403, "section is locked")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, questions)
}
