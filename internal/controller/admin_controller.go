package controller

import (
	"blazequiz_backend/internal/model"
	"blazequiz_backend/internal/service"
	"blazequiz_backend/internal/util"
	"errors"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// AdminController 作者端内容维护（仅 admin 角色）
type AdminController struct {
	ContentService *service.ContentService
}

func NewAdminController(contentService *service.ContentService) *AdminController {
	return &AdminController{ContentService: contentService}
}

// ListCampaigns godoc
// @Summary 战役列表（作者端，含未激活）
// @Tags 后台
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/campaigns [get]
func (c *AdminController) ListCampaigns(ctx *gin.Context) {
	campaigns, err := c.ContentService.ListCampaigns()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, campaigns)
}

// GetCampaignContent godoc
// @Summary 战役完整内容（含答案）
// @Tags 后台
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "战役ID"
// @Success 200 {object} util.Response
// @Router /api/admin/campaigns/{id} [get]
func (c *AdminController) GetCampaignContent(ctx *gin.Context) {
	content, err := c.ContentService.GetCampaignContent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrCampaignNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// CreateCampaign godoc
// @Summary 创建战役
// @Tags 后台
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body model.Campaign true "战役"
// @Success 201 {object} util.Response
// @Router /api/admin/campaigns [post]
func (c *AdminController) CreateCampaign(ctx *gin.Context) {
	var campaign model.Campaign
	if err := ctx.ShouldBindJSON(&campaign); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.ContentService.CreateCampaign(&campaign); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, campaign)
}

// UpdateCampaign godoc
// @Summary 更新战役
// @Tags 后台
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "战役ID"
// @Param body body model.Campaign true "战役"
// @Success 200 {object} util.Response
// @Router /api/admin/campaigns/{id} [put]
func (c *AdminController) UpdateCampaign(ctx *gin.Context) {
	var campaign model.Campaign
	if err := ctx.ShouldBindJSON(&campaign); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	campaign.ID = ctx.Param("id")
	if err := c.ContentService.UpdateCampaign(&campaign); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, campaign)
}

// DeleteCampaign godoc
// @Summary 删除战役
// @Tags 后台
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "战役ID"
// @Success 200 {object} util.Response
// @Router /api/admin/campaigns/{id} [delete]
func (c *AdminController) DeleteCampaign(ctx *gin.Context) {
	if err := c.ContentService.DeleteCampaign(ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadCampaignThumbnail godoc
// @Summary 上传战役缩略图
// @Tags 后台
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "战役ID"
// @Param file formData file true "缩略图"
// @Param alt formData string false "替代文本"
// @Success 200 {object} util.Response
// @Router /api/admin/campaigns/{id}/thumbnail [post]
func (c *AdminController) UploadCampaignThumbnail(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	mimeType, err := util.ValidateMimeType(file, []string{util.MimeImage})
	file.Close()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	file, err = fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	filename := util.GenerateRandomFilename(filepath.Ext(fileHeader.Filename))
	campaign, err := c.ContentService.SetCampaignThumbnail(
		ctx.Request.Context(), ctx.Param("id"), filename,
		file, fileHeader.Size, mimeType, ctx.PostForm("alt"),
	)
	if err != nil {
		if errors.Is(err, util.ErrCampaignNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, campaign)
}

// CreateSection godoc
// @Summary 创建小节
// @Tags 后台
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body model.Section true "小节"
// @Success 201 {object} util.Response
// @Router /api/admin/sections [post]
func (c *AdminController) CreateSection(ctx *gin.Context) {
	var section model.Section
	if err := ctx.ShouldBindJSON(&section); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.ContentService.CreateSection(&section); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, section)
}

// UpdateSection godoc
// @Summary 更新小节
// @Tags 后台
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "小节ID"
// @Param body body model.Section true "小节"
// @Success 200 {object} util.Response
// @Router /api/admin/sections/{id} [put]
func (c *AdminController) UpdateSection(ctx *gin.Context) {
	var section model.Section
	if err := ctx.ShouldBindJSON(&section); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	section.ID = ctx.Param("id")
	if err := c.ContentService.UpdateSection(&section); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, section)
}

// DeleteSection godoc
// @Summary 删除小节
// @Tags 后台
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "小节ID"
// @Success 200 {object} util.Response
// @Router /api/admin/sections/{id} [delete]
func (c *AdminController) DeleteSection(ctx *gin.Context) {
	if err := c.ContentService.DeleteSection(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrSectionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// swagger:model ManualUnlockRequest
type ManualUnlockRequest struct {
	Unlocked *bool `json:"unlocked" binding:"required"`
}

// SetManualUnlock godoc
// @Summary 手动解锁开关
// @Description 仅对 MANUAL 解锁规则的小节有效
// @Tags 后台
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "小节ID"
// @Param body body ManualUnlockRequest true "开关"
// @Success 200 {object} util.Response
// @Router /api/admin/sections/{id}/manual-unlock [put]
func (c *AdminController) SetManualUnlock(ctx *gin.Context) {
	var req ManualUnlockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.ContentService.SetManualUnlock(ctx.Param("id"), *req.Unlocked); err != nil {
		if errors.Is(err, util.ErrSectionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, nil)
}

// CreateQuestion godoc
// @Summary 创建题目
// @Tags 后台
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body model.Question true "题目"
// @Success 201 {object} util.Response
// @Router /api/admin/questions [post]
func (c *AdminController) CreateQuestion(ctx *gin.Context) {
	var question model.Question
	if err := ctx.ShouldBindJSON(&question); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.ContentService.CreateQuestion(&question); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Tags 后台
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "题目ID"
// @Param body body model.Question true "题目"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [put]
func (c *AdminController) UpdateQuestion(ctx *gin.Context) {
	var question model.Question
	if err := ctx.ShouldBindJSON(&question); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	question.ID = ctx.Param("id")
	if err := c.ContentService.UpdateQuestion(&question); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 后台
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [delete]
func (c *AdminController) DeleteQuestion(ctx *gin.Context) {
	if err := c.ContentService.DeleteQuestion(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateAnswer godoc
// @Summary 创建答案
// @Tags 后台
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body model.Answer true "答案"
// @Success 201 {object} util.Response
// @Router /api/admin/answers [post]
func (c *AdminController) CreateAnswer(ctx *gin.Context) {
	var answer model.Answer
	if err := ctx.ShouldBindJSON(&answer); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.ContentService.CreateAnswer(&answer); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, answer)
}

// UpdateAnswer godoc
// @Summary 更新答案
// @Tags 后台
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "答案ID"
// @Param body body model.Answer true "答案"
// @Success 200 {object} util.Response
// @Router /api/admin/answers/{id} [put]
func (c *AdminController) UpdateAnswer(ctx *gin.Context) {
	var answer model.Answer
	if err := ctx.ShouldBindJSON(&answer); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	answer.ID = ctx.Param("id")
	if err := c.ContentService.UpdateAnswer(&answer); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// DeleteAnswer godoc
// @Summary 删除答案
// @Tags 后台
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "答案ID"
// @Success 200 {object} util.Response
// @Router /api/admin/answers/{id} [delete]
func (c *AdminController) DeleteAnswer(ctx *gin.Context) {
	if err := c.ContentService.DeleteAnswer(ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
