package controller

import (
	"blazequiz_backend/internal/service"
	"blazequiz_backend/internal/util"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	ProfileService *service.ProfileService
}

func NewProfileController(profileService *service.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// GetProfile godoc
// @Summary 用户画像
// @Description 读取（缺失则惰性创建）当前用户画像，displayName 带降级
// @Tags 画像
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.ProfileService.Load(user.UserID, user.Email)
	if err != nil {
		// 画像失败不致命，降级返回派生称呼
		util.Success(ctx, gin.H{
			"userId":      user.UserID,
			"displayName": c.ProfileService.DisplayName(user.UserID, user.Email),
		})
		return
	}

	util.Success(ctx, gin.H{
		"id":          profile.ID,
		"userId":      profile.UserID,
		"email":       profile.Email,
		"displayName": c.ProfileService.DisplayName(user.UserID, user.Email),
		"avatarUrl":   c.ProfileService.AvatarURL(profile),
	})
}

// swagger:model DisplayNameRequest
type DisplayNameRequest struct {
	DisplayName string `json:"displayName" binding:"required,min=1,max=64"`
}

// UpdateDisplayName godoc
// @Summary 设置显示名
// @Tags 画像
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body DisplayNameRequest true "显示名"
// @Success 200 {object} util.Response
// @Router /api/profile/display-name [put]
func (c *ProfileController) UpdateDisplayName(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req DisplayNameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.ProfileService.UpdateDisplayName(user.UserID, user.Email, req.DisplayName)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Tags 画像
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "头像图片"
// @Success 200 {object} util.Response
// @Router /api/profile/avatar [post]
func (c *ProfileController) UploadAvatar(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

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
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{util.MimeImage})
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	// ValidateMimeType 消费了前 512 字节，重开一次
	file.Close()
	file, err = fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	filename := util.GenerateRandomFilename(filepath.Ext(fileHeader.Filename))
	profile, err := c.ProfileService.UploadAvatar(ctx.Request.Context(), user.UserID, user.Email, filename, file, fileHeader.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"avatarKey": profile.AvatarKey,
		"avatarUrl": c.ProfileService.AvatarURL(profile),
	})
}
