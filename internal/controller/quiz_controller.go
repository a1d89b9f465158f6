package controller

import (
	"blazequiz_backend/internal/service"
	"blazequiz_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	ProgressService *service.ProgressService
}

func NewQuizController(progressService *service.ProgressService) *QuizController {
	return &QuizController{ProgressService: progressService}
}

// swagger:model SubmitAnswerRequest
type SubmitAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// SubmitAnswer godoc
// @Summary 提交答案
// @Description 判题并入账。答错无副作用可重试；重复答对是幂等空操作。
// @Tags 答题
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param questionId path string true "题目ID"
// @Param body body SubmitAnswerRequest true "用户答案"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 404 {object} util.Response "题目不存在"
// @Failure 422 {object} util.Response "题目缺少正确答案（内容数据错误）"
// @Router /api/questions/{questionId}/submit [post]
func (c *QuizController) SubmitAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.SubmitAnswer(user.UserID, ctx.Param("questionId"), req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNoCorrectAnswer):
			util.Error(ctx, 422, "question has no correct answer configured")
		case errors.Is(err, util.ErrPersistFailed):
			// 本地已采纳权威记录，答题内容继续可用，只提示这次没存上
			util.Error(ctx, 502, "progress could not be saved, please retry your last answer")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// GetQuestions godoc
// @Summary 题目列表（旧版扁平接口）
// @Description 按小节编号过滤的旧版题目列表，客户端自行分组
// @Tags 答题
// @Produce json
// @Security ApiKeyAuth
// @Param section query int false "小节编号"
// @Success 200 {object} util.Response
// @Router /api/questions [get]
func (c *QuizController) GetQuestions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	sectionNumber := 0
	if raw := ctx.Query("section"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			util.BadRequest(ctx, "invalid section number")
			return
		}
		sectionNumber = n
	}

	questions, err := c.ProgressService.LegacyQuestions(user.UserID, sectionNumber)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}
