package controller

import (
	"strconv"

	"classwork_backend/internal/service"
	"classwork_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	Scoring *service.ScoringService
}

func NewGradeController(scoring *service.ScoringService) *GradeController {
	return &GradeController{Scoring: scoring}
}

type gradeRequest struct {
	Score   *int   `json:"score" binding:"required"`
	Comment string `json:"comment"`
}

// @Summary 教师评分
// @Description 分数 0-100，只接受待批改状态的提交；已批改的须走重做流程
// @Tags 评分
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "提交ID"
// @Param body body gradeRequest true "分数与评语"
// @Success 200 {object} util.Response
// @Router /teacher/submissions/{id}/grade [post]
func (c *GradeController) Grade(ctx *gin.Context) {
	submissionID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid submission id")
		return
	}

	var body gradeRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.Scoring.Grade(uint(submissionID), *body.Score, body.Comment)
	if err != nil {
		util.WorkflowError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}
