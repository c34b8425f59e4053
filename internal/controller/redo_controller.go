package controller

import (
	"strconv"

	"classwork_backend/internal/service"
	"classwork_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RedoController struct {
	Redo *service.RedoService
}

func NewRedoController(redo *service.RedoService) *RedoController {
	return &RedoController{Redo: redo}
}

type redoRequestBody struct {
	Reason string `json:"reason" binding:"required"`
}

// @Summary 学生发起重做申请
// @Description 仅限已批改的提交，每个提交最多 3 次，同一时刻只能有一条待裁决申请
// @Tags 重做
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "提交ID"
// @Param body body redoRequestBody true "重做理由"
// @Success 201 {object} util.Response
// @Router /student/submissions/{id}/redo-requests [post]
func (c *RedoController) RequestRedo(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	submissionID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid submission id")
		return
	}

	var body redoRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	request, err := c.Redo.RequestRedo(uint(submissionID), user.UserID, user.Name, body.Reason)
	if err != nil {
		util.WorkflowError(ctx, err)
		return
	}
	util.Created(ctx, request)
}

type decisionBody struct {
	Approve *bool  `json:"approve" binding:"required"`
	Comment string `json:"comment"`
}

// @Summary 教师裁决重做申请
// @Description 通过则清除成绩并解锁重交，驳回则保持原成绩
// @Tags 重做
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "申请ID"
// @Param body body decisionBody true "裁决"
// @Success 200 {object} util.Response
// @Router /teacher/redo-requests/{id}/decision [post]
func (c *RedoController) Decide(ctx *gin.Context) {
	requestID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid request id")
		return
	}

	var body decisionBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	request, err := c.Redo.Decide(uint(requestID), *body.Approve, body.Comment)
	if err != nil {
		util.WorkflowError(ctx, err)
		return
	}
	util.Success(ctx, request)
}

// @Summary 查看提交的重做历史
// @Tags 重做
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "提交ID"
// @Success 200 {object} util.Response
// @Router /teacher/submissions/{id}/redo-requests [get]
func (c *RedoController) History(ctx *gin.Context) {
	submissionID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid submission id")
		return
	}

	requests, err := c.Redo.History(uint(submissionID))
	if err != nil {
		util.WorkflowError(ctx, err)
		return
	}
	util.Success(ctx, requests)
}
