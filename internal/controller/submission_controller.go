package controller

import (
	"path/filepath"
	"strconv"

	"classwork_backend/internal/service"
	"classwork_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SubmissionController struct {
	Submissions *service.SubmissionService
	Storage     *service.StorageService
}

func NewSubmissionController(submissions *service.SubmissionService, storage *service.StorageService) *SubmissionController {
	return &SubmissionController{Submissions: submissions, Storage: storage}
}

// @Summary 提交作业
// @Description 首次提交或重做获批后的重交，内容为代码文件集合或文档
// @Tags 提交
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param assignmentId path int true "作业ID"
// @Param body body service.SubmitRequest true "提交内容"
// @Success 201 {object} util.Response
// @Router /student/assignments/{assignmentId}/submissions [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	assignmentID, err := strconv.Atoi(ctx.Param("assignmentId"))
	if err != nil {
		util.BadRequest(ctx, "invalid assignment id")
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	req.StudentName = user.Name

	submission, err := c.Submissions.Submit(uint(assignmentID), user.UserID, req)
	if err != nil {
		util.WorkflowError(ctx, err)
		return
	}
	util.Created(ctx, submission)
}

// @Summary 查看自己的提交
// @Tags 提交
// @Produce json
// @Security ApiKeyAuth
// @Param assignmentId path int true "作业ID"
// @Success 200 {object} util.Response
// @Router /student/assignments/{assignmentId}/submission [get]
func (c *SubmissionController) GetMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	assignmentID, err := strconv.Atoi(ctx.Param("assignmentId"))
	if err != nil {
		util.BadRequest(ctx, "invalid assignment id")
		return
	}

	submission, err := c.Submissions.Get(uint(assignmentID), user.UserID)
	if err != nil {
		util.WorkflowError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

// @Summary 按作业列出全部提交（教师批改视图）
// @Tags 提交
// @Produce json
// @Security ApiKeyAuth
// @Param assignmentId path int true "作业ID"
// @Success 200 {object} util.Response
// @Router /teacher/assignments/{assignmentId}/submissions [get]
func (c *SubmissionController) ListByAssignment(ctx *gin.Context) {
	assignmentID, err := strconv.Atoi(ctx.Param("assignmentId"))
	if err != nil {
		util.BadRequest(ctx, "invalid assignment id")
		return
	}

	submissions, err := c.Submissions.ListByAssignment(uint(assignmentID))
	if err != nil {
		util.WorkflowError(ctx, err)
		return
	}
	util.Success(ctx, submissions)
}

// @Summary 上传文档附件
// @Description 返回对象键，提交文档时引用
// @Tags 提交
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "附件"
// @Success 201 {object} util.Response
// @Router /student/uploads [post]
func (c *SubmissionController) UploadAttachment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, util.ErrEmptyAttachment.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	key := "attachments/" + uuid.New().String() + filepath.Ext(fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := c.Storage.Upload(ctx.Request.Context(), key, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"key": key, "url": url})
}
