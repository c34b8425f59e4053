package service_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"classwork_backend/internal/model"
	"classwork_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradedSubmission 建好一条已批改的提交
func gradedSubmission(t *testing.T, e *env, score int) *model.Submission {
	t.Helper()
	e.addAssignment(1, 9, time.Now().Add(time.Hour))
	submission, err := e.submission.Submit(1, 100, codeSubmit("小明"))
	require.NoError(t, err)
	graded, err := e.scoring.Grade(submission.ID, score, "原始评语")
	require.NoError(t, err)
	return graded
}

func TestRequestRedoCreatesPendingRequest(t *testing.T) {
	e := newEnv()
	submission := gradedSubmission(t, e, 70)

	request, err := e.redo.RequestRedo(submission.ID, 100, "小明", "误解了题目要求")
	require.NoError(t, err)

	assert.Equal(t, model.RedoPending, request.Decision)
	assert.Equal(t, "误解了题目要求", request.Reason)
	assert.Nil(t, request.DecidedAt)

	updated, err := e.subs.FindByID(submission.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateRedoPending, updated.State)

	event := e.notifier.last()
	assert.Equal(t, model.NotifyRedoRequested, event.Kind)
	assert.Equal(t, uint(9), event.RecipientID)
	assert.Equal(t, model.Teacher, event.RecipientRole)
}

func TestRequestRedoEmptyReason(t *testing.T) {
	e := newEnv()
	submission := gradedSubmission(t, e, 70)

	_, err := e.redo.RequestRedo(submission.ID, 100, "小明", "  ")
	assert.ErrorIs(t, err, util.ErrEmptyReason)
}

func TestRequestRedoWrongStudent(t *testing.T) {
	e := newEnv()
	submission := gradedSubmission(t, e, 70)

	_, err := e.redo.RequestRedo(submission.ID, 999, "别人", "不是我的提交")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestRequestRedoIllegalState(t *testing.T) {
	e := newEnv()
	e.addAssignment(1, 9, time.Now().Add(time.Hour))
	submission, err := e.submission.Submit(1, 100, codeSubmit("小明"))
	require.NoError(t, err)

	// 未批改不能申请重做
	_, err = e.redo.RequestRedo(submission.ID, 100, "小明", "还没批就想重做")
	assert.ErrorIs(t, err, util.ErrNotReviewed)
}

func TestRequestRedoSinglePending(t *testing.T) {
	e := newEnv()
	submission := gradedSubmission(t, e, 70)

	_, err := e.redo.RequestRedo(submission.ID, 100, "小明", "第一次申请")
	require.NoError(t, err)

	// 状态闸门先挡住第二条申请
	_, err = e.redo.RequestRedo(submission.ID, 100, "小明", "第二次申请")
	assert.Error(t, err)

	pending, err := e.redos.FindPendingBySubmission(submission.ID)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, "第一次申请", pending.Reason)
}

func TestRequestRedoQuotaExceeded(t *testing.T) {
	e := newEnv()
	submission := gradedSubmission(t, e, 70)

	// 配额用尽后，无论当前处于什么状态都拒绝
	for _, state := range []model.SubmissionState{
		model.StateReviewed,
		model.StateSubmitted,
		model.StateRedoApproved,
	} {
		stored, err := e.subs.FindByID(submission.ID)
		require.NoError(t, err)
		stored.RedoCount = util.MaxRedoCount
		stored.State = state
		require.NoError(t, e.subs.Save(stored))

		_, err = e.redo.RequestRedo(submission.ID, 100, "小明", "再给一次机会")
		assert.ErrorIs(t, err, util.ErrRedoQuotaExceeded, "state %s", state)
	}
}

func TestDecideApprove(t *testing.T) {
	e := newEnv()
	submission := gradedSubmission(t, e, 70)
	request, err := e.redo.RequestRedo(submission.ID, 100, "小明", "误解了题目要求")
	require.NoError(t, err)

	decided, err := e.redo.Decide(request.ID, true, "同意，注意审题")
	require.NoError(t, err)

	assert.Equal(t, model.RedoApproved, decided.Decision)
	assert.Equal(t, "同意，注意审题", decided.TeacherComment)
	require.NotNil(t, decided.DecidedAt)

	updated, err := e.subs.FindByID(submission.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateRedoApproved, updated.State)
	assert.Nil(t, updated.Score)
	assert.Nil(t, updated.Comment)
	assert.Equal(t, 1, updated.RedoCount)

	event := e.notifier.last()
	assert.Equal(t, model.NotifyRedoApproved, event.Kind)
	assert.Equal(t, uint(100), event.RecipientID)
}

func TestDecideRejectKeepsOriginalGrade(t *testing.T) {
	e := newEnv()
	submission := gradedSubmission(t, e, 70)
	request, err := e.redo.RequestRedo(submission.ID, 100, "小明", "误解了题目要求")
	require.NoError(t, err)

	decided, err := e.redo.Decide(request.ID, false, "理由不充分")
	require.NoError(t, err)
	assert.Equal(t, model.RedoRejected, decided.Decision)

	updated, err := e.subs.FindByID(submission.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateReviewed, updated.State)
	require.NotNil(t, updated.Score)
	assert.Equal(t, 70, *updated.Score)
	require.NotNil(t, updated.Comment)
	assert.Equal(t, "原始评语", *updated.Comment)
	assert.Equal(t, 0, updated.RedoCount)

	event := e.notifier.last()
	assert.Equal(t, model.NotifyRedoRejected, event.Kind)
}

func TestDecideTwiceConflicts(t *testing.T) {
	e := newEnv()
	submission := gradedSubmission(t, e, 70)
	request, err := e.redo.RequestRedo(submission.ID, 100, "小明", "误解了题目要求")
	require.NoError(t, err)

	_, err = e.redo.Decide(request.ID, false, "")
	require.NoError(t, err)
	_, err = e.redo.Decide(request.ID, true, "")
	assert.ErrorIs(t, err, util.ErrRedoAlreadyDecided)
}

func TestRequestRedoStorageFailureLeavesNoTrace(t *testing.T) {
	e := newEnv()
	submission := gradedSubmission(t, e, 70)
	eventsBefore := len(e.notifier.kinds())

	boom := errors.New("存储故障")
	e.subs.setSaveError(boom)
	_, err := e.redo.RequestRedo(submission.ID, 100, "小明", "误解了题目要求")
	require.ErrorIs(t, err, boom)
	e.subs.setSaveError(nil)

	// 写失败后不能留下半截状态：没有 pending 申请，提交仍是 reviewed，也没有通知
	pending, err := e.redos.FindPendingBySubmission(submission.ID)
	require.NoError(t, err)
	assert.Nil(t, pending)

	unchanged, err := e.subs.FindByID(submission.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateReviewed, unchanged.State)
	assert.Len(t, e.notifier.kinds(), eventsBefore)

	// 故障恢复后申请照常
	_, err = e.redo.RequestRedo(submission.ID, 100, "小明", "误解了题目要求")
	require.NoError(t, err)
}

func TestDecideStorageFailureKeepsRequestPending(t *testing.T) {
	e := newEnv()
	submission := gradedSubmission(t, e, 70)
	request, err := e.redo.RequestRedo(submission.ID, 100, "小明", "误解了题目要求")
	require.NoError(t, err)
	eventsBefore := len(e.notifier.kinds())

	boom := errors.New("存储故障")
	e.subs.setSaveError(boom)
	_, err = e.redo.Decide(request.ID, true, "")
	require.ErrorIs(t, err, boom)
	e.subs.setSaveError(nil)

	// 裁决没写成，申请保持 pending，提交不流转，配额不计
	pending, err := e.redos.FindPendingBySubmission(submission.ID)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, model.RedoPending, pending.Decision)
	assert.Nil(t, pending.DecidedAt)

	unchanged, err := e.subs.FindByID(submission.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateRedoPending, unchanged.State)
	assert.Equal(t, 0, unchanged.RedoCount)
	assert.Len(t, e.notifier.kinds(), eventsBefore)

	// 恢复后同一条申请仍可裁决
	decided, err := e.redo.Decide(request.ID, true, "")
	require.NoError(t, err)
	assert.Equal(t, model.RedoApproved, decided.Decision)
}

func TestRequestRedoAssignmentGone(t *testing.T) {
	e := newEnv()
	submission := gradedSubmission(t, e, 70)
	e.catalog.remove(1)

	// 收件教师无从解析时整个申请失败，不落库也不发通知
	_, err := e.redo.RequestRedo(submission.ID, 100, "小明", "误解了题目要求")
	assert.ErrorIs(t, err, util.ErrAssignmentNotFound)

	pending, err := e.redos.FindPendingBySubmission(submission.ID)
	require.NoError(t, err)
	assert.Nil(t, pending)

	unchanged, err := e.subs.FindByID(submission.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateReviewed, unchanged.State)
}

func TestDecideAssignmentGoneStillNotifies(t *testing.T) {
	e := newEnv()
	submission := gradedSubmission(t, e, 70)
	request, err := e.redo.RequestRedo(submission.ID, 100, "小明", "误解了题目要求")
	require.NoError(t, err)

	// 作业目录缺失不阻塞裁决，通知用兜底标题照发
	e.catalog.remove(1)
	_, err = e.redo.Decide(request.ID, true, "")
	require.NoError(t, err)

	event := e.notifier.last()
	assert.Equal(t, model.NotifyRedoApproved, event.Kind)
	assert.Equal(t, "未知作业", event.AssignmentTitle)
}

func TestDecideUnknownRequest(t *testing.T) {
	e := newEnv()

	_, err := e.redo.Decide(404, true, "")
	assert.ErrorIs(t, err, util.ErrRedoRequestNotFound)
}

func TestFourthRedoRequestHitsQuota(t *testing.T) {
	e := newEnv()
	submission := gradedSubmission(t, e, 50)

	// 三轮完整的 申请→批准→重交→评分
	for i := 0; i < util.MaxRedoCount; i++ {
		request, err := e.redo.RequestRedo(submission.ID, 100, "小明", fmt.Sprintf("第 %d 次申请", i+1))
		require.NoError(t, err)
		_, err = e.redo.Decide(request.ID, true, "")
		require.NoError(t, err)
		_, err = e.submission.Submit(1, 100, codeSubmit("小明"))
		require.NoError(t, err)
		_, err = e.scoring.Grade(submission.ID, 60+i*10, "")
		require.NoError(t, err)
	}

	updated, err := e.subs.FindByID(submission.ID)
	require.NoError(t, err)
	assert.Equal(t, util.MaxRedoCount, updated.RedoCount)

	_, err = e.redo.RequestRedo(submission.ID, 100, "小明", "第 4 次申请")
	assert.ErrorIs(t, err, util.ErrRedoQuotaExceeded)
}

func TestRedoHistory(t *testing.T) {
	e := newEnv()
	submission := gradedSubmission(t, e, 70)

	request, err := e.redo.RequestRedo(submission.ID, 100, "小明", "第一次")
	require.NoError(t, err)
	_, err = e.redo.Decide(request.ID, false, "驳回")
	require.NoError(t, err)
	_, err = e.redo.RequestRedo(submission.ID, 100, "小明", "第二次")
	require.NoError(t, err)

	history, err := e.redo.History(submission.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.RedoRejected, history[0].Decision)
	assert.Equal(t, model.RedoPending, history[1].Decision)

	_, err = e.redo.History(404)
	assert.ErrorIs(t, err, util.ErrSubmissionNotFound)
}
