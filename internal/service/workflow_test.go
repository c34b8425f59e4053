package service_test

import (
	"sync"
	"testing"
	"time"

	"classwork_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 完整一轮：提交 → 评分70 → 申请重做 → 批准 → 重交 → 评分90
func TestFullRedoRoundTrip(t *testing.T) {
	e := newEnv()
	e.addAssignment(1, 9, time.Now().Add(time.Hour))

	submission, err := e.submission.Submit(1, 100, codeSubmit("小明"))
	require.NoError(t, err)

	_, err = e.scoring.Grade(submission.ID, 70, "有明显误解")
	require.NoError(t, err)

	request, err := e.redo.RequestRedo(submission.ID, 100, "小明", "误解了题目要求")
	require.NoError(t, err)

	_, err = e.redo.Decide(request.ID, true, "")
	require.NoError(t, err)

	_, err = e.submission.Submit(1, 100, docSubmit("小明"))
	require.NoError(t, err)

	final, err := e.scoring.Grade(submission.ID, 90, "这次好多了")
	require.NoError(t, err)

	assert.Equal(t, model.StateReviewed, final.State)
	require.NotNil(t, final.Score)
	assert.Equal(t, 90, *final.Score)
	assert.Equal(t, 1, final.RedoCount)

	assert.Equal(t, []model.NotificationKind{
		model.NotifySubmitted,
		model.NotifyGraded,
		model.NotifyRedoRequested,
		model.NotifyRedoApproved,
		model.NotifySubmitted,
		model.NotifyGraded,
	}, e.notifier.kinds())
}

// redoCount 单调不减且不超上限
func TestRedoCountMonotonic(t *testing.T) {
	e := newEnv()
	submission := gradedSubmission(t, e, 50)

	previous := 0
	for i := 0; i < 3; i++ {
		request, err := e.redo.RequestRedo(submission.ID, 100, "小明", "再来一轮")
		require.NoError(t, err)
		_, err = e.redo.Decide(request.ID, true, "")
		require.NoError(t, err)

		updated, err := e.subs.FindByID(submission.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, updated.RedoCount, previous)
		assert.LessOrEqual(t, updated.RedoCount, 3)
		previous = updated.RedoCount

		_, err = e.submission.Submit(1, 100, codeSubmit("小明"))
		require.NoError(t, err)
		_, err = e.scoring.Grade(submission.ID, 60, "")
		require.NoError(t, err)
	}
}

// 并发重做申请只有一条成功，pending 不会出现第二条
func TestConcurrentRedoRequests(t *testing.T) {
	e := newEnv()
	submission := gradedSubmission(t, e, 70)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.redo.RequestRedo(submission.ID, 100, "小明", "并发申请")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)

	pending, err := e.redos.FindPendingBySubmission(submission.ID)
	require.NoError(t, err)
	require.NotNil(t, pending)

	history, err := e.redo.History(submission.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

// 并发提交互不相同的学生各自成功
func TestConcurrentSubmitDistinctStudents(t *testing.T) {
	e := newEnv()
	e.addAssignment(1, 9, time.Now().Add(time.Hour))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(student uint) {
			defer wg.Done()
			_, err := e.submission.Submit(1, student, codeSubmit("学生"))
			assert.NoError(t, err)
		}(uint(200 + i))
	}
	wg.Wait()

	list, err := e.submission.ListByAssignment(1)
	require.NoError(t, err)
	assert.Len(t, list, 8)
}
