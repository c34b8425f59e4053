package service_test

import (
	"time"

	"classwork_backend/internal/model"
	"classwork_backend/internal/service"
	"classwork_backend/internal/util"
)

// env 一套共享内存存储的完整工作流服务
type env struct {
	catalog  *fakeCatalog
	subs     *fakeSubmissionStore
	redos    *fakeRedoStore
	notifier *recordingNotifier

	submission *service.SubmissionService
	scoring    *service.ScoringService
	redo       *service.RedoService
}

func newEnv() *env {
	subs := newFakeSubmissionStore()
	e := &env{
		catalog:  newFakeCatalog(),
		subs:     subs,
		redos:    newFakeRedoStore(subs),
		notifier: &recordingNotifier{},
	}
	locks := util.NewKeyedMutex()
	e.submission = service.NewSubmissionService(e.subs, e.catalog, e.notifier, locks)
	e.scoring = service.NewScoringService(e.subs, e.catalog, e.notifier, locks)
	e.redo = service.NewRedoService(e.subs, e.redos, e.catalog, e.notifier, locks)
	return e
}

func (e *env) addAssignment(id, teacherID uint, deadline time.Time) {
	a := model.Assignment{
		Title:     "指针练习",
		TeacherID: teacherID,
		Deadline:  deadline,
	}
	a.ID = id
	e.catalog.add(a)
}

func codeSubmit(name string) service.SubmitRequest {
	return service.SubmitRequest{
		Kind:        model.PayloadCode,
		Files:       map[string]string{"main.c": "int main() { return 0; }"},
		StudentName: name,
	}
}

func docSubmit(name string) service.SubmitRequest {
	return service.SubmitRequest{
		Kind:        model.PayloadDocument,
		Text:        "读书报告正文",
		Attachments: []string{"attachments/report.pdf"},
		StudentName: name,
	}
}
