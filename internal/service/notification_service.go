package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"classwork_backend/internal/model"
	"classwork_backend/internal/util"
	"classwork_backend/pkg/logger"
	"classwork_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// WorkflowEvent 工作流事件，由各服务在状态变更落库后投递
type WorkflowEvent struct {
	Kind            model.NotificationKind
	RecipientID     uint
	RecipientRole   model.UserRole
	AssignmentTitle string
	StudentName     string
	Score           int
	Comment         string
	Reason          string
}

// NotificationService 把工作流事件转成站内通知
// 事件经带缓冲通道进入后台 worker 落库；队列满时退化为同步写，保证至少一次
type NotificationService struct {
	Repo   NotificationStore
	rdb    *redis.Client
	events chan WorkflowEvent
	stop   chan struct{}
	wg     sync.WaitGroup
}

const unreadCacheTTL = 5 * time.Minute

func NewNotificationService(repo NotificationStore, rdb *redis.Client) *NotificationService {
	return &NotificationService{
		Repo:   repo,
		rdb:    rdb,
		events: make(chan WorkflowEvent, 256),
		stop:   make(chan struct{}),
	}
}

// Run 启动投递 worker，随 app 生命周期运行
func (s *NotificationService) Run() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case event := <-s.events:
				s.deliver(event)
			case <-s.stop:
				// 退出前清空积压
				for {
					select {
					case event := <-s.events:
						s.deliver(event)
					default:
						return
					}
				}
			}
		}
	}()
}

func (s *NotificationService) Stop() {
	close(s.stop)
	s.wg.Wait()
}

// Emit 投递事件；队列满时同步落库，不阻塞调用方的事务路径
func (s *NotificationService) Emit(event WorkflowEvent) {
	select {
	case s.events <- event:
	default:
		s.deliver(event)
	}
}

func (s *NotificationService) deliver(event WorkflowEvent) {
	title, body := renderNotification(event)
	notification := &model.Notification{
		RecipientID:   event.RecipientID,
		RecipientRole: event.RecipientRole,
		Kind:          event.Kind,
		Title:         title,
		Body:          body,
	}

	if err := s.Repo.Create(notification); err != nil {
		// 通知是尽力而为，失败只记日志，不影响触发它的操作
		logger.Log.Error("notification delivery failed",
			zap.String("kind", string(event.Kind)),
			zap.Uint("recipient", event.RecipientID),
			zap.Error(err))
		return
	}

	monitoring.NotificationCounter.WithLabelValues(string(event.Kind)).Inc()
	s.invalidateUnreadCache(event.RecipientID, event.RecipientRole)
}

// renderNotification 按事件类型渲染标题与正文
func renderNotification(event WorkflowEvent) (string, string) {
	switch event.Kind {
	case model.NotifySubmitted:
		return "收到新提交",
			fmt.Sprintf("%s 提交了作业《%s》，请及时批改。", event.StudentName, event.AssignmentTitle)
	case model.NotifyGraded:
		body := fmt.Sprintf("你的作业《%s》已批改，得分 %d。", event.AssignmentTitle, event.Score)
		if event.Comment != "" {
			body += "评语：" + event.Comment
		}
		return "作业已批改", body
	case model.NotifyRedoRequested:
		return "收到重做申请",
			fmt.Sprintf("%s 对作业《%s》提出重做申请：%s", event.StudentName, event.AssignmentTitle, event.Reason)
	case model.NotifyRedoApproved:
		body := fmt.Sprintf("你对作业《%s》的重做申请已通过，可以重新提交。", event.AssignmentTitle)
		if event.Comment != "" {
			body += "教师留言：" + event.Comment
		}
		return "重做申请已通过", body
	case model.NotifyRedoRejected:
		body := fmt.Sprintf("你对作业《%s》的重做申请被驳回，原成绩保持不变。", event.AssignmentTitle)
		if event.Comment != "" {
			body += "教师留言：" + event.Comment
		}
		return "重做申请被驳回", body
	}
	return string(event.Kind), ""
}

func (s *NotificationService) ListFor(recipientID uint, role model.UserRole) ([]model.Notification, error) {
	return s.Repo.ListForRecipient(recipientID, role)
}

// MarkRead 幂等：重复标记已读直接返回成功
func (s *NotificationService) MarkRead(id uint, recipientID uint, role model.UserRole) (*model.Notification, error) {
	notification, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if notification.RecipientID != recipientID || notification.RecipientRole != role {
		return nil, util.ErrPermissionDenied
	}
	if notification.IsRead {
		return notification, nil
	}
	if err := s.Repo.MarkRead(notification); err != nil {
		return nil, err
	}
	notification.IsRead = true
	s.invalidateUnreadCache(recipientID, role)
	return notification, nil
}

// UnreadCount 未读数，redis 缓存 5 分钟，写路径失效
func (s *NotificationService) UnreadCount(recipientID uint, role model.UserRole) (int64, error) {
	key := unreadCacheKey(recipientID, role)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(context.Background(), key).Int64(); err == nil {
			return cached, nil
		}
	}

	count, err := s.Repo.CountUnread(recipientID, role)
	if err != nil {
		return 0, err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(context.Background(), key, count, unreadCacheTTL).Err(); err != nil {
			logger.Log.Warn("unread cache set failed", zap.Error(err))
		}
	}
	return count, nil
}

func (s *NotificationService) invalidateUnreadCache(recipientID uint, role model.UserRole) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(context.Background(), unreadCacheKey(recipientID, role)).Err(); err != nil {
		logger.Log.Warn("unread cache invalidation failed", zap.Error(err))
	}
}

func unreadCacheKey(recipientID uint, role model.UserRole) string {
	return fmt.Sprintf("classwork:unread:%s:%d", role, recipientID)
}
