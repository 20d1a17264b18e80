package studio

import (
	"context"
	"sync"
	"time"

	"veo-story-studio/internal/application/story"
	"veo-story-studio/pkg/logger"
)

// Notification 面向用户的提示
type Notification struct {
	Seq       uint64                  `json:"seq"`
	Level     story.NotificationLevel `json:"level"`
	Message   string                  `json:"message"`
	CreatedAt time.Time               `json:"createdAt"`
}

// NotificationLog 保存最近的通知（环形缓冲），同时写入日志
type NotificationLog struct {
	mu    sync.RWMutex
	buf   []Notification
	next  int
	full  bool
	seq   uint64
	clock func() time.Time
}

// NewNotificationLog 创建容量为 size 的通知记录
func NewNotificationLog(size int) *NotificationLog {
	if size <= 0 {
		size = 100
	}
	return &NotificationLog{buf: make([]Notification, size), clock: time.Now}
}

// Notify 实现 story.Notifier
func (l *NotificationLog) Notify(ctx context.Context, level story.NotificationLevel, message string) {
	l.mu.Lock()
	l.seq++
	l.buf[l.next] = Notification{Seq: l.seq, Level: level, Message: message, CreatedAt: l.clock()}
	l.next = (l.next + 1) % len(l.buf)
	if l.next == 0 {
		l.full = true
	}
	l.mu.Unlock()

	if level == story.LevelError {
		logger.Warn(ctx, "notification", "level", string(level), "message", message)
		return
	}
	logger.Info(ctx, "notification", "level", string(level), "message", message)
}

// Since 返回序号大于 after 的通知，按时间正序
func (l *NotificationLog) Since(after uint64) []Notification {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Notification, 0)
	for _, n := range l.ordered() {
		if n.Seq > after {
			out = append(out, n)
		}
	}
	return out
}

// Last 最近一条通知
func (l *NotificationLog) Last() (Notification, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.seq == 0 {
		return Notification{}, false
	}
	idx := (l.next - 1 + len(l.buf)) % len(l.buf)
	return l.buf[idx], true
}

func (l *NotificationLog) ordered() []Notification {
	if !l.full {
		return append([]Notification(nil), l.buf[:l.next]...)
	}
	out := make([]Notification, 0, len(l.buf))
	out = append(out, l.buf[l.next:]...)
	return append(out, l.buf[:l.next]...)
}

var _ story.Notifier = (*NotificationLog)(nil)
