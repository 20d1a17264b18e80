package story

import (
	"context"
)

// NotificationLevel 通知级别
type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
	LevelInfo    NotificationLevel = "info"
)

// Notifier 面向用户的通知出口
// 不变式违反（如删除锁定实体）与自动保存失败均通过通知反馈，而非返回错误
type Notifier interface {
	Notify(ctx context.Context, level NotificationLevel, message string)
}

// NotifierFunc 函数适配器
type NotifierFunc func(ctx context.Context, level NotificationLevel, message string)

// Notify 实现 Notifier
func (f NotifierFunc) Notify(ctx context.Context, level NotificationLevel, message string) {
	f(ctx, level, message)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, NotificationLevel, string) {}

// NopNotifier 丢弃所有通知
var NopNotifier Notifier = nopNotifier{}
