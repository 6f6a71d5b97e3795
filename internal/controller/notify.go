package controller

import (
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient, user-visible message.
type Notification struct {
	Level   Level
	Message string
	TaskID  string
	At      time.Time
}

// Notifier receives notifications as they are raised.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// NotificationLog records every notification in order.
type NotificationLog struct {
	mu    sync.Mutex
	items []Notification
}

func (l *NotificationLog) Notify(n Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, n)
}

// All returns a copy of the recorded notifications.
func (l *NotificationLog) All() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Notification(nil), l.items...)
}

// Last returns the most recent notification, if any.
func (l *NotificationLog) Last() (Notification, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.items) == 0 {
		return Notification{}, false
	}
	return l.items[len(l.items)-1], true
}
