// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/charforge/internal/services/notify"
	notifymock "github.com/KirkDiggler/charforge/internal/services/notify/mock"
)

// Notifications records what a MockNotifier was asked to deliver
type Notifications struct {
	mu  sync.Mutex
	got []*notify.Notification
}

// All returns every captured notification in delivery order
func (n *Notifications) All() []*notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*notify.Notification(nil), n.got...)
}

// Last returns the most recent notification or nil
func (n *Notifications) Last() *notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.got) == 0 {
		return nil
	}
	return n.got[len(n.got)-1]
}

func (n *Notifications) add(in *notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, in)
}

// ExpectNotifications expects count notifications of kind and captures them
func ExpectNotifications(m *notifymock.MockNotifier, kind notify.Kind, count int) *Notifications {
	captured := &Notifications{}
	m.EXPECT().
		Notify(gomock.Any(), KindMatcher(kind)).
		Do(func(_ context.Context, n *notify.Notification) { captured.add(n) }).
		Times(count)
	return captured
}

// KindMatcher matches a *notify.Notification by kind
func KindMatcher(kind notify.Kind) gomock.Matcher {
	return kindMatcher{kind: kind}
}

type kindMatcher struct {
	kind notify.Kind
}

func (m kindMatcher) Matches(x any) bool {
	n, ok := x.(*notify.Notification)
	return ok && n != nil && n.Kind == m.kind
}

func (m kindMatcher) String() string {
	return fmt.Sprintf("notification of kind %s", m.kind)
}
