package service

import (
	"context"
	"testing"

	"github.com/spec-kit/itsm-console/internal/domain"
	"github.com/spec-kit/itsm-console/pkg/util"
)

func seedNotifications(t *testing.T, repo *fakeNotificationRepo) {
	t.Helper()
	for _, n := range []domain.Notification{
		{Type: "newIncident", RecipientType: domain.RecipientAdmin, Message: "admin 1"},
		{Type: "incidentOpened", RecipientType: domain.RecipientUser, Message: "user 1"},
		{Type: "newNote", RecipientType: domain.RecipientUser, Message: "user 2"},
	} {
		seeded := n
		if err := repo.Create(context.Background(), &seeded); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestListByAudience_RequiresRecipient(t *testing.T) {
	svc := NewNotificationService(NotificationDependencies{NotificationRepo: &fakeNotificationRepo{}})
	_, err := svc.ListByAudience(context.Background(), "")
	if de := domainErr(t, err); de.Code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", de.Code)
	}
}

func TestListByAudience_AdminSeesUnion(t *testing.T) {
	repo := &fakeNotificationRepo{}
	seedNotifications(t, repo)
	svc := NewNotificationService(NotificationDependencies{NotificationRepo: repo})

	adminView, err := svc.ListByAudience(context.Background(), domain.RecipientAdmin)
	if err != nil {
		t.Fatalf("list admin: %v", err)
	}
	if len(adminView) != 3 {
		t.Fatalf("admin sees %d, want union of 3", len(adminView))
	}

	userView, err := svc.ListByAudience(context.Background(), domain.RecipientUser)
	if err != nil {
		t.Fatalf("list user: %v", err)
	}
	if len(userView) != 2 {
		t.Fatalf("user sees %d, want 2", len(userView))
	}
	for _, n := range userView {
		if n.RecipientType != domain.RecipientUser {
			t.Fatalf("user view leaked %s notification", n.RecipientType)
		}
	}
}

func TestMarkRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	seedNotifications(t, repo)
	svc := NewNotificationService(NotificationDependencies{NotificationRepo: repo})

	if err := svc.MarkRead(context.Background(), repo.created[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if repo.created[0].Status != domain.NotificationRead {
		t.Fatalf("status = %s, want read", repo.created[0].Status)
	}

	err := svc.MarkRead(context.Background(), "missing")
	if de := domainErr(t, err); de.HTTPStatus != 404 {
		t.Fatalf("status = %d, want 404", de.HTTPStatus)
	}
}

func TestUnreadCount_RequiresRecipient(t *testing.T) {
	svc := NewNotificationService(NotificationDependencies{NotificationRepo: &fakeNotificationRepo{}})
	_, err := svc.UnreadCount(context.Background(), "")
	if _, ok := err.(*util.DomainError); !ok {
		t.Fatalf("expected DomainError, got %v", err)
	}
}

func TestUnreadCount_FallsBackToStore(t *testing.T) {
	repo := &fakeNotificationRepo{}
	seedNotifications(t, repo)
	svc := NewNotificationService(NotificationDependencies{NotificationRepo: repo})

	count, err := svc.UnreadCount(context.Background(), domain.RecipientAdmin)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}
