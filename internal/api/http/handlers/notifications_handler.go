package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/itsm-console/internal/api/dto"
	"github.com/spec-kit/itsm-console/internal/domain"
	"github.com/spec-kit/itsm-console/internal/service"
	apperrors "github.com/spec-kit/itsm-console/pkg/util"
)

// NotificationsHandler serves the polling endpoints.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// List GET /?recipientType=admin|user.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	recipient := c.Query("recipientType")
	if recipient == "" {
		return apperrors.NewValidationError("recipientType query parameter is required", nil)
	}

	items, err := h.service.ListByAudience(c.UserContext(), domain.RecipientType(recipient))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromNotifications(items))
}

// MarkRead PATCH /:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.service.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.AckResponse{Message: "Notification marked as read."})
}

// UnreadCount GET /unread-count?recipientType=admin|user.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	recipient := c.Query("recipientType")
	if recipient == "" {
		return apperrors.NewValidationError("recipientType query parameter is required", nil)
	}

	count, err := h.service.UnreadCount(c.UserContext(), domain.RecipientType(recipient))
	if err != nil {
		return err
	}
	return c.JSON(dto.UnreadCountResponse{RecipientType: recipient, Unread: count})
}
