package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/itsm-console/internal/api/dto"
	"github.com/spec-kit/itsm-console/internal/auth"
	"github.com/spec-kit/itsm-console/internal/domain"
	"github.com/spec-kit/itsm-console/internal/service"
	apperrors "github.com/spec-kit/itsm-console/pkg/util"
)

// TicketsHandler serves one ticket kind. The incident and
// service-request route groups each get their own instance bound to the
// matching service; the behavior is identical apart from the payloads.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create POST /.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var input service.CreateTicketInput

	if h.service.Kind().Kind == domain.KindServiceRequest {
		var req dto.CreateServiceRequestRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		input = service.CreateTicketInput{
			HumanID:        req.RequestID,
			TenantID:       req.TenantID,
			CreatedBy:      req.CreatedBy,
			ReporterEmail:  req.ReporterEmail,
			DBName:         req.DBName,
			IP:             req.IP,
			Permission:     req.Permission,
			AdminName:      req.AdminName,
			AdditionalInfo: req.AdditionalInfo,
		}
	} else {
		var req dto.CreateIncidentRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		input = service.CreateTicketInput{
			HumanID:       req.IncidentID,
			TenantID:      req.TenantID,
			CreatedBy:     req.CreatedBy,
			ReporterEmail: req.ReporterEmail,
			Summary:       req.Summary,
			Description:   req.Description,
			Urgency:       req.Urgency,
		}
	}

	ticket, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromTicket(ticket))
}

// View GET /view/:id. Reading a logged ticket flips it to opened.
func (h *TicketsHandler) View(c *fiber.Ctx) error {
	ticket, err := h.service.View(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicketView(ticket))
}

// Get GET /:id. Plain read without the auto-open side effect.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// AddNote POST /notes/:id.
func (h *TicketsHandler) AddNote(c *fiber.Ctx) error {
	var req dto.AddNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	role := req.Role
	if role == "" {
		if principal, ok := auth.PrincipalFromContext(c); ok {
			role = string(principal.Role)
		}
	}

	if _, err := h.service.AddNote(c.UserContext(), c.Params("id"), req.Text, req.AddedBy, req.AddedByEmail, role); err != nil {
		return err
	}
	return c.JSON(dto.AckResponse{Message: "Note added successfully."})
}

// Edit PUT /edit/:id.
func (h *TicketsHandler) Edit(c *fiber.Ctx) error {
	var req dto.EditTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Edit(c.UserContext(), c.Params("id"), req.Patch(), actorEmail(c, req.AddedByEmail))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// Resolve PUT /action/:id.
func (h *TicketsHandler) Resolve(c *fiber.Ctx) error {
	var req dto.ResolveTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Resolve(c.UserContext(), c.Params("id"), req.Action, actorEmail(c, req.AddedByEmail))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// ListAll GET /all (admin dashboard view).
func (h *TicketsHandler) ListAll(c *fiber.Ctx) error {
	tickets, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTickets(tickets))
}

// ListByPrefix GET /user/id/:handle.
func (h *TicketsHandler) ListByPrefix(c *fiber.Ctx) error {
	tickets, err := h.service.ListByCreatorPrefix(c.UserContext(), c.Params("handle"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTickets(tickets))
}

// ListByCreator GET /user/name/:nameOrEmail.
func (h *TicketsHandler) ListByCreator(c *fiber.Ctx) error {
	tickets, err := h.service.ListByCreator(c.UserContext(), c.Params("nameOrEmail"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTickets(tickets))
}

// actorEmail prefers the authenticated principal's email and falls back
// to the one supplied in the body.
func actorEmail(c *fiber.Ctx, fallback string) string {
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.Email != "" {
		return principal.Email
	}
	return fallback
}
