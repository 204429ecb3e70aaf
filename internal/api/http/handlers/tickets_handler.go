package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parking-ticket-service/internal/api/dto"
	"github.com/spec-kit/parking-ticket-service/internal/auth"
	"github.com/spec-kit/parking-ticket-service/internal/service"
	apperrors "github.com/spec-kit/parking-ticket-service/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create handles POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("No token, authorization denied")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid payload")
	}
	if req.VehicleNumber == "" || req.Amount == nil {
		return apperrors.NewValidationError("Please provide vehicle number and amount")
	}

	ticket, err := h.service.Create(c.UserContext(), principal, req.VehicleNumber, *req.Amount)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTicketResponse(ticket))
}

// MyTickets handles GET /tickets/my-tickets.
func (h *TicketsHandler) MyTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("No token, authorization denied")
	}
	tickets, err := h.service.ListForOwner(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets))
}

// Collections handles GET /tickets/collections (admin only).
func (h *TicketsHandler) Collections(c *fiber.Ctx) error {
	tickets, err := h.service.Collections(c.UserContext(),
		c.Query("startDate"),
		c.Query("endDate"),
		c.Query("userEmail"),
	)
	if err != nil {
		return err
	}
	return c.JSON(dto.TicketListResponse{Tickets: dto.NewTicketResponses(tickets)})
}

// GetByVehicleNumber handles GET /tickets/:vehicleNumber.
func (h *TicketsHandler) GetByVehicleNumber(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("No token, authorization denied")
	}
	ticket, err := h.service.GetByVehicleNumber(c.UserContext(), principal, c.Params("vehicleNumber"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}
