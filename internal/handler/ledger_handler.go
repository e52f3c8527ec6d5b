package handler

import (
	"errors"
	"net/http"

	"event-organizer/internal/model"
	"event-organizer/internal/service"
	apperrors "event-organizer/pkg/app_errors"
	"event-organizer/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LedgerHandler struct {
	service service.LedgerService
}

func NewLedgerHandler(service service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

func (h *LedgerHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events/:id", h.GetEvent)
		router.GET("events/:id/owners/:account", h.GetOwnedTickets)
		router.GET("ledger/next-id", h.GetNextID)
	}

	// 異動操作都需要呼叫者身分
	authed := r.Group("/api/v1", RequireAccount())
	{
		authed.POST("events", h.CreateEvent)
		authed.POST("events/:id/purchases", h.BuyTicket)
		authed.POST("events/:id/transfers", h.TransferTicket)
	}
}

func (h *LedgerHandler) CreateEvent(c *gin.Context) {
	var req model.CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	id, err := h.service.CreateEvent(c, callerFrom(c), req)
	if err != nil {
		h.handleError(c, err, "CreateEvent")
		return
	}
	c.JSON(http.StatusCreated, model.CreateEventResponse{ID: id})
}

func (h *LedgerHandler) BuyTicket(c *gin.Context) {
	eventID, ok := ParamUint(c, "id")
	if !ok {
		return
	}
	var req model.BuyTicketRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.BuyTicket(c, callerFrom(c), eventID, req); err != nil {
		h.handleError(c, err, "BuyTicket")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LedgerHandler) TransferTicket(c *gin.Context) {
	eventID, ok := ParamUint(c, "id")
	if !ok {
		return
	}
	var req model.TransferTicketRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.TransferTicket(c, callerFrom(c), eventID, req); err != nil {
		h.handleError(c, err, "TransferTicket")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LedgerHandler) GetEvent(c *gin.Context) {
	eventID, ok := ParamUint(c, "id")
	if !ok {
		return
	}
	event, err := h.service.GetEvent(c, eventID)
	if err != nil {
		h.handleError(c, err, "GetEvent")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *LedgerHandler) GetOwnedTickets(c *gin.Context) {
	eventID, ok := ParamUint(c, "id")
	if !ok {
		return
	}
	account := model.Account(c.Param("account"))
	tickets, err := h.service.GetOwnedTickets(c, account, eventID)
	if err != nil {
		h.handleError(c, err, "GetOwnedTickets")
		return
	}
	c.JSON(http.StatusOK, model.OwnershipResponse{
		Account: account,
		EventID: eventID,
		Tickets: tickets,
	})
}

func (h *LedgerHandler) GetNextID(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"next_id": h.service.GetNextID(c)})
}

func (h *LedgerHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInvalidDate):
		log.Warn("Invalid date")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event date must be in the future"})
	case errors.Is(err, apperrors.ErrInvalidTicketCount):
		log.Warn("Invalid ticket count")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event needs at least one ticket"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case errors.Is(err, apperrors.ErrUnknownEvent):
		log.Warn("Unknown event")
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown event"})
	case errors.Is(err, apperrors.ErrIncorrectPayment):
		log.Warn("Incorrect payment")
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment does not match ticket cost"})
	case errors.Is(err, apperrors.ErrInsufficientTickets):
		log.Warn("Insufficient tickets")
		c.JSON(http.StatusConflict, gin.H{"error": "Not enough tickets remaining"})
	case errors.Is(err, apperrors.ErrInsufficientOwnedTickets):
		log.Warn("Insufficient owned tickets")
		c.JSON(http.StatusConflict, gin.H{"error": "Not enough owned tickets"})
	case errors.Is(err, apperrors.ErrMissingCaller):
		log.Warn("Missing caller")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing " + AccountHeader + " header"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
