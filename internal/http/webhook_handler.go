package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nyeemonkham-stack/rta-library-webapp/internal/models"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/repository"
)

// ApprovalStore is the record-store surface the webhook needs.
type ApprovalStore interface {
	FindApprovedByHandle(ctx context.Context, username string) (*models.SubscriptionProfile, error)
}

// JoinRequestNotifier answers channel join requests on the messaging platform.
type JoinRequestNotifier interface {
	ApproveJoinRequest(ctx context.Context, chatID, userID int64) error
	DeclineJoinRequest(ctx context.Context, chatID, userID int64) error
}

// WebhookHandler reacts to Telegram channel join requests: a request from a
// user whose handle matches an approved subscription is accepted, everyone
// else is declined. It talks to the core only through the record store's
// status column.
type WebhookHandler struct {
	records  ApprovalStore
	notifier JoinRequestNotifier
}

func NewWebhookHandler(records ApprovalStore, notifier JoinRequestNotifier) *WebhookHandler {
	return &WebhookHandler{records: records, notifier: notifier}
}

// HandleTelegramUpdate processes an inbound Bot API update.
func (h *WebhookHandler) HandleTelegramUpdate(c *gin.Context) {
	var update models.TelegramUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// other update kinds are acknowledged and dropped
	if update.ChatJoinRequest == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	req := update.ChatJoinRequest
	ctx := c.Request.Context()

	// no username means no way to match a subscription
	if req.From.Username == "" {
		h.decline(c, ctx, req)
		return
	}

	_, err := h.records.FindApprovedByHandle(ctx, req.From.Username)
	switch {
	case err == nil:
		if err := h.notifier.ApproveJoinRequest(ctx, req.Chat.ID, req.From.ID); err != nil {
			log.Printf("[Webhook] Approve failed for @%s: %v", req.From.Username, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "approve failed"})
			return
		}
		log.Printf("[Webhook] Approved join request for @%s", req.From.Username)
		c.JSON(http.StatusOK, gin.H{"status": "approved"})

	case errors.Is(err, repository.ErrNotFound):
		h.decline(c, ctx, req)

	default:
		log.Printf("[Webhook] Lookup failed for @%s: %v", req.From.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
	}
}

func (h *WebhookHandler) decline(c *gin.Context, ctx context.Context, req *models.ChatJoinRequest) {
	if err := h.notifier.DeclineJoinRequest(ctx, req.Chat.ID, req.From.ID); err != nil {
		log.Printf("[Webhook] Decline failed for @%s: %v", req.From.Username, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "decline failed"})
		return
	}
	log.Printf("[Webhook] Declined join request for @%s", req.From.Username)
	c.JSON(http.StatusOK, gin.H{"status": "declined"})
}
