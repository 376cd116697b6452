package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyeemonkham-stack/rta-library-webapp/internal/models"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/repository"
)

type fakeApprovalStore struct {
	approved map[string]*models.SubscriptionProfile
	err      error
}

func (f *fakeApprovalStore) FindApprovedByHandle(ctx context.Context, username string) (*models.SubscriptionProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	for handle, p := range f.approved {
		if strings.Contains(strings.ToLower(handle), strings.ToLower(username)) {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeNotifier struct {
	approved []int64
	declined []int64
	err      error
}

func (f *fakeNotifier) ApproveJoinRequest(ctx context.Context, chatID, userID int64) error {
	if f.err != nil {
		return f.err
	}
	f.approved = append(f.approved, userID)
	return nil
}

func (f *fakeNotifier) DeclineJoinRequest(ctx context.Context, chatID, userID int64) error {
	if f.err != nil {
		return f.err
	}
	f.declined = append(f.declined, userID)
	return nil
}

func webhookRouter(store *fakeApprovalStore, notifier *fakeNotifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewWebhookHandler(store, notifier)
	r.POST("/api/webhook/telegram", h.HandleTelegramUpdate)
	return r
}

func postUpdate(t *testing.T, r *gin.Engine, update models.TelegramUpdate) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	body, err := json.Marshal(update)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook/telegram", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func joinRequest(username string) models.TelegramUpdate {
	return models.TelegramUpdate{
		UpdateID: 1,
		ChatJoinRequest: &models.ChatJoinRequest{
			Chat: models.TelegramChat{ID: -100555, Title: "Interior Models"},
			From: models.TelegramUser{ID: 77, Username: username},
		},
	}
}

func TestWebhookApprovesKnownSubscriber(t *testing.T) {
	store := &fakeApprovalStore{approved: map[string]*models.SubscriptionProfile{
		"@thiriwin": {ID: "rec-1", ApprovalStatus: models.StatusApproved},
	}}
	notifier := &fakeNotifier{}
	r := webhookRouter(store, notifier)

	w, resp := postUpdate(t, r, joinRequest("thiriwin"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "approved", resp["status"])
	assert.Equal(t, []int64{77}, notifier.approved)
	assert.Empty(t, notifier.declined)
}

func TestWebhookDeclinesUnknownSubscriber(t *testing.T) {
	store := &fakeApprovalStore{}
	notifier := &fakeNotifier{}
	r := webhookRouter(store, notifier)

	w, resp := postUpdate(t, r, joinRequest("stranger"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "declined", resp["status"])
	assert.Equal(t, []int64{77}, notifier.declined)
}

func TestWebhookDeclinesMissingUsername(t *testing.T) {
	store := &fakeApprovalStore{approved: map[string]*models.SubscriptionProfile{
		"@thiriwin": {ID: "rec-1"},
	}}
	notifier := &fakeNotifier{}
	r := webhookRouter(store, notifier)

	w, resp := postUpdate(t, r, joinRequest(""))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "declined", resp["status"])
}

func TestWebhookIgnoresOtherUpdates(t *testing.T) {
	notifier := &fakeNotifier{}
	r := webhookRouter(&fakeApprovalStore{}, notifier)

	w, resp := postUpdate(t, r, models.TelegramUpdate{UpdateID: 2})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ignored", resp["status"])
	assert.Empty(t, notifier.approved)
	assert.Empty(t, notifier.declined)
}

func TestWebhookLookupFailure(t *testing.T) {
	store := &fakeApprovalStore{err: errors.New("db down")}
	r := webhookRouter(store, &fakeNotifier{})

	w, _ := postUpdate(t, r, joinRequest("thiriwin"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhookNotifierFailure(t *testing.T) {
	store := &fakeApprovalStore{approved: map[string]*models.SubscriptionProfile{
		"@thiriwin": {ID: "rec-1"},
	}}
	notifier := &fakeNotifier{err: errors.New("bot api down")}
	r := webhookRouter(store, notifier)

	w, _ := postUpdate(t, r, joinRequest("thiriwin"))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
