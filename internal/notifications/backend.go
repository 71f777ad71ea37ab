package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/gateway"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/models"
)

// BackendFetcher reads and writes notification state through the gateway
// client on behalf of one authenticated session.
type BackendFetcher struct {
	client *gateway.Client
	token  string
}

func NewBackendFetcher(client *gateway.Client, bearerToken string) *BackendFetcher {
	return &BackendFetcher{client: client, token: bearerToken}
}

func (f *BackendFetcher) headers() http.Header {
	h := http.Header{}
	h.Set("Authorization", f.token)
	return h
}

func (f *BackendFetcher) UnreadCount(ctx context.Context) (int, error) {
	resp, err := f.client.Do(ctx, gateway.Call{
		Method:  http.MethodGet,
		Path:    "/notifications/unread-count",
		Headers: f.headers(),
	})
	if err != nil {
		return 0, err
	}
	if !resp.OK() {
		return 0, fmt.Errorf("unread-count: backend status %d", resp.StatusCode)
	}
	var payload models.UnreadCount
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return 0, fmt.Errorf("unread-count: decode: %w", err)
	}
	return payload.Count, nil
}

func (f *BackendFetcher) List(ctx context.Context) ([]models.Notification, error) {
	resp, err := f.client.Do(ctx, gateway.Call{
		Method:  http.MethodGet,
		Path:    "/notifications",
		Headers: f.headers(),
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("notifications: backend status %d", resp.StatusCode)
	}
	var items []models.Notification
	if err := json.Unmarshal(resp.Body, &items); err != nil {
		return nil, fmt.Errorf("notifications: decode: %w", err)
	}
	return items, nil
}

func (f *BackendFetcher) MarkRead(ctx context.Context, id string) error {
	resp, err := f.client.Do(ctx, gateway.Call{
		Method:  http.MethodPost,
		Path:    "/notifications/" + id + "/read",
		Headers: f.headers(),
	})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("mark read: backend status %d", resp.StatusCode)
	}
	return nil
}

func (f *BackendFetcher) MarkAllRead(ctx context.Context) error {
	resp, err := f.client.Do(ctx, gateway.Call{
		Method:  http.MethodPost,
		Path:    "/notifications/read-all",
		Headers: f.headers(),
	})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("mark all read: backend status %d", resp.StatusCode)
	}
	return nil
}
