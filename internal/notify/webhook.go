package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fjod/evermarket/internal/catalog"
	"github.com/fjod/evermarket/pkg/circuitbreaker"
)

// WebhookPoster announces new stores and products by POSTing to a
// configured social webhook. The breaker keeps a dead endpoint from
// slowing down store/product creation.
type WebhookPoster struct {
	url     string
	client  *http.Client
	breaker *circuitbreaker.Breaker
}

func NewWebhookPoster(url string) *WebhookPoster {
	return &WebhookPoster{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		breaker: circuitbreaker.New("social-webhook"),
	}
}

func (p *WebhookPoster) PostStore(ctx context.Context, store *catalog.Store) error {
	text := fmt.Sprintf("New Store Added!\n\nName: %s\nDescription: %s",
		store.Name, store.Description)
	return p.post(ctx, text)
}

func (p *WebhookPoster) PostProduct(ctx context.Context, product *catalog.Product, storeName string) error {
	text := fmt.Sprintf("New Product from %s!\n\nName: %s\nDescription: %s",
		storeName, product.Name, product.Description)
	return p.post(ctx, text)
}

func (p *WebhookPoster) post(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	return p.breaker.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}
		return nil
	})
}
