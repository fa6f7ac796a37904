package assist

import (
	"context"
	"fmt"
	"sync"

	"github.com/Morwran/yagpt"
)

// YandexCompleter talks to YandexGPT. The IAM token is exchanged from the
// OAuth token on first use and reused afterwards.
type YandexCompleter struct {
	oauthToken string
	folderID   string

	mu       sync.Mutex
	ya       yagpt.YaGPTFace
	iamToken string
}

// NewYandex builds a completer for folderID. No network call is made until
// the first Complete.
func NewYandex(oauthToken, folderID string) *YandexCompleter {
	return &YandexCompleter{oauthToken: oauthToken, folderID: folderID}
}

// client returns the cached client, building it on first use. The network
// calls run under ctx and outside c.mu; when two calls race, the first
// stored client wins.
func (c *YandexCompleter) client(ctx context.Context) (yagpt.YaGPTFace, string, error) {
	c.mu.Lock()
	ya, token := c.ya, c.iamToken
	c.mu.Unlock()
	if ya != nil {
		return ya, token, nil
	}

	iam, err := yagpt.NewYaIamWithCtx(ctx, c.oauthToken)
	if err != nil {
		return nil, "", fmt.Errorf("failed to init yandex iam: %w", err)
	}
	resp, err := iam.CreateWithCtx(ctx)
	_ = iam.Close()
	if err != nil {
		return nil, "", fmt.Errorf("failed to create iam token: %w", err)
	}
	ya, err = yagpt.NewYagptWithCtx(ctx, c.folderID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to init yagpt: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ya == nil {
		c.ya, c.iamToken = ya, resp.IamToken
	}
	return c.ya, c.iamToken, nil
}

// Complete implements Completer.
func (c *YandexCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	ya, token, err := c.client(ctx)
	if err != nil {
		return "", err
	}
	resp, err := ya.CompletionWithCtx(ctx, token, []yagpt.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("yagpt completion failed: %w", err)
	}
	if resp == nil || len(resp.Alternatives) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Alternatives[0].Message.Content, nil
}
