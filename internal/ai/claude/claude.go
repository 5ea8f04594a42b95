package claude

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/plantcare/internal/ai"
)

const (
	defaultModel = "claude-3-5-sonnet-20241022"
	maxTokens    = 2048
)

// Client is an ai.Gateway backed by the Anthropic Messages API. A fresh SDK
// client is built per call because the credential belongs to the caller.
type Client struct {
	model   string
	baseURL string
}

func NewClient(model string) *Client {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{model: model}
}

func (c *Client) sdk(credential string) *anthropic.Client {
	if c.baseURL != "" {
		return anthropic.NewClient(credential, anthropic.WithBaseURL(c.baseURL))
	}
	return anthropic.NewClient(credential)
}

// normaliseMIME maps MIME types to the values accepted by the Claude API.
// The API accepts: image/jpeg, image/png, image/gif, image/webp.
func normaliseMIME(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/jpg":
		return "image/jpeg"
	case "image/png", "image/gif", "image/webp":
		return strings.ToLower(mimeType)
	default:
		return "image/jpeg"
	}
}

func buildMessages(req ai.Request) []anthropic.Message {
	var content []anthropic.MessageContent
	if req.Image != nil {
		content = append(content, anthropic.MessageContent{
			Type: anthropic.MessagesContentTypeImage,
			Source: &anthropic.MessageContentSource{
				Type:      anthropic.MessagesContentSourceTypeBase64,
				MediaType: normaliseMIME(req.Image.MIMEType),
				Data:      base64.StdEncoding.EncodeToString(req.Image.Data),
			},
		})
	}
	content = append(content, anthropic.NewTextMessageContent(req.Prompt))
	return []anthropic.Message{{Role: anthropic.RoleUser, Content: content}}
}

func (c *Client) Invoke(ctx context.Context, req ai.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	resp, err := c.sdk(req.Credential).CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages:  buildMessages(req),
	})
	if err != nil {
		return "", classify(err)
	}

	var sb strings.Builder
	for _, blk := range resp.Content {
		if blk.Type == anthropic.MessagesContentTypeText && blk.Text != nil {
			sb.WriteString(*blk.Text)
		}
	}
	return sb.String(), nil
}

func classify(err error) error {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		switch string(apiErr.Type) {
		case "authentication_error", "permission_error":
			return fmt.Errorf("%w: %s", ai.ErrInvalidCredential, apiErr.Message)
		}
		return &ai.UpstreamError{Message: apiErr.Message}
	}
	return ai.Classify(fmt.Errorf("failed to call claude: %w", err))
}
