package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vbonduro/plantcare/internal/ai"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// request types mirror the generateContent REST structure.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Client is an ai.Gateway backed by the Gemini generateContent API. The
// credential travels with every request; the client holds only models.
type Client struct {
	baseURL     string
	chatModel   string
	visionModel string
	client      *http.Client
}

// NewClient builds a Gemini gateway. An empty baseURL selects the public API.
func NewClient(baseURL, chatModel, visionModel string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		chatModel:   chatModel,
		visionModel: visionModel,
		client:      &http.Client{},
	}
}

func (c *Client) modelFor(capability ai.Capability) string {
	model := c.chatModel
	if capability == ai.CapabilityVision {
		model = c.visionModel
	}
	return strings.TrimPrefix(strings.TrimSpace(model), "models/")
}

func buildContents(req ai.Request) []content {
	parts := []part{{Text: req.Prompt}}
	if req.Image != nil {
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: req.Image.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(req.Image.Data),
		}})
	}
	return []content{{Role: "user", Parts: parts}}
}

func (c *Client) Invoke(ctx context.Context, req ai.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	model := c.modelFor(req.Capability)
	payload, err := json.Marshal(generateRequest{Contents: buildContents(req)})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", req.Credential)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", ai.Classify(fmt.Errorf("failed to call gemini: %w", err))
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close gemini response body", "error", err)
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", classifyStatus(resp)
	}

	var body generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", ai.Classify(fmt.Errorf("failed to decode gemini response: %w", err))
	}
	if body.PromptFeedback != nil && body.PromptFeedback.BlockReason != "" {
		return "", &ai.UpstreamError{Message: "request blocked: " + body.PromptFeedback.BlockReason}
	}
	return responseText(body), nil
}

// classifyStatus turns a non-2xx reply into a classified error.
func classifyStatus(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	var errResp errorResponse
	msg := resp.Status
	if json.Unmarshal(raw, &errResp) == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}
	if resp.StatusCode == http.StatusUnauthorized || errResp.Error.Status == "UNAUTHENTICATED" {
		return fmt.Errorf("%w: %s", ai.ErrInvalidCredential, msg)
	}
	return ai.Classify(fmt.Errorf("gemini api error: %s", msg))
}

// responseText joins the text parts of the first candidate. An empty result
// is not an error; the caller decides how to present it.
func responseText(body generateResponse) string {
	if len(body.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range body.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}
