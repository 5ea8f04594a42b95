package stub

import (
	"context"
	"sync"

	"github.com/vbonduro/plantcare/internal/ai"
)

// ChatReply is the canned care guide returned for chat requests.
const ChatReply = ai.GlyphPin + ` CARE GUIDE: General Houseplant Care

BASIC NEEDS:
` + ai.GlyphBullet + ` Water: When the top inch of soil is dry
` + ai.GlyphBullet + ` Light: Bright, indirect light
` + ai.GlyphBullet + ` Temperature: 18-27°C

STEP-BY-STEP:
1. Check soil moisture with a finger
2. Water thoroughly until it drains
3. Empty the saucer after watering

IMPORTANT:
` + ai.GlyphWarning + ` Never let roots sit in water
` + ai.GlyphCheck + ` Most plants prefer slightly dry soil`

// VisionReply is the canned fenced diagnosis returned for vision requests.
const VisionReply = "```json\n" + `{
  "diseaseName": "Healthy",
  "confidence": "High",
  "severity": "None",
  "description": "The leaf shows no signs of disease.",
  "symptoms": [],
  "causes": [],
  "treatment": [],
  "prevention": ["Keep watering consistent"]
}` + "\n```"

// Gateway is an offline ai.Gateway used in test mode and unit tests. Reply
// and Err override the canned responses when set.
type Gateway struct {
	mu    sync.Mutex
	Reply string
	Err   error
	calls []ai.Request
}

func New() *Gateway {
	return &Gateway{}
}

func (g *Gateway) Invoke(ctx context.Context, req ai.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)

	if err := ctx.Err(); err != nil {
		return "", &ai.UpstreamError{Message: err.Error()}
	}
	if g.Err != nil {
		return "", g.Err
	}
	if g.Reply != "" {
		return g.Reply, nil
	}
	if req.Capability == ai.CapabilityVision {
		return VisionReply, nil
	}
	return ChatReply, nil
}

// Calls returns the requests that passed validation, in order.
func (g *Gateway) Calls() []ai.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ai.Request, len(g.calls))
	copy(out, g.calls)
	return out
}

// Set replaces the canned reply and error.
func (g *Gateway) Set(reply string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Reply = reply
	g.Err = err
}
