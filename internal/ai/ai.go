package ai

import (
	"context"
	"strings"
)

// Capability selects which external AI operation a request invokes.
type Capability string

const (
	CapabilityChat   Capability = "chat"
	CapabilityVision Capability = "vision"
)

// Image is an inlined image payload for vision requests.
type Image struct {
	Data     []byte
	MIMEType string
}

// Request is a single gateway invocation. Credential is held by the caller
// and is never stored by an adapter.
type Request struct {
	Capability Capability
	Credential string
	Prompt     string
	Image      *Image
}

// Validate checks a request locally so adapters can short-circuit before any
// network call.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Credential) == "" {
		return ErrMissingCredential
	}
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrEmptyInput
	}
	if r.Capability == CapabilityVision && (r.Image == nil || len(r.Image.Data) == 0) {
		return ErrEmptyInput
	}
	return nil
}

// Gateway sends a prompt (and optional image) to the external model and
// returns its raw text. Implementations make exactly one attempt per call and
// return errors classified with Classify.
type Gateway interface {
	Invoke(ctx context.Context, req Request) (string, error)
}
