package ai

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrMalformedResponse = errors.New("malformed response")
	ErrEmptyInput        = errors.New("empty input")
)

// UpstreamError is any other failure reported by, or on the way to, the AI
// service.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return "upstream error: " + e.Message
}

// credentialSignatures are lower-cased fragments that identify an upstream
// credential rejection.
var credentialSignatures = []string{"api key", "api_key", "api-key"}

// Classify maps a raw adapter failure onto the error taxonomy. Errors that are
// already classified pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrMissingCredential),
		errors.Is(err, ErrInvalidCredential),
		errors.Is(err, ErrMalformedResponse),
		errors.Is(err, ErrEmptyInput),
		errors.As(err, &upstream):
		return err
	}
	if IsCredentialRejection(err.Error()) {
		return fmt.Errorf("%w: %s", ErrInvalidCredential, err.Error())
	}
	return &UpstreamError{Message: err.Error()}
}

// IsCredentialRejection reports whether an upstream message matches a
// credential-rejection signature.
func IsCredentialRejection(msg string) bool {
	lower := strings.ToLower(msg)
	for _, sig := range credentialSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}

const keyHelpURL = "https://makersuite.google.com/app/apikey"

// UserMessage turns an error into the human-readable text shown on the
// surface that started the action.
func UserMessage(c Capability, err error) string {
	if err == nil {
		return ""
	}
	var upstream *UpstreamError
	if c == CapabilityVision {
		switch {
		case errors.Is(err, ErrMissingCredential):
			return "Please provide your Gemini API key to analyze images."
		case errors.Is(err, ErrEmptyInput):
			return "Please select an image first."
		case errors.Is(err, ErrInvalidCredential):
			return "Invalid API key. Please check your Gemini API key."
		case errors.Is(err, ErrMalformedResponse):
			return "Failed to parse AI response. Please try again."
		case errors.As(err, &upstream):
			return "Error: " + upstream.Message
		}
		return "Failed to analyze image. Please try again."
	}

	switch {
	case errors.Is(err, ErrMissingCredential):
		return "Please provide your Gemini API key to get AI-powered responses. You can get one from " + keyHelpURL
	case errors.Is(err, ErrInvalidCredential):
		return "Invalid API key. Please check your Gemini API key and try again. Get your key from " + keyHelpURL
	case errors.Is(err, ErrEmptyInput):
		return "Please type a question first."
	case errors.As(err, &upstream):
		return "Error: " + upstream.Message + ". Please try again."
	}
	return "I encountered an error while processing your request. Please try again."
}

// NeedsCredential reports whether err should send the user back to the
// credential entry form.
func NeedsCredential(err error) bool {
	return errors.Is(err, ErrMissingCredential) || errors.Is(err, ErrInvalidCredential)
}
