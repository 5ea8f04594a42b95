package photostore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKey(t *testing.T) {
	a := NewKey("leaf", "image/png")
	b := NewKey("leaf", "image/png")

	assert.True(t, strings.HasPrefix(a, "leaf_"))
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.NotEqual(t, a, b)
}

func TestMIMERoundTrip(t *testing.T) {
	for _, mime := range []string{"image/jpeg", "image/png", "image/gif", "image/webp"} {
		assert.Equal(t, mime, MIMEForKey(NewKey("x", mime)))
	}
	assert.Equal(t, ".jpg", ExtForMIME("application/octet-stream"))
	assert.Equal(t, "image/jpeg", MIMEForKey("noext"))
}
