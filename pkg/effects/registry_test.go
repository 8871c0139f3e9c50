package effects

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Get("fade")
	assert.False(t, ok)

	r.Register("fade", Effect{})
	_, ok = r.Get("fade")
	assert.True(t, ok)
	assert.Equal(t, []string{"fade"}, r.Names())
}

func TestReRegisterWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := NewRegistry(WithLogger(logger))

	r.Register("fade", Effect{})
	r.Register("fade", Effect{})

	assert.Contains(t, buf.String(), "transition effect overwritten")
}
