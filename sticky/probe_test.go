package sticky

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestProbe_Observe(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	calls := 0
	p := NewProbe(func() { calls++ }, zap.New(core))

	assert.False(t, p.Observe(0))
	assert.False(t, p.Observe(-4))
	assert.True(t, p.Observe(320))
	assert.False(t, p.Observe(320))
	assert.True(t, p.Observe(700))

	assert.Equal(t, 2, calls)
	assert.Equal(t, 700.0, p.Height())
	require.Equal(t, 2, logs.FilterMessage("height changed").Len())
	last := logs.All()[1].ContextMap()
	assert.Equal(t, 320.0, last["from"])
	assert.Equal(t, 700.0, last["height"])

	p.SetOnChange(nil)
	assert.True(t, p.Observe(10))
	assert.Equal(t, 2, calls)
}

func TestProbe_NilLogger(t *testing.T) {
	p := NewProbe(nil, nil)
	assert.True(t, p.Observe(1))
}
