package global

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/seventv/RainbowProcessor/src/configure"
)

func TestWith(t *testing.T) {
	cfg := &configure.Config{Rate: 90}
	ctx := New(context.Background(), cfg)

	c, cancel := context.WithCancel(context.Background())
	child := ctx.With(c)
	cancel()

	assert.Error(t, child.Err())
	assert.NoError(t, ctx.Err())
	assert.Same(t, ctx.Instances(), child.Instances())
	assert.Same(t, cfg, child.Config())
}

func TestTrackWait(t *testing.T) {
	ctx := New(context.Background(), &configure.Config{})

	done := ctx.With(context.Background()).Track()

	waited := make(chan struct{})
	go func() {
		ctx.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		t.Fatal("wait returned with work in flight")
	case <-time.After(20 * time.Millisecond):
	}

	done()
	done()

	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("wait did not return")
	}
}
