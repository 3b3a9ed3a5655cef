package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Name() string { return f.name }
func (f fakeChecker) Check(ctx context.Context) error { return f.err }

func TestReady(t *testing.T) {
	assert.NoError(t, NewService().Ready(context.Background()))
	assert.NoError(t, NewService(fakeChecker{name: "a"}).Ready(context.Background()))

	err := NewService(fakeChecker{name: "a"}, fakeChecker{name: "redis", err: errors.New("refused")}).Ready(context.Background())
	assert.EqualError(t, err, "redis: refused")
}
