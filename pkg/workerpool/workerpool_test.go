package workerpool

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteCoversEveryIndexExactlyOnce(t *testing.T) {
	var p Pool
	require.NoError(t, p.Init(WithWorkers(4)))
	defer p.Close()

	const total = 137
	hits := make([]int32, total)

	err := p.Execute(total, func(start, end int) error {
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
		return nil
	})
	require.NoError(t, err)

	for i, h := range hits {
		assert.Equalf(t, int32(1), h, "index %d processed %d times", i, h)
	}
}

func TestExecuteZeroTotalIsNoop(t *testing.T) {
	var p Pool
	require.NoError(t, p.Init())
	defer p.Close()

	called := false
	err := p.Execute(0, func(start, end int) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestExecuteBeforeInitReturnsError(t *testing.T) {
	var p Pool
	err := p.Execute(10, func(start, end int) error { return nil })
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestExecuteNilCallbackReturnsError(t *testing.T) {
	var p Pool
	require.NoError(t, p.Init())
	defer p.Close()

	err := p.Execute(10, nil)
	assert.ErrorIs(t, err, ErrCallbackNil)
}

func TestInitTwiceReturnsError(t *testing.T) {
	var p Pool
	require.NoError(t, p.Init())
	defer p.Close()

	assert.ErrorIs(t, p.Init(), ErrAlreadyInitialized)
}

func TestCloseIsIdempotent(t *testing.T) {
	var p Pool
	require.NoError(t, p.Init())
	p.Close()
	p.Close()
}
