package rtsp

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCorrelator_InsertAndTake(t *testing.T) {
	c := newCorrelator()
	req := &Request{Method: MethodOptions, CSeq: 1}

	c.insert(1, req)
	require.Equal(t, 1, c.len())

	got, ok := c.take(1)
	require.True(t, ok)
	require.Same(t, req, got)
	require.Equal(t, 0, c.len())
}

func TestCorrelator_TakeMissing(t *testing.T) {
	c := newCorrelator()
	_, ok := c.take(999)
	require.False(t, ok)
}

func TestCorrelator_ConcurrentInsertAndTake(t *testing.T) {
	c := newCorrelator()

	var wg sync.WaitGroup
	for i := uint32(1); i <= 100; i++ {
		wg.Add(1)
		go func(cseq uint32) {
			defer wg.Done()
			c.insert(cseq, &Request{CSeq: cseq})
			c.take(cseq)
		}(i)
	}
	wg.Wait()

	require.Equal(t, 0, c.len())
}
