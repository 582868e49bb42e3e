package rtsp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequest_RoundTrip(t *testing.T) {
	req := &Request{
		Method:  MethodDescribe,
		URI:     "rtsp://example.com/stream",
		Version: "1.0",
		CSeq:    7,
	}
	req.Header.Add("Accept", "application/sdp")
	req.Body = []byte("hello")
	req.Header.Set("Content-Length", "5")

	var buf bytes.Buffer
	require.NoError(t, req.writeTo(&buf))

	cr := newChunkReader(&buf, ListenerID{})
	chunk, err := cr.readChunk()
	require.NoError(t, err)

	got, ok := chunk.(*Request)
	require.True(t, ok)
	require.Equal(t, MethodDescribe, got.Method)
	require.Equal(t, "rtsp://example.com/stream", got.URI)
	require.Equal(t, "1.0", got.Version)
	require.Equal(t, uint32(7), got.CSeq)
	require.Equal(t, "application/sdp", got.Header.Get("Accept"))
	require.Equal(t, []byte("hello"), got.Body)
}

func TestResponse_RoundTrip(t *testing.T) {
	resp := &Response{
		Version:    "1.0",
		StatusCode: 200,
		Reason:     "OK",
		CSeq:       3,
	}
	resp.Header.Add("Session", "abc123")

	var buf bytes.Buffer
	require.NoError(t, resp.writeTo(&buf))

	cr := newChunkReader(&buf, ListenerID{})
	chunk, err := cr.readChunk()
	require.NoError(t, err)

	got, ok := chunk.(*Response)
	require.True(t, ok)
	require.Equal(t, uint16(200), got.StatusCode)
	require.Equal(t, "OK", got.Reason)
	require.Equal(t, uint32(3), got.CSeq)
	require.Equal(t, "abc123", got.Header.Get("Session"))
	require.Nil(t, got.Body)
}
