package rtsp

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkReader_MixedTextAndBinary(t *testing.T) {
	raw := "OPTIONS rtsp://x RTSP/1.0\r\nCSeq: 7\r\n\r\n" +
		string([]byte{0x24, 0x00, 0x00, 0x04, 0xDE, 0xAD, 0xBE, 0xEF})

	cr := newChunkReader(strings.NewReader(raw), ListenerID{})

	chunk1, err := cr.readChunk()
	require.NoError(t, err)
	req, ok := chunk1.(*Request)
	require.True(t, ok)
	require.Equal(t, uint32(7), req.CSeq)
	require.Equal(t, MethodOptions, req.Method)

	chunk2, err := cr.readChunk()
	require.NoError(t, err)
	data, ok := chunk2.(*Data)
	require.True(t, ok)
	require.Equal(t, uint8(0), data.Channel)
	require.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, data.Payload)
}

func TestChunkReader_EOFMidBody(t *testing.T) {
	raw := "ANNOUNCE rtsp://x RTSP/1.0\r\nContent-Length: 10\r\n\r\n12345"

	cr := newChunkReader(strings.NewReader(raw), ListenerID{})
	_, err := cr.readChunk()
	require.ErrorIs(t, err, io.EOF)
}

func TestChunkReader_DollarInsideHeaderIsLiteral(t *testing.T) {
	raw := "OPTIONS rtsp://x RTSP/1.0\r\nX-Custom: $notaframe\r\nCSeq: 1\r\n\r\n"

	cr := newChunkReader(strings.NewReader(raw), ListenerID{})
	chunk, err := cr.readChunk()
	require.NoError(t, err)

	req, ok := chunk.(*Request)
	require.True(t, ok)
	require.Equal(t, "$notaframe", req.Header.Get("X-Custom"))
}

func TestChunkReader_InterleavedShortHeaderIsEOF(t *testing.T) {
	cr := newChunkReader(bytes.NewReader([]byte{0x24, 0x00}), ListenerID{})
	_, err := cr.readChunk()
	require.ErrorIs(t, err, io.EOF)
}

func TestChunkReader_CleanEOFAtBoundary(t *testing.T) {
	cr := newChunkReader(strings.NewReader(""), ListenerID{})
	_, err := cr.readChunk()
	require.ErrorIs(t, err, io.EOF)
}

func TestChunkReader_ResponseStartLine(t *testing.T) {
	raw := "RTSP/1.0 404 Stream Not Found\r\nCSeq: 2\r\n\r\n"

	cr := newChunkReader(strings.NewReader(raw), ListenerID{})
	chunk, err := cr.readChunk()
	require.NoError(t, err)

	resp, ok := chunk.(*Response)
	require.True(t, ok)
	require.Equal(t, uint16(404), resp.StatusCode)
	require.Equal(t, "Stream Not Found", resp.Reason)
}
