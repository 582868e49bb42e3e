package rtsp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPayloadPool_GetSizedAndRelease(t *testing.T) {
	b := getPayload(1024)
	require.Len(t, b, 1024)

	for i := range b {
		b[i] = 0xFF
	}
	putPayload(b)

	b2 := getPayload(1024)
	require.Len(t, b2, 1024)
}

func TestData_ReleaseIsSafeOnNilPayload(t *testing.T) {
	d := &Data{}
	d.Release()
	require.Nil(t, d.Payload)
}

func TestData_ReleaseClearsPayload(t *testing.T) {
	d := &Data{Payload: getPayload(16)}
	d.Release()
	require.Nil(t, d.Payload)
}
