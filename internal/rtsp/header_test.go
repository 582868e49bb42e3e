package rtsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeader_PreservesOrderAndCase(t *testing.T) {
	var h Header
	h.Add("CSeq", "1")
	h.Add("Content-Type", "application/sdp")
	h.Add("Session", "abc123")

	var names []string
	h.Range(func(name, value string) {
		names = append(names, name)
	})
	assert.Equal(t, []string{"CSeq", "Content-Type", "Session"}, names)
}

func TestHeader_CaseInsensitiveLookup(t *testing.T) {
	var h Header
	h.Add("Content-Length", "42")

	assert.Equal(t, "42", h.Get("content-length"))
	assert.Equal(t, "42", h.Get("CONTENT-LENGTH"))
}

func TestHeader_SetReplacesExisting(t *testing.T) {
	var h Header
	h.Add("Session", "one")
	h.Set("session", "two")

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, "two", h.Get("Session"))
}

func TestHeader_ValuesReturnsAllDuplicates(t *testing.T) {
	var h Header
	h.Add("Transport", "RTP/AVP;unicast")
	h.Add("Transport", "RTP/AVP/TCP;unicast")

	assert.Equal(t, []string{"RTP/AVP;unicast", "RTP/AVP/TCP;unicast"}, h.Values("Transport"))
}

func TestHeader_Clone(t *testing.T) {
	var h Header
	h.Add("CSeq", "1")

	clone := h.Clone()
	clone.Set("CSeq", "2")

	assert.Equal(t, "1", h.Get("CSeq"))
	assert.Equal(t, "2", clone.Get("CSeq"))
}
