package rtsp

import "sync"

// payloadPool recycles byte slices used for interleaved-frame payloads.
// Ownership of a payload transfers to whichever subscriber receives the
// Data chunk; the subscriber may call Data.Release to return the
// buffer, but is not required to (an unreleased buffer is simply
// garbage collected instead of recycled).
var payloadPool = sync.Pool{
	New: func() any {
		buf := make([]byte, maxInterleavedPayload)
		return &buf
	},
}

func getPayload(size int) []byte {
	bufp := payloadPool.Get().(*[]byte)
	if cap(*bufp) < size {
		*bufp = make([]byte, size)
		return *bufp
	}
	return (*bufp)[:size]
}

func putPayload(b []byte) {
	//nolint:staticcheck // reused for its backing array only
	b = b[:cap(b)]
	payloadPool.Put(&b)
}

// Release returns the payload's backing buffer to the internal pool.
// Calling it more than once, or using Payload afterwards, is a
// programming error.
func (d *Data) Release() {
	if d.Payload == nil {
		return
	}
	putPayload(d.Payload)
	d.Payload = nil
}
