package rtsp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// writeTo serializes the request as METHOD URI VERSION, headers in
// insertion order, a blank line, then the body, in one buffered write
// so the write is atomic from the caller's perspective.
func (r *Request) writeTo(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%s %s RTSP/%s\r\n", r.Method, r.URI, r.Version); err != nil {
		return fmt.Errorf("rtsp: write request line: %w", err)
	}

	hdr := r.Header.Clone()
	hdr.Set("CSeq", strconv.FormatUint(uint64(r.CSeq), 10))
	if len(r.Body) > 0 {
		hdr.Set("Content-Length", strconv.Itoa(len(r.Body)))
	}

	if err := writeHeader(bw, hdr); err != nil {
		return err
	}

	if len(r.Body) > 0 {
		if _, err := bw.Write(r.Body); err != nil {
			return fmt.Errorf("rtsp: write request body: %w", err)
		}
	}

	return bw.Flush()
}

// writeTo serializes the response as VERSION STATUS REASON, headers,
// a blank line, then the body.
func (r *Response) writeTo(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "RTSP/%s %d %s\r\n", r.Version, r.StatusCode, r.Reason); err != nil {
		return fmt.Errorf("rtsp: write status line: %w", err)
	}

	hdr := r.Header.Clone()
	hdr.Set("CSeq", strconv.FormatUint(uint64(r.CSeq), 10))
	if len(r.Body) > 0 {
		hdr.Set("Content-Length", strconv.Itoa(len(r.Body)))
	}

	if err := writeHeader(bw, hdr); err != nil {
		return err
	}

	if len(r.Body) > 0 {
		if _, err := bw.Write(r.Body); err != nil {
			return fmt.Errorf("rtsp: write response body: %w", err)
		}
	}

	return bw.Flush()
}

func writeHeader(bw *bufio.Writer, hdr Header) error {
	var err error
	hdr.Range(func(name, value string) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(bw, "%s: %s\r\n", name, value)
	})
	if err != nil {
		return fmt.Errorf("rtsp: write header: %w", err)
	}
	if _, err := bw.WriteString("\r\n"); err != nil {
		return fmt.Errorf("rtsp: write header terminator: %w", err)
	}
	return nil
}
