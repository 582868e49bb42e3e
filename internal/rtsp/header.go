package rtsp

import "strings"

// field is a single header line, preserving the name as received.
type field struct {
	name  string
	value string
}

// Header is an ordered list of RTSP header fields. Unlike net/http.Header
// it preserves both insertion order and the exact case of the name as it
// appeared on the wire; lookups are case-insensitive.
type Header struct {
	fields []field
}

// Set replaces the value of the first field with the same name
// (case-insensitive), keeping that field's original name; if there is
// none, it appends name/value with the case of name as given.
func (h *Header) Set(name, value string) {
	for i := range h.fields {
		if strings.EqualFold(h.fields[i].name, name) {
			h.fields[i].value = value
			return
		}
	}
	h.fields = append(h.fields, field{name: name, value: value})
}

// Add appends a field without checking for an existing one, allowing
// repeated header names (e.g. multiple "Transport" options).
func (h *Header) Add(name, value string) {
	h.fields = append(h.fields, field{name: name, value: value})
}

// Get returns the first value for name, case-insensitive, or "".
func (h *Header) Get(name string) string {
	for i := range h.fields {
		if strings.EqualFold(h.fields[i].name, name) {
			return h.fields[i].value
		}
	}
	return ""
}

// Values returns every value set under name, in insertion order.
func (h *Header) Values(name string) []string {
	var out []string
	for i := range h.fields {
		if strings.EqualFold(h.fields[i].name, name) {
			out = append(out, h.fields[i].value)
		}
	}
	return out
}

// Del removes every field matching name.
func (h *Header) Del(name string) {
	kept := h.fields[:0]
	for _, f := range h.fields {
		if !strings.EqualFold(f.name, name) {
			kept = append(kept, f)
		}
	}
	h.fields = kept
}

// Len reports the number of fields, including duplicates.
func (h *Header) Len() int {
	return len(h.fields)
}

// Range calls fn for each field in wire order.
func (h *Header) Range(fn func(name, value string)) {
	for _, f := range h.fields {
		fn(f.name, f.value)
	}
}

// Clone returns an independent copy of h.
func (h Header) Clone() Header {
	out := Header{fields: make([]field, len(h.fields))}
	copy(out.fields, h.fields)
	return out
}
