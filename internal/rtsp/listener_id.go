package rtsp

import "github.com/google/uuid"

// ListenerID opaquely identifies the Listener a Chunk was produced by.
// It exists so a Chunk can carry a "which connection did this come
// from" back-reference without holding a pointer to the Listener
// itself (the Listener must never be kept alive by a Chunk a
// subscriber is still holding).
type ListenerID uuid.UUID

func newListenerID() ListenerID {
	return ListenerID(uuid.New())
}

func (id ListenerID) String() string {
	return uuid.UUID(id).String()
}
