package playback

import (
	"errors"
	"sync"
)

// ErrQueueFull is returned when a configured byte ceiling would be exceeded
var ErrQueueFull = errors.New("playback queue full")

// Queue holds received playback chunks in strict FIFO arrival order.
// Chunks leave only through Pop or an explicit Clear; they are never
// reordered or dropped by the queue itself.
type Queue struct {
	chunks     [][]byte
	totalBytes int
	maxBytes   int
	mu         sync.Mutex
}

// NewQueue creates a queue. maxBytes of 0 leaves the queue unbounded,
// which is the reference behavior.
func NewQueue(maxBytes int) *Queue {
	return &Queue{
		chunks:   make([][]byte, 0),
		maxBytes: maxBytes,
	}
}

// Push appends a chunk.
// Returns ErrQueueFull if a byte ceiling is configured and would be exceeded.
func (q *Queue) Push(chunk []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	newSize := q.totalBytes + len(chunk)
	if q.maxBytes > 0 && newSize > q.maxBytes {
		return ErrQueueFull
	}

	q.chunks = append(q.chunks, chunk)
	q.totalBytes = newSize
	return nil
}

// Pop removes and returns the oldest chunk
func (q *Queue) Pop() ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.chunks) == 0 {
		return nil, false
	}

	chunk := q.chunks[0]
	q.chunks = q.chunks[1:]
	q.totalBytes -= len(chunk)
	return chunk, true
}

// Clear empties the queue without returning data
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.chunks = make([][]byte, 0)
	q.totalBytes = 0
}

// Len returns the number of queued chunks
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.chunks)
}

// Bytes returns the current total queued bytes
func (q *Queue) Bytes() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.totalBytes
}

// IsEmpty returns true if no chunks are queued
func (q *Queue) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.chunks) == 0
}
