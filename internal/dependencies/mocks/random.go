package mocks

import (
	"fmt"

	"github.com/mkarpov/giftcircle/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing. Queued results
// are returned in order; an exhausted String queue yields a deterministic
// unique sequence so generated identifiers never collide.
type MockRandom struct {
	IntnResults []int
	intnIndex   int

	StringResults []string
	stringIndex   int
	stringSerial  int

	PickResults []string
	pickIndex   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// String returns the next queued result. With the queue exhausted it falls
// back to "mockNNNNNN" serials, padded or truncated to the requested length.
func (r *MockRandom) String(length int, alphabet string) string {
	if r.stringIndex < len(r.StringResults) {
		result := r.StringResults[r.stringIndex]
		r.stringIndex++
		return result
	}

	r.stringSerial++
	result := fmt.Sprintf("mock%06d", r.stringSerial)
	for len(result) < length {
		result += "0"
	}
	return result[:length]
}

// Pick returns the next queued result, falling back to the first choice
func (r *MockRandom) Pick(choices []string) string {
	if r.pickIndex >= len(r.PickResults) {
		if len(choices) == 0 {
			return ""
		}
		return choices[0]
	}
	result := r.PickResults[r.pickIndex]
	r.pickIndex++
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.StringResults = append(r.StringResults, values...)
}

// QueuePick adds values to the Pick result queue
func (r *MockRandom) QueuePick(values ...string) {
	r.PickResults = append(r.PickResults, values...)
}
