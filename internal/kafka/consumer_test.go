package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu        sync.Mutex
	msgs      chan kafka.Message
	committed []kafka.Message
	closed    bool
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-f.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeReader) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// commits lists the committed offsets of one partition in commit order.
func (f *fakeReader) commits(partition int) []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []int64{}
	for _, m := range f.committed {
		if m.Partition == partition {
			out = append(out, m.Offset)
		}
	}
	return out
}

// flaky fails offset 2 of partition 0 until release is closed, counting its attempts.
type flaky struct {
	mu       sync.Mutex
	attempts int
	release  chan struct{}
}

func (f *flaky) handle(_ context.Context, m kafka.Message) error {
	if m.Partition != 0 || m.Offset != 2 {
		return nil
	}
	f.mu.Lock()
	f.attempts++
	f.mu.Unlock()
	select {
	case <-f.release:
		return nil
	default:
		return errors.New("db down")
	}
}

func (f *flaky) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func startConsumer(t *testing.T, r *fakeReader, workers int, h Handler) (context.CancelFunc, <-chan error) {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	c := newConsumer(r, workers, log)
	c.backoff = time.Millisecond
	c.maxBackoff = 4 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx, h) }()
	return cancel, done
}

func TestConsumerRetriesFailedMessageBeforeCommittingLater(t *testing.T) {
	r := &fakeReader{msgs: make(chan kafka.Message, 4)}
	h := &flaky{release: make(chan struct{})}
	r.msgs <- kafka.Message{Offset: 1}
	r.msgs <- kafka.Message{Offset: 2}
	r.msgs <- kafka.Message{Offset: 3}

	cancel, done := startConsumer(t, r, 1, h.handle)

	require.Eventually(t, func() bool { return h.count() >= 3 }, time.Second, time.Millisecond)
	assert.Equal(t, []int64{1}, r.commits(0), "nothing past a pending offset is committed")

	close(h.release)
	require.Eventually(t, func() bool { return len(r.commits(0)) == 3 }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []int64{1, 2, 3}, r.commits(0))
	assert.True(t, r.closed)
}

func TestConsumerStuckPartitionDoesNotBlockOthers(t *testing.T) {
	r := &fakeReader{msgs: make(chan kafka.Message, 4)}
	h := &flaky{release: make(chan struct{})}
	r.msgs <- kafka.Message{Partition: 0, Offset: 2}
	r.msgs <- kafka.Message{Partition: 0, Offset: 3}
	r.msgs <- kafka.Message{Partition: 1, Offset: 7}
	r.msgs <- kafka.Message{Partition: 1, Offset: 8}

	cancel, done := startConsumer(t, r, 2, h.handle)

	require.Eventually(t, func() bool { return len(r.commits(1)) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []int64{7, 8}, r.commits(1))
	assert.Empty(t, r.commits(0))

	cancel()
	require.NoError(t, <-done)
	assert.Empty(t, r.commits(0), "cancelled retries leave the offset uncommitted")
}

func TestEventHeaders(t *testing.T) {
	m := kafka.Message{Headers: EventHeaders("OrderPlaced", 1)}
	assert.Equal(t, "OrderPlaced", Header(m, HeaderEventType))
	assert.Equal(t, "1", Header(m, HeaderEventVersion))
	assert.Empty(t, Header(m, "missing"))
}

type failingReader struct {
	fakeReader
	fail chan struct{}
}

func (f *failingReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-f.msgs:
		return m, nil
	case <-f.fail:
		return kafka.Message{}, errors.New("broker gone")
	}
}

func TestConsumerReaderFailureStopsRetries(t *testing.T) {
	r := &failingReader{fakeReader: fakeReader{msgs: make(chan kafka.Message, 1)}, fail: make(chan struct{})}
	h := &flaky{release: make(chan struct{})}
	r.msgs <- kafka.Message{Offset: 2}

	log, _ := logtest.NewNullLogger()
	c := newConsumer(r, 1, log)
	c.backoff = time.Millisecond
	done := make(chan error, 1)
	go func() { done <- c.Start(context.Background(), h.handle) }()

	require.Eventually(t, func() bool { return h.count() >= 1 }, time.Second, time.Millisecond)
	close(r.fail)

	select {
	case err := <-done:
		assert.EqualError(t, err, "broker gone")
	case <-time.After(time.Second):
		t.Fatal("consumer kept retrying after the reader failed")
	}
	assert.Empty(t, r.commits(0))
}
