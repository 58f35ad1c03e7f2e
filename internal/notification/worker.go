package notification

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notice tells a guest that their booking changed status.
type Notice struct {
	ID           uuid.UUID `json:"-"`
	BookingID    int64     `json:"bookingId"`
	Status       string    `json:"status"`
	GuestContact string    `json:"guestEmail"`
	GuestName    string    `json:"guestName"`
	PropertyName string    `json:"propertyName"`
	HostName     string    `json:"hostName"`
}

// NewNotice creates a notice with a fresh ID for log correlation.
func NewNotice(bookingID int64, status string) Notice {
	return Notice{
		ID:           uuid.New(),
		BookingID:    bookingID,
		Status:       status,
		GuestName:    "Guest",
		PropertyName: "Property",
		HostName:     "Host",
	}
}

// WorkerPool delivers notices in the background. Each notice is attempted
// at most once; failures are logged and dropped.
type WorkerPool struct {
	size   int
	jobs   chan Notice
	sender Sender
	log    zerolog.Logger
	wg     sync.WaitGroup
}

// NewWorkerPool creates a pool of size workers with a queue of queueSize notices.
func NewWorkerPool(size, queueSize int, sender Sender, log zerolog.Logger) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if queueSize <= 0 {
		queueSize = size
	}
	return &WorkerPool{
		size:   size,
		jobs:   make(chan Notice, queueSize),
		sender: sender,
		log:    log,
	}
}

// Start launches the worker goroutines. They stop when ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has returned.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	wp.log.Debug().Int("worker", id).Msg("worker started")
	for {
		select {
		case n := <-wp.jobs:
			wp.deliver(ctx, n)
		case <-ctx.Done():
			wp.log.Debug().Int("worker", id).Msg("worker shutting down")
			return
		}
	}
}

func (wp *WorkerPool) deliver(ctx context.Context, n Notice) {
	err := wp.sender.Send(ctx, n)
	if err == nil {
		wp.log.Info().Stringer("notice_id", n.ID).Int64("booking_id", n.BookingID).
			Str("status", n.Status).Msg("notification sent")
		return
	}

	var dispatchErr *DispatchError
	if !errors.As(err, &dispatchErr) {
		dispatchErr = &DispatchError{Channel: "unknown", Err: err}
	}
	wp.log.Warn().Err(dispatchErr).Stringer("notice_id", n.ID).Int64("booking_id", n.BookingID).
		Str("status", n.Status).Str("channel", dispatchErr.Channel).Msg("notification failed")
}

// Dispatch queues n without blocking. It reports false when the queue is
// full and the notice was dropped.
func (wp *WorkerPool) Dispatch(n Notice) bool {
	select {
	case wp.jobs <- n:
		return true
	default:
		wp.log.Warn().Stringer("notice_id", n.ID).Int64("booking_id", n.BookingID).
			Msg("notification queue full, dropping notice")
		return false
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Notice {
	return wp.jobs
}
