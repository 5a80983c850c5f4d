package audit

import (
	"context"
	"sync"
	"time"

	"github.com/kodmani-estates/leadflow/pkg/logging"
)

// Appender is the subset of Store the dispatcher needs.
type Appender interface {
	Append(ctx context.Context, entry Entry) error
}

// Dispatcher decouples audit writes from the request path: callers
// enqueue and move on, a single worker drains the queue. A full queue
// drops the entry rather than block a submission.
type Dispatcher struct {
	appender Appender
	logger   *logging.Logger
	queue    chan Entry
	dropped  func()

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewDispatcher creates a dispatcher with the given queue capacity.
// onDrop, if non-nil, is called once per dropped entry.
func NewDispatcher(appender Appender, queueSize int, onDrop func(), logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		appender: appender,
		logger:   logger.Component("audit"),
		queue:    make(chan Entry, queueSize),
		dropped:  onDrop,
		done:     make(chan struct{}),
	}
}

// Start launches the worker goroutine. Safe to call once.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		go d.run()
	})
}

// Enqueue hands an entry to the worker without blocking.
func (d *Dispatcher) Enqueue(entry Entry) {
	select {
	case d.queue <- entry:
	default:
		d.logger.Warn("audit queue full, dropping entry",
			"event_type", string(entry.EventType),
			"lead_id", entry.LeadID,
		)
		if d.dropped != nil {
			d.dropped()
		}
	}
}

// Stop closes the queue and waits for the worker to drain it.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
		<-d.done
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for entry := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.appender.Append(ctx, entry); err != nil {
			d.logger.Error("audit append failed",
				"error", err,
				"event_type", string(entry.EventType),
				"lead_id", entry.LeadID,
			)
		}
		cancel()
	}
}
