package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/store"
	"github.com/DuckHunt-discord/Coroned-event/corona"
	"github.com/DuckHunt-discord/Coroned-event/logger"
)

var (
	ErrClosed         = errors.New("dispatcher closed")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidRequest = errors.New("invalid request")
	ErrBusy           = errors.New("identity busy, try again later")
)

const (
	defaultIdleTimeout = 2 * time.Minute
	defaultQueueSize   = 64
	storeTimeout       = 5 * time.Second
)

// RequestType tells commands apart from plain chat messages.
type RequestType byte

const (
	RequestCommand RequestType = 1
	RequestMessage RequestType = 2
)

var RequestTypeDictionary = map[RequestType]string{
	RequestCommand: "command",
	RequestMessage: "message",
}

func (t RequestType) String() string {
	if s, ok := RequestTypeDictionary[t]; ok {
		return s
	}
	return "unknown"
}

// Actor identifies a chat user as seen by the bridge.
type Actor struct {
	ID   uint64
	Name string
	// System is set for webhooks and bots; they never get role directives.
	System bool
}

// Request is one chat event delivered by a bridge.
type Request struct {
	ID      string // correlation id, generated when empty
	Seq     uint64 // bridge sequence number, echoed back
	Type    RequestType
	Actor   Actor
	Target  *Actor
	Command string
	Arg     string
	// Peers are the identities that spoke in the same channel recently.
	Peers       []uint64
	BotAuthored bool
}

// Response answers one Request. Err is set when the request failed and
// nothing was persisted.
type Response struct {
	RequestID string
	Seq       uint64
	Outcomes  []corona.Outcome
	Err       error
}

// Options tunes lanes. Zero values pick defaults.
type Options struct {
	IdleTimeout time.Duration
	QueueSize   int
}

// Dispatcher runs chat events against the engine. Every identity gets a
// lane, a goroutine draining that identity's jobs in order. Jobs that touch
// a second player also take that player's lock.
type Dispatcher struct {
	engine *corona.Engine
	store  store.Service
	locks  *keyedLocks

	idleTimeout time.Duration
	queueSize   int

	mu     sync.Mutex
	lanes  map[uint64]*lane
	closed bool

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	log *logrus.Entry
}

type lane struct {
	identity uint64
	jobs     chan func()
	pending  int // guarded by Dispatcher.mu
}

// New creates a dispatcher. Lanes start on first use.
func New(engine *corona.Engine, svc store.Service, opts Options) *Dispatcher {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = defaultIdleTimeout
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	return &Dispatcher{
		engine:      engine,
		store:       svc,
		locks:       newKeyedLocks(),
		idleTimeout: opts.IdleTimeout,
		queueSize:   opts.QueueSize,
		lanes:       make(map[uint64]*lane),
		done:        make(chan struct{}),
		log:         logger.Component("dispatch"),
	}
}

// Submit runs req on the actor's lane and waits for the result. Engine and
// store failures are reported in Response.Err; the returned error is only
// set when the request could not be run at all.
func (d *Dispatcher) Submit(ctx context.Context, req Request) (Response, error) {
	req, err := d.prepare(req)
	if err != nil {
		return Response{}, err
	}

	reply := make(chan Response, 1)
	if err := d.enqueue(ctx, req.Actor.ID, true, func() { reply <- d.handle(req) }); err != nil {
		return Response{}, err
	}

	select {
	case resp := <-reply:
		return resp, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	case <-d.done:
		return Response{}, ErrClosed
	}
}

// SubmitAsync queues req and returns without waiting. It never blocks on a
// full lane; ErrBusy is returned instead. done is called from the lane once
// the request ran; it must not block for long.
func (d *Dispatcher) SubmitAsync(ctx context.Context, req Request, done func(Response)) error {
	req, err := d.prepare(req)
	if err != nil {
		return err
	}
	return d.enqueue(ctx, req.Actor.ID, false, func() {
		resp := d.handle(req)
		if done != nil {
			done(resp)
		}
	})
}

func (d *Dispatcher) prepare(req Request) (Request, error) {
	if req.Actor.ID == 0 {
		return req, ErrInvalidRequest
	}
	if req.Type != RequestCommand && req.Type != RequestMessage {
		return req, ErrInvalidRequest
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	return req, nil
}

// enqueue hands job to the identity's lane. With wait unset a full lane
// fails fast with ErrBusy.
func (d *Dispatcher) enqueue(ctx context.Context, identity uint64, wait bool, job func()) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	l := d.lanes[identity]
	if l == nil {
		l = &lane{identity: identity, jobs: make(chan func(), d.queueSize)}
		d.lanes[identity] = l
		d.wg.Add(1)
		go d.runLane(l)
	}
	l.pending++
	d.mu.Unlock()

	if !wait {
		select {
		case l.jobs <- job:
			return nil
		default:
			d.finished(l)
			return ErrBusy
		}
	}

	select {
	case l.jobs <- job:
		return nil
	case <-ctx.Done():
		d.finished(l)
		return ctx.Err()
	case <-d.done:
		d.finished(l)
		return ErrClosed
	}
}

func (d *Dispatcher) finished(l *lane) {
	d.mu.Lock()
	l.pending--
	d.mu.Unlock()
}

// runLane is the per-identity actor loop. It exits after idleTimeout
// without work, or when the dispatcher closes.
func (d *Dispatcher) runLane(l *lane) {
	defer d.wg.Done()

	idle := time.NewTimer(d.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case job := <-l.jobs:
			job()
			d.finished(l)
			idle.Reset(d.idleTimeout)
		case <-idle.C:
			d.mu.Lock()
			if l.pending == 0 {
				delete(d.lanes, l.identity)
				d.mu.Unlock()
				d.log.WithField("identity", l.identity).Debug("Lane reaped")
				return
			}
			d.mu.Unlock()
			idle.Reset(d.idleTimeout)
		case <-d.done:
			return
		}
	}
}

// Lanes returns the number of live lanes.
func (d *Dispatcher) Lanes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.lanes)
}

// Close stops every lane. Queued jobs that did not start are dropped.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.stopOnce.Do(func() {
		close(d.done)
	})
	d.wg.Wait()
}
