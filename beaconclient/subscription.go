package beaconclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ledgerwatch/log/v3"
	sse "github.com/r3labs/sse/v2"
	backoffv1 "gopkg.in/cenkalti/backoff.v1"

	"github.com/erigontech/beaconapi/beaconevents"
	"github.com/erigontech/beaconapi/beaconhttp"
)

// StreamState is the lifecycle state of one subscription.
type StreamState int32

const (
	StateIdle StreamState = iota
	StateConnecting
	StateStreaming
	StateReconnecting
	StateClosing
	StateClosed
)

func (s StreamState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateReconnecting:
		return "reconnecting"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

const (
	DefaultMaxReconnects    = 5
	DefaultMaxReconnectWait = 30 * time.Second
	DefaultBuffer           = 32

	initialReconnectWait = 200 * time.Millisecond
)

type SubscribeOptions struct {
	// ResumeFromLastEventID replays the server-side cursor (Last-Event-ID)
	// on reconnect instead of restarting from the current moment. Either
	// way a TopicGapPossible event marks every disconnection.
	ResumeFromLastEventID bool

	// Strict terminates the stream on an unrecognized event tag or a
	// per-event decode failure instead of delivering it and carrying on.
	Strict bool

	// InactivityTimeout forces a reconnect when no frames or heartbeats
	// arrive within the window. Zero disables it.
	InactivityTimeout time.Duration

	// MaxReconnects bounds consecutive failed reconnection attempts before
	// the stream closes with a terminal error. Zero means
	// DefaultMaxReconnects.
	MaxReconnects uint64

	// MaxReconnectWait caps the backoff interval between attempts.
	MaxReconnectWait time.Duration

	// MaxReconnectTime bounds the total wall-clock time spent reconnecting.
	// Zero means unbounded.
	MaxReconnectTime time.Duration

	// Buffer is the capacity of the consumer-facing event channel.
	Buffer int
}

func (o *SubscribeOptions) withDefaults() SubscribeOptions {
	out := *o
	if out.MaxReconnects == 0 {
		out.MaxReconnects = DefaultMaxReconnects
	}
	if out.MaxReconnectWait == 0 {
		out.MaxReconnectWait = DefaultMaxReconnectWait
	}
	if out.Buffer == 0 {
		out.Buffer = DefaultBuffer
	}
	return out
}

// Subscription owns one open event-stream connection. It is exclusively
// owned by the caller that created it; events arrive on Events() in wire
// order until the channel closes, after which Err() reports the terminal
// reason (nil for caller-initiated closure).
type Subscription struct {
	client *Client
	topics []beaconevents.EventTopic
	opts   SubscribeOptions
	logger log.Logger

	events chan beaconevents.Event
	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error

	lastEventID string // touched only by the stream goroutine
}

// Subscribe opens a server-sent-events stream for the given topics. The
// returned Subscription is live until the context is cancelled, Close is
// called, or the reconnection policy is exhausted.
func (c *Client) Subscribe(ctx context.Context, topics []beaconevents.EventTopic, opts SubscribeOptions) (*Subscription, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("subscribe: no topics")
	}
	for _, topic := range topics {
		if !beaconevents.IsValidTopic(topic) {
			return nil, fmt.Errorf("subscribe: invalid topic %q", topic)
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		client: c,
		topics: topics,
		opts:   opts.withDefaults(),
		logger: c.log.New("component", "beacon-subscription"),
		events: make(chan beaconevents.Event, opts.withDefaults().Buffer),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.state.Store(int32(StateIdle))
	go s.run(ctx)
	return s, nil
}

// Events is the consumer-facing lazy sequence of typed events. The channel
// closes when the subscription reaches Closed.
func (s *Subscription) Events() <-chan beaconevents.Event { return s.events }

func (s *Subscription) State() StreamState {
	return StreamState(s.state.Load())
}

// Err reports why the stream terminated. It is meaningful once Events() is
// closed; nil means the caller closed the subscription.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close cancels the subscription and blocks until the connection is
// released. No events are delivered after it returns.
func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

func (s *Subscription) setState(state StreamState) {
	s.state.Store(int32(state))
}

func (s *Subscription) terminate(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	s.setState(StateClosing)
}

func (s *Subscription) run(ctx context.Context) {
	defer func() {
		s.cancel()
		s.setState(StateClosed)
		close(s.events)
		close(s.done)
	}()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialReconnectWait
	bo.MaxInterval = s.opts.MaxReconnectWait
	bo.MaxElapsedTime = s.opts.MaxReconnectTime
	policy := backoff.WithMaxRetries(bo, s.opts.MaxReconnects)

	for {
		s.setState(StateConnecting)
		streamed, terminal, cause := s.streamOnce(ctx)
		if terminal != nil {
			s.terminate(terminal)
			return
		}
		if ctx.Err() != nil {
			s.terminate(nil)
			return
		}
		// transport-level disconnection: decode errors never land here
		s.setState(StateReconnecting)
		if streamed {
			policy.Reset()
			// exactly one gap notification per disconnection
			s.emit(ctx, beaconevents.Event{
				Topic: beaconevents.TopicGapPossible,
				Data:  &beaconevents.GapEvent{Reason: disconnectReason(cause)},
			})
		}
		wait := policy.NextBackOff()
		if wait == backoff.Stop {
			s.terminate(beaconhttp.NewStreamClosedError("reconnect attempts exhausted", cause))
			return
		}
		s.logger.Warn("event stream disconnected, reconnecting", "in", wait, "err", cause)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			s.terminate(nil)
			return
		}
	}
}

// streamOnce runs a single connection attempt until it drops. It reports
// whether the attempt ever reached Streaming, a terminal error when strict
// mode aborts the stream, and the transport cause of the drop otherwise.
func (s *Subscription) streamOnce(ctx context.Context) (streamed bool, terminal, cause error) {
	q := url.Values{}
	for _, topic := range s.topics {
		q.Add("topics", string(topic))
	}
	target := beaconhttp.RouteEvents.Target(s.client.baseURL, q)

	attemptCtx, cancelAttempt := context.WithCancel(ctx)
	defer cancelAttempt()

	conn := sse.NewClient(target)
	// share the transport, not the unary call timeout: the stream is
	// long-lived by design
	conn.Connection = &http.Client{Transport: s.client.httpClient.Transport}
	conn.Headers["Accept"] = "text/event-stream"
	if s.opts.ResumeFromLastEventID && s.lastEventID != "" {
		conn.Headers["Last-Event-ID"] = s.lastEventID
	}
	// reconnection belongs to this state machine, not to the sse client
	conn.ReconnectStrategy = &backoffv1.StopBackOff{}

	var connected atomic.Bool
	conn.OnConnect(func(*sse.Client) {
		connected.Store(true)
		s.setState(StateStreaming)
		s.logger.Debug("event stream connected", "url", target)
	})

	var inactivity *time.Timer
	if s.opts.InactivityTimeout > 0 {
		inactivity = time.AfterFunc(s.opts.InactivityTimeout, cancelAttempt)
		defer inactivity.Stop()
	}

	var terminalErr error
	err := conn.SubscribeRawWithContext(attemptCtx, func(msg *sse.Event) {
		if inactivity != nil {
			inactivity.Reset(s.opts.InactivityTimeout)
		}
		if len(msg.ID) > 0 {
			s.lastEventID = string(msg.ID)
		}
		if len(msg.Event) == 0 && len(msg.Data) == 0 {
			// heartbeat
			return
		}
		ev := beaconevents.DecodeEvent(string(msg.Event), msg.Data)
		if s.opts.Strict {
			if ev.Err != nil {
				terminalErr = beaconhttp.NewStreamClosedError("strict: event decode failure", ev.Err)
				cancelAttempt()
				return
			}
			if ev.Topic == beaconevents.TopicUnknown {
				raw := ev.Data.(*beaconevents.RawEvent)
				terminalErr = beaconhttp.NewStreamClosedError("strict: unrecognized event",
					beaconhttp.NewUnrecognizedEventError(raw.Tag, raw.Payload))
				cancelAttempt()
				return
			}
		}
		s.emit(ctx, ev)
	})
	if terminalErr != nil {
		return connected.Load(), terminalErr, nil
	}
	if err != nil {
		// normalize the transport cause so the terminal error chain stays
		// inside the ApiError taxonomy
		return connected.Load(), nil, beaconhttp.AsApiError(err)
	}
	return connected.Load(), nil, nil
}

// emit delivers on the parent context so an in-flight frame may finish
// decoding but is never delivered after cancellation.
func (s *Subscription) emit(ctx context.Context, ev beaconevents.Event) {
	select {
	case s.events <- ev:
	case <-ctx.Done():
	}
}

func disconnectReason(cause error) string {
	if cause == nil {
		return "server closed the stream"
	}
	return cause.Error()
}
