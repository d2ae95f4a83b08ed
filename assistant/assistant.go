package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"natasha/metrics"
	"natasha/nlu"
)

// Config assembles an Assistant. Registry and Deliverer are required;
// everything else is optional.
type Config struct {
	Name          string
	Registry      *nlu.Registry
	Deliverer     Deliverer
	QuietHours    QuietHoursPolicy
	Telemetry     Telemetry
	Collaborators Collaborators
	PollInterval  time.Duration
	Metrics       *metrics.Collector
	Clock         func() time.Time
}

// Result is the structured outcome of interpreting one utterance,
// returned to synchronous callers such as the HTTP API. The response
// text is also enqueued for asynchronous delivery.
type Result struct {
	Intent       string                      `json:"intent"`
	Confidence   float64                     `json:"confidence"`
	Entities     map[string][]nlu.Occurrence `json:"entities,omitempty"`
	Command      CommandID                   `json:"command,omitempty"`
	Response     string                      `json:"response"`
	QuickMatched bool                        `json:"quick_matched,omitempty"`
}

// Assistant wires the full pipeline: quick patterns, classifier,
// extractor, dispatcher, executor, scheduler, and the response queue.
type Assistant struct {
	name       string
	classifier *nlu.RuleClassifier
	extractor  *nlu.RegexExtractor
	quick      *QuickMatcher
	dispatcher *Dispatcher
	executor   *Executor
	scheduler  *Scheduler
	queue      *ResponseQueue
	deliverer  Deliverer
	quiet      QuietHoursPolicy
	telemetry  Telemetry
	metrics    *metrics.Collector
	clock      func() time.Time

	running      atomic.Bool
	wg           sync.WaitGroup
	consumerDone chan struct{}
	cancel       context.CancelFunc
	stopOnce     sync.Once
}

// New creates an assistant from cfg.
func New(cfg Config) (*Assistant, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}
	if cfg.Deliverer == nil {
		return nil, errors.New("deliverer is required")
	}
	if cfg.Name == "" {
		cfg.Name = "Natasha"
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	a := &Assistant{
		name:       cfg.Name,
		classifier: nlu.NewRuleClassifier(cfg.Registry),
		extractor:  nlu.NewRegexExtractor(cfg.Registry),
		dispatcher: NewDispatcher(cfg.Registry),
		queue:      NewResponseQueue(),
		deliverer:  cfg.Deliverer,
		quiet:      cfg.QuietHours,
		telemetry:  cfg.Telemetry,
		metrics:    cfg.Metrics,
		clock:      clock,
	}
	a.quick = NewQuickMatcher(cfg.Name, a.requestStop)

	schedOpts := []SchedulerOption{WithClock(clock)}
	if cfg.PollInterval > 0 {
		schedOpts = append(schedOpts, WithPollInterval(cfg.PollInterval))
	}
	if cfg.Metrics != nil {
		schedOpts = append(schedOpts, WithFiredCallback(cfg.Metrics.CountReminderFired))
	}
	a.scheduler = NewScheduler(cfg.Deliverer, schedOpts...)
	a.executor = NewExecutor(cfg.Name, a.scheduler, cfg.Collaborators, clock)

	return a, nil
}

// Name returns the assistant's configured name.
func (a *Assistant) Name() string { return a.name }

// Scheduler exposes the reminder scheduler.
func (a *Assistant) Scheduler() *Scheduler { return a.scheduler }

// Running reports whether the assistant accepts input. The shutdown
// quick pattern clears this flag.
func (a *Assistant) Running() bool { return a.running.Load() }

func (a *Assistant) requestStop() {
	a.running.Store(false)
}

// Start launches the scheduler polling loop and the response consumer.
func (a *Assistant) Start(ctx context.Context) {
	a.running.Store(true)
	loopCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.consumerDone = make(chan struct{})

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		a.scheduler.Run(loopCtx)
	}()
	go func() {
		defer a.wg.Done()
		defer close(a.consumerDone)
		a.consumeResponses(loopCtx)
	}()
}

// Stop shuts the assistant down: the consumer drains the queue up to
// the sentinel first, then the scheduler loop is cancelled.
func (a *Assistant) Stop() {
	a.stopOnce.Do(func() {
		a.running.Store(false)
		a.queue.Close()
		if a.consumerDone != nil {
			<-a.consumerDone
		}
		if a.cancel != nil {
			a.cancel()
		}
		a.wg.Wait()
	})
}

// Greet enqueues the startup greeting.
func (a *Assistant) Greet() {
	a.Respond(fmt.Sprintf("Hello, I am %s, your voice assistant. How can I help you today?", a.name))
}

// Respond enqueues a response for asynchronous delivery.
func (a *Assistant) Respond(text string) {
	if text == "" {
		return
	}
	a.queue.Enqueue(text)
	if a.metrics != nil {
		a.metrics.SetQueueDepth(a.queue.Len())
	}
}

// ProcessInput interprets one utterance and enqueues its response.
// Nothing in this path blocks on I/O except command handlers invoking
// their collaborators. Returns nil for empty input.
func (a *Assistant) ProcessInput(ctx context.Context, text string) *Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	start := time.Now()

	if reply, ok := a.quick.Match(text); ok {
		a.Respond(reply)
		a.observe("quick", start)
		return &Result{Response: reply, QuickMatched: true}
	}

	cls := a.classifier.Classify(text)
	ents := a.extractor.Extract(text)
	result := &Result{
		Intent:     cls.Intent,
		Confidence: cls.Confidence,
		Entities:   ents,
	}

	dispatch := a.dispatcher.Dispatch(text, cls, ents)
	if dispatch.IsCommand() {
		result.Command = dispatch.Command
		result.Response = a.executor.Execute(ctx, dispatch.Command, dispatch.Args)
		if a.metrics != nil {
			a.metrics.CountCommand(string(dispatch.Command))
		}
	} else {
		result.Response = dispatch.Reply
	}

	a.Respond(result.Response)

	if cls.Intent != nlu.IntentUnknown && a.telemetry != nil {
		a.telemetry.TrackCommandUsage(ctx, cls.Intent)
	}
	if a.metrics != nil {
		a.metrics.CountIntent(cls.Intent)
	}
	a.observe("dispatch", start)
	return result
}

func (a *Assistant) observe(outcome string, start time.Time) {
	if a.metrics != nil {
		a.metrics.ObserveInterpret(outcome, time.Since(start))
	}
}

// consumeResponses drains the queue with a bounded wait, delivering
// each item unless quiet hours suppress audio, until the sentinel
// arrives.
func (a *Assistant) consumeResponses(ctx context.Context) {
	for {
		item, ok := a.queue.PopWait(time.Second)
		if a.metrics != nil {
			a.metrics.SetQueueDepth(a.queue.Len())
		}
		if !ok {
			select {
			case <-ctx.Done():
				return
			default:
				continue
			}
		}
		if item == responseSentinel {
			return
		}

		slog.Info("assistant response", "text", item)
		if a.quiet != nil && a.quiet.IsQuietHours(a.clock()) {
			slog.Debug("audio delivery suppressed during quiet hours")
		} else if err := a.deliverer.Deliver(ctx, item); err != nil {
			slog.Error("failed to deliver response", "error", err)
			if a.metrics != nil {
				a.metrics.CountDeliveryError()
			}
		}
		if a.telemetry != nil {
			a.telemetry.TrackInteraction(ctx)
		}
	}
}
