package assistant

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"natasha/nlu"
)

type fakeQuietHours struct{ quiet bool }

func (f *fakeQuietHours) IsQuietHours(time.Time) bool { return f.quiet }

type fakeTelemetry struct {
	mu           sync.Mutex
	interactions int
	usage        map[string]int
}

func (f *fakeTelemetry) TrackInteraction(context.Context) {
	f.mu.Lock()
	f.interactions++
	f.mu.Unlock()
}

func (f *fakeTelemetry) TrackCommandUsage(_ context.Context, command string) {
	f.mu.Lock()
	if f.usage == nil {
		f.usage = map[string]int{}
	}
	f.usage[command]++
	f.mu.Unlock()
}

func newTestAssistant(t *testing.T, cfg Config) *Assistant {
	t.Helper()
	if cfg.Registry == nil {
		registry, err := nlu.NewRegistry(nlu.DefaultDocument())
		if err != nil {
			t.Fatalf("failed to compile default document: %v", err)
		}
		cfg.Registry = registry
	}
	if cfg.Deliverer == nil {
		cfg.Deliverer = &recordingDeliverer{}
	}
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestNew_RequiresRegistryAndDeliverer(t *testing.T) {
	if _, err := New(Config{Deliverer: &recordingDeliverer{}}); err == nil {
		t.Error("expected error without registry")
	}
	registry, err := nlu.NewRegistry(nlu.DefaultDocument())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(Config{Registry: registry}); err == nil {
		t.Error("expected error without deliverer")
	}
}

func TestProcessInput_EmptyInputIgnored(t *testing.T) {
	a := newTestAssistant(t, Config{})

	if got := a.ProcessInput(context.Background(), "   "); got != nil {
		t.Errorf("expected nil result for blank input, got %+v", got)
	}
	if a.queue.Len() != 0 {
		t.Errorf("blank input enqueued a response")
	}
}

func TestProcessInput_QuickPatternBypassesClassifier(t *testing.T) {
	a := newTestAssistant(t, Config{Name: "Natasha"})

	got := a.ProcessInput(context.Background(), "what is your name")
	if got == nil || !got.QuickMatched {
		t.Fatalf("expected quick-matched result, got %+v", got)
	}
	if got.Response != "My name is Natasha." {
		t.Errorf("unexpected response: %q", got.Response)
	}
	if got.Intent != "" || got.Command != "" {
		t.Errorf("quick match should skip classification, got %+v", got)
	}
}

func TestProcessInput_JokeEndToEnd(t *testing.T) {
	a := newTestAssistant(t, Config{})

	got := a.ProcessInput(context.Background(), "tell me a joke")
	if got == nil {
		t.Fatal("expected a result")
	}
	if got.Intent != "joke" {
		t.Errorf("expected joke intent, got %q", got.Intent)
	}
	if got.Command != CommandJoke {
		t.Errorf("expected joke command, got %q", got.Command)
	}
	if got.Response == "" {
		t.Error("expected a joke in the response")
	}
	if a.queue.Len() != 1 {
		t.Errorf("expected the response enqueued, len=%d", a.queue.Len())
	}
}

func TestProcessInput_UnknownFallsBackToSearch(t *testing.T) {
	a := newTestAssistant(t, Config{})

	got := a.ProcessInput(context.Background(), "zyzzyva population trends")
	if got == nil {
		t.Fatal("expected a result")
	}
	if got.Intent != nlu.IntentUnknown {
		t.Errorf("expected unknown intent, got %q", got.Intent)
	}
	if got.Command != CommandWebSearch {
		t.Errorf("expected web search fallback, got %q", got.Command)
	}
	if got.Response == "" {
		t.Error("expected non-empty response")
	}
}

func TestProcessInput_TracksCommandUsage(t *testing.T) {
	telemetry := &fakeTelemetry{}
	a := newTestAssistant(t, Config{Telemetry: telemetry})

	a.ProcessInput(context.Background(), "tell me a joke")
	a.ProcessInput(context.Background(), "complete gibberish nobody classifies")

	telemetry.mu.Lock()
	defer telemetry.mu.Unlock()
	if telemetry.usage["joke"] != 1 {
		t.Errorf("expected joke usage tracked once, got %v", telemetry.usage)
	}
	if telemetry.usage[nlu.IntentUnknown] != 0 {
		t.Errorf("unknown intent must not be tracked, got %v", telemetry.usage)
	}
}

func TestStartStop_DeliversQueuedResponses(t *testing.T) {
	deliverer := &recordingDeliverer{}
	a := newTestAssistant(t, Config{Deliverer: deliverer})

	a.Start(context.Background())
	a.Greet()
	a.ProcessInput(context.Background(), "tell me a joke")
	a.Stop()

	got := deliverer.messages()
	if len(got) != 2 {
		t.Fatalf("expected 2 deliveries, got %d: %v", len(got), got)
	}
	if !strings.Contains(got[0], "Hello, I am Natasha") {
		t.Errorf("expected greeting first, got %q", got[0])
	}
}

func TestStartStop_QuietHoursSuppressDelivery(t *testing.T) {
	deliverer := &recordingDeliverer{}
	telemetry := &fakeTelemetry{}
	a := newTestAssistant(t, Config{
		Deliverer:  deliverer,
		QuietHours: &fakeQuietHours{quiet: true},
		Telemetry:  telemetry,
	})

	a.Start(context.Background())
	a.Respond("late night response")
	a.Stop()

	if got := deliverer.messages(); len(got) != 0 {
		t.Errorf("expected no deliveries during quiet hours, got %v", got)
	}
	telemetry.mu.Lock()
	defer telemetry.mu.Unlock()
	if telemetry.interactions != 1 {
		t.Errorf("suppressed responses still count as interactions, got %d", telemetry.interactions)
	}
}

func TestShutdownPhraseClearsRunningFlag(t *testing.T) {
	a := newTestAssistant(t, Config{})
	a.running.Store(true)

	got := a.ProcessInput(context.Background(), "shutdown")
	if got == nil || got.Response != "Shutting down. Goodbye!" {
		t.Fatalf("unexpected shutdown result: %+v", got)
	}
	if a.Running() {
		t.Error("shutdown phrase did not clear the running flag")
	}
}

func TestStop_Idempotent(t *testing.T) {
	a := newTestAssistant(t, Config{})
	a.Start(context.Background())
	a.Stop()
	a.Stop()
}
