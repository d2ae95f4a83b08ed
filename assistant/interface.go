// Package assistant implements the command interpretation pipeline:
// quick-pattern short-circuits, command dispatch, command execution, a
// background reminder scheduler, and a decoupled response queue.
package assistant

import (
	"context"
	"time"
)

// Deliverer delivers a response to the user (speech, console print,
// chat message). Used by the response consumer loop and directly by the
// scheduler when a reminder fires.
type Deliverer interface {
	Deliver(ctx context.Context, text string) error
}

// QuietHoursPolicy reports whether audio delivery should currently be
// suppressed.
type QuietHoursPolicy interface {
	IsQuietHours(now time.Time) bool
}

// Telemetry receives interaction and command-usage counters. The core
// never consumes a return value from it.
type Telemetry interface {
	TrackInteraction(ctx context.Context)
	TrackCommandUsage(ctx context.Context, command string)
}

// MathEvaluator evaluates a spoken arithmetic query such as
// "15 times 7" and returns the result as text.
type MathEvaluator interface {
	Evaluate(expr string) (string, error)
}

// Brain generates free-form answers for commands that need language
// understanding beyond the rule-based pipeline.
type Brain interface {
	Answer(ctx context.Context, text string) (string, error)
	Summarize(ctx context.Context, text string) (string, error)
}

// WeatherService reports current weather for a location.
type WeatherService interface {
	Current(ctx context.Context, location string) (string, error)
}

// NewsService returns headlines for a category.
type NewsService interface {
	Headlines(ctx context.Context, category string) (string, error)
}

// CalendarService summarizes upcoming events within the next days.
type CalendarService interface {
	Upcoming(ctx context.Context, days int) (string, error)
}

// MediaPlayer starts playback on a streaming service.
type MediaPlayer interface {
	PlayYouTube(ctx context.Context, query string) (string, error)
	PlaySpotify(ctx context.Context, query string) (string, error)
}

// AppLauncher opens a local application by name.
type AppLauncher interface {
	Open(ctx context.Context, name string) (string, error)
}

// VolumeController adjusts output volume. Direction is one of
// "up", "down", "mute", "unmute".
type VolumeController interface {
	Adjust(ctx context.Context, direction string) (string, error)
}

// SmartHome switches a named device on or off.
type SmartHome interface {
	Switch(ctx context.Context, device, action string) (string, error)
}

// SystemMonitor reports host telemetry. Target is one of "status",
// "network", "processes", "cpu", "memory", "gpu", "all".
type SystemMonitor interface {
	Report(ctx context.Context, target string) (string, error)
}

// WebSearcher runs a web search and returns a textual result.
type WebSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Collaborators bundles the external services the executor may call.
// Every field is optional; handlers degrade to a descriptive response
// when a collaborator is absent.
type Collaborators struct {
	Weather  WeatherService
	News     NewsService
	Calendar CalendarService
	Media    MediaPlayer
	Apps     AppLauncher
	Volume   VolumeController
	Home     SmartHome
	System   SystemMonitor
	Searcher WebSearcher
	Math     MathEvaluator
	Brain    Brain
}

// FanoutDeliverer delivers to every wrapped deliverer in order. The
// first error is returned after all deliverers ran.
type FanoutDeliverer []Deliverer

func (f FanoutDeliverer) Deliver(ctx context.Context, text string) error {
	var firstErr error
	for _, d := range f {
		if err := d.Deliver(ctx, text); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
