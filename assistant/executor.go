package assistant

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"
)

// Handler executes one command. Args shape is command-specific: nil,
// int, float64, string, or an argument pair struct.
type Handler func(ctx context.Context, args any) (string, error)

// timerScheduler is the slice of the scheduler the executor needs.
type timerScheduler interface {
	SetTimer(minutes float64) string
	SetReminder(message string, hours float64) string
}

var jokes = []string{
	"Why don't scientists trust atoms? Because they make up everything!",
	"Why did the scarecrow win an award? He was outstanding in his field!",
	"I told my wife she was drawing her eyebrows too high. She looked surprised.",
	"What do you call a fake noodle? An impasta!",
	"Why don't eggs tell jokes? They'd crack each other up.",
}

// Executor maps command IDs to handlers. The registry is built once at
// startup; lookups never use reflection or naming conventions. A
// handler failure is converted to a descriptive error string so the
// pipeline never crashes on a collaborator failure.
type Executor struct {
	name     string
	handlers map[CommandID]Handler
}

// NewExecutor builds the handler registry. scheduler receives timer and
// reminder commands; collab supplies every other external service and
// may have nil fields.
func NewExecutor(name string, scheduler timerScheduler, collab Collaborators, clock func() time.Time) *Executor {
	if clock == nil {
		clock = time.Now
	}
	e := &Executor{name: name}
	e.handlers = map[CommandID]Handler{
		CommandHelp: func(_ context.Context, _ any) (string, error) {
			return e.helpText(), nil
		},
		CommandGetTime: func(_ context.Context, _ any) (string, error) {
			now := clock()
			return fmt.Sprintf("It's %s on %s.",
				now.Format("3:04 PM"), now.Format("Monday, January 2, 2006")), nil
		},
		CommandJoke: func(_ context.Context, _ any) (string, error) {
			return jokes[rand.Intn(len(jokes))], nil
		},
		CommandTimer: func(_ context.Context, args any) (string, error) {
			minutes, ok := args.(float64)
			if !ok {
				minutes = 5
			}
			return scheduler.SetTimer(minutes), nil
		},
		CommandReminder: func(_ context.Context, args any) (string, error) {
			ra, ok := args.(ReminderArgs)
			if !ok {
				return "I couldn't understand that reminder. Try: remind me to <task> in <n> hours.", nil
			}
			return scheduler.SetReminder(ra.Task, ra.Hours), nil
		},
		CommandWeather: func(ctx context.Context, args any) (string, error) {
			location, _ := args.(string)
			if location == "" {
				location = "local"
			}
			if collab.Weather == nil {
				return fmt.Sprintf("I'd check the weather for %s, but I don't have a weather service configured.", location), nil
			}
			return collab.Weather.Current(ctx, location)
		},
		CommandNews: func(ctx context.Context, args any) (string, error) {
			category, _ := args.(string)
			if collab.News == nil {
				return "I don't have a news service configured.", nil
			}
			return collab.News.Headlines(ctx, category)
		},
		CommandCalendar: func(ctx context.Context, args any) (string, error) {
			days, ok := args.(int)
			if !ok {
				days = 1
			}
			if collab.Calendar == nil {
				return "I don't have a calendar service configured.", nil
			}
			return collab.Calendar.Upcoming(ctx, days)
		},
		CommandVolume: func(ctx context.Context, args any) (string, error) {
			direction, _ := args.(string)
			if direction == "" {
				return "I'm not sure how to change the volume. Try volume up, down, or mute.", nil
			}
			if collab.Volume == nil {
				return fmt.Sprintf("Volume %s is not available here.", direction), nil
			}
			return collab.Volume.Adjust(ctx, direction)
		},
		CommandMath: func(_ context.Context, args any) (string, error) {
			expr, _ := args.(string)
			if expr == "" {
				return "What would you like me to calculate?", nil
			}
			if collab.Math == nil {
				return "I don't have a calculator configured.", nil
			}
			return collab.Math.Evaluate(expr)
		},
		CommandYouTube: func(ctx context.Context, args any) (string, error) {
			query, _ := args.(string)
			if collab.Media == nil {
				return fmt.Sprintf("I'd play %s on YouTube, but no media player is configured.", query), nil
			}
			return collab.Media.PlayYouTube(ctx, query)
		},
		CommandSpotify: func(ctx context.Context, args any) (string, error) {
			query, _ := args.(string)
			if collab.Media == nil {
				return fmt.Sprintf("I'd play %s on Spotify, but no media player is configured.", query), nil
			}
			return collab.Media.PlaySpotify(ctx, query)
		},
		CommandApp: func(ctx context.Context, args any) (string, error) {
			appName, _ := args.(string)
			if collab.Apps == nil {
				return fmt.Sprintf("I can't open %s on this system.", appName), nil
			}
			return collab.Apps.Open(ctx, appName)
		},
		CommandSmartHome: func(ctx context.Context, args any) (string, error) {
			sh, ok := args.(SmartHomeArgs)
			if !ok {
				return "Which device should I switch, and on or off?", nil
			}
			if collab.Home == nil {
				return "No smart home devices are configured.", nil
			}
			return collab.Home.Switch(ctx, sh.Device, sh.Action)
		},
		CommandDice: func(_ context.Context, args any) (string, error) {
			sides, ok := args.(int)
			if !ok || sides <= 0 {
				sides = 6
			}
			return fmt.Sprintf("You rolled a %d (d%d).", 1+rand.Intn(sides), sides), nil
		},
		CommandCoin: func(_ context.Context, _ any) (string, error) {
			if rand.Intn(2) == 0 {
				return "It's heads!", nil
			}
			return "It's tails!", nil
		},
		CommandSummarize: func(ctx context.Context, args any) (string, error) {
			text, _ := args.(string)
			if collab.Brain == nil {
				return "I can't summarize without a language model configured.", nil
			}
			return collab.Brain.Summarize(ctx, text)
		},
		CommandUnderstand: func(ctx context.Context, args any) (string, error) {
			text, _ := args.(string)
			if collab.Brain == nil {
				return "I can't analyze that without a language model configured.", nil
			}
			return collab.Brain.Answer(ctx, text)
		},
	}

	search := func(ctx context.Context, args any) (string, error) {
		query, _ := args.(string)
		query = strings.TrimSpace(query)
		if query == "" {
			return "What would you like me to search for?", nil
		}
		if collab.Searcher != nil {
			return collab.Searcher.Search(ctx, query)
		}
		return fmt.Sprintf("Searching for %s: https://www.google.com/search?q=%s",
			query, url.QueryEscape(query)), nil
	}
	e.handlers[CommandSearch] = search
	e.handlers[CommandWebSearch] = search

	monitor := func(target string) Handler {
		return func(ctx context.Context, args any) (string, error) {
			t := target
			if t == "" {
				t, _ = args.(string)
			}
			if collab.System == nil {
				return "System monitoring is not available.", nil
			}
			return collab.System.Report(ctx, t)
		}
	}
	e.handlers[CommandSystemStatus] = monitor("status")
	e.handlers[CommandNetworkStatus] = monitor("network")
	e.handlers[CommandProcesses] = monitor("processes")
	e.handlers[CommandMonitor] = monitor("")

	return e
}

// Execute runs the handler for command. An unregistered command or a
// handler failure yields a textual response, never a panic or error.
func (e *Executor) Execute(ctx context.Context, command CommandID, args any) string {
	handler, ok := e.handlers[command]
	if !ok {
		return fmt.Sprintf("Unknown command: %s", command)
	}
	result, err := handler(ctx, args)
	if err != nil {
		return fmt.Sprintf("Error executing command %s: %s", command, err)
	}
	return result
}

// Commands returns the registered command IDs, unordered.
func (e *Executor) Commands() []CommandID {
	ids := make([]CommandID, 0, len(e.handlers))
	for id := range e.handlers {
		ids = append(ids, id)
	}
	return ids
}

func (e *Executor) helpText() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Hi! I'm %s, your voice assistant. Here are things I can help you with:\n\n", e.name))
	b.WriteString("- Weather information: 'What's the weather like?'\n")
	b.WriteString("- Time and date: 'What time is it?'\n")
	b.WriteString("- Reminders: 'Remind me to call John in 2 hours'\n")
	b.WriteString("- Timers: 'Set a timer for 5 minutes'\n")
	b.WriteString("- Web searches: 'Search for recipes for lasagna'\n")
	b.WriteString("- Play media: 'Play Bohemian Rhapsody on YouTube'\n")
	b.WriteString("- Volume control: 'Turn the volume up/down'\n")
	b.WriteString("- Jokes: 'Tell me a joke'\n")
	b.WriteString("- Math calculations: 'What is 15 times 7?'\n")
	b.WriteString("- Open applications: 'Open calculator'\n\n")
	b.WriteString("You can also ask me questions like 'What's your name?' or 'How are you?'")
	return b.String()
}
