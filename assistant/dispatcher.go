package assistant

import (
	"regexp"
	"strconv"
	"strings"

	"natasha/nlu"
)

// CommandID identifies an executable command in the executor registry.
type CommandID string

const (
	CommandHelp          CommandID = "help"
	CommandGetTime       CommandID = "get_time"
	CommandWeather       CommandID = "weather"
	CommandTimer         CommandID = "timer"
	CommandReminder      CommandID = "reminder"
	CommandVolume        CommandID = "volume"
	CommandMath          CommandID = "math"
	CommandJoke          CommandID = "joke"
	CommandWebSearch     CommandID = "web_search"
	CommandSearch        CommandID = "search"
	CommandYouTube       CommandID = "youtube"
	CommandSpotify       CommandID = "spotify"
	CommandApp           CommandID = "app"
	CommandNews          CommandID = "news"
	CommandCalendar      CommandID = "calendar"
	CommandSmartHome     CommandID = "smart_home"
	CommandDice          CommandID = "dice"
	CommandCoin          CommandID = "coin"
	CommandSystemStatus  CommandID = "system_status"
	CommandNetworkStatus CommandID = "network_status"
	CommandProcesses     CommandID = "processes"
	CommandMonitor       CommandID = "monitor"
	CommandSummarize     CommandID = "summarize"
	CommandUnderstand    CommandID = "understand"
)

// Dispatch is the result of mapping an utterance to an action: either a
// plain conversational reply, or a command with arguments for the
// executor.
type Dispatch struct {
	Reply   string
	Command CommandID
	Args    any
}

// IsCommand reports whether the dispatch carries a command rather than
// a direct reply.
func (d Dispatch) IsCommand() bool {
	return d.Command != ""
}

// ReminderArgs is the argument pair of the reminder command.
type ReminderArgs struct {
	Task  string
	Hours float64
}

// SmartHomeArgs is the argument pair of the smart_home command.
type SmartHomeArgs struct {
	Device string
	Action string
}

var (
	timerArgRegex    = regexp.MustCompile(`(\d+)\s*(minute|minutes|min|second|seconds|sec)`)
	reminderArgRegex = regexp.MustCompile(`remind\s+me\s+to\s+(.+?)\s+in\s+(\d+)\s*(hour|hours|minute|minutes|min)`)
	smartHomeRegex   = regexp.MustCompile(`\bturn\s+(on|off)\s+(.+)`)
	diceSidesRegex   = regexp.MustCompile(`\d+`)
)

// Dispatcher turns a classification plus extracted entities into a
// concrete Dispatch. It never yields an empty result for non-empty
// input: unmapped utterances fall through to a web search.
type Dispatcher struct {
	registry *nlu.Registry
}

// NewDispatcher creates a dispatcher over the compiled registry, which
// supplies canned responses for conversational intents.
func NewDispatcher(registry *nlu.Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch maps an utterance to a reply or a (command, args) pair.
func (d *Dispatcher) Dispatch(text string, cls nlu.Classification, _ map[string][]nlu.Occurrence) Dispatch {
	lower := strings.ToLower(text)

	switch cls.Intent {
	case "greeting", "farewell", "gratitude":
		return Dispatch{Reply: d.cannedReply(cls.Intent)}
	case "help":
		return Dispatch{Command: CommandHelp}
	case "weather":
		return Dispatch{Command: CommandWeather, Args: "local"}
	case "time":
		return Dispatch{Command: CommandGetTime}
	case "timer":
		return Dispatch{Command: CommandTimer, Args: parseTimerMinutes(lower)}
	case "reminder":
		return Dispatch{Command: CommandReminder, Args: parseReminderArgs(lower)}
	case "volume":
		return Dispatch{Command: CommandVolume, Args: parseVolumeDirection(lower)}
	case "calculation":
		return Dispatch{Command: CommandMath, Args: stripMathTriggers(lower)}
	case "joke":
		return Dispatch{Command: CommandJoke}
	case "search":
		return Dispatch{Command: CommandWebSearch, Args: strings.TrimSpace(strings.ReplaceAll(lower, "search", ""))}
	case "play":
		return d.dispatchPlay(lower)
	}

	return d.dispatchFallback(lower)
}

// cannedReply picks a registry response for a conversational intent,
// falling back to a fixed phrase when the intent defines none.
func (d *Dispatcher) cannedReply(intent string) string {
	if reply := d.registry.ResponseFor(intent); reply != "" {
		return reply
	}
	switch intent {
	case "farewell":
		return "Goodbye! Have a nice day."
	case "gratitude":
		return "You're welcome! Is there anything else I can help you with?"
	default:
		return "Hello! How can I help you today?"
	}
}

// parseTimerMinutes finds a number followed by a time-unit word and
// returns the duration in minutes; seconds are converted. Defaults to
// 5 minutes when no number is present.
func parseTimerMinutes(lower string) float64 {
	m := timerArgRegex.FindStringSubmatch(lower)
	if m == nil {
		return 5
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 5
	}
	if strings.HasPrefix(m[2], "sec") {
		amount /= 60
	}
	return amount
}

// parseReminderArgs parses "remind me to <task> in <n> <unit>". Minutes
// are converted to hours. Returns nil when the phrase does not parse.
func parseReminderArgs(lower string) any {
	m := reminderArgRegex.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}
	amount, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil
	}
	if strings.HasPrefix(m[3], "min") {
		amount /= 60
	}
	return ReminderArgs{Task: m[1], Hours: amount}
}

// parseVolumeDirection detects direction keywords; no numeric parsing
// is attempted here.
func parseVolumeDirection(lower string) any {
	switch {
	case strings.Contains(lower, "unmute"):
		return "unmute"
	case strings.Contains(lower, "up"), strings.Contains(lower, "increase"):
		return "up"
	case strings.Contains(lower, "down"), strings.Contains(lower, "decrease"), strings.Contains(lower, "lower"):
		return "down"
	case strings.Contains(lower, "mute"):
		return "mute"
	}
	return nil
}

// stripMathTriggers removes leading trigger words and passes the
// remainder verbatim as the math query.
func stripMathTriggers(lower string) string {
	expr := lower
	for _, trigger := range []string{"calculate", "compute", "what is"} {
		expr = strings.ReplaceAll(expr, trigger, "")
	}
	return strings.TrimSpace(expr)
}

func (d *Dispatcher) dispatchPlay(lower string) Dispatch {
	content := strings.TrimSpace(strings.ReplaceAll(lower, "play", ""))
	if strings.Contains(lower, "spotify") {
		content = strings.TrimSpace(strings.ReplaceAll(content, "on spotify", ""))
		return Dispatch{Command: CommandSpotify, Args: content}
	}
	content = strings.TrimSpace(strings.ReplaceAll(content, "on youtube", ""))
	return Dispatch{Command: CommandYouTube, Args: content}
}

// dispatchFallback applies the free-text heuristics, in priority order,
// for utterances whose intent is unknown or has no direct mapping. The
// final web-search fallback guarantees a result for non-empty input.
func (d *Dispatcher) dispatchFallback(lower string) Dispatch {
	if strings.Contains(lower, "open") && len(strings.Fields(lower)) >= 2 {
		return Dispatch{Command: CommandApp, Args: strings.TrimSpace(strings.ReplaceAll(lower, "open", ""))}
	}
	if strings.Contains(lower, "search for") {
		return Dispatch{Command: CommandSearch, Args: strings.TrimSpace(strings.ReplaceAll(lower, "search for", ""))}
	}
	if strings.Contains(lower, "play") {
		return d.dispatchPlay(lower)
	}
	if m := smartHomeRegex.FindStringSubmatch(lower); m != nil {
		return Dispatch{Command: CommandSmartHome, Args: SmartHomeArgs{Device: strings.TrimSpace(m[2]), Action: m[1]}}
	}
	if strings.Contains(lower, "news") {
		return Dispatch{Command: CommandNews, Args: newsCategory(lower)}
	}
	if strings.HasPrefix(lower, "schedule") || strings.Contains(lower, "calendar") {
		return Dispatch{Command: CommandCalendar, Args: calendarDays(lower)}
	}
	if strings.HasPrefix(lower, "roll") {
		return Dispatch{Command: CommandDice, Args: diceSides(lower)}
	}
	if strings.HasPrefix(lower, "flip") {
		return Dispatch{Command: CommandCoin}
	}
	if strings.HasPrefix(lower, "system") {
		switch {
		case strings.Contains(lower, "network"):
			return Dispatch{Command: CommandNetworkStatus}
		case strings.Contains(lower, "processes"):
			return Dispatch{Command: CommandProcesses}
		default:
			return Dispatch{Command: CommandSystemStatus}
		}
	}
	if strings.HasPrefix(lower, "monitor") {
		return Dispatch{Command: CommandMonitor, Args: monitorTarget(lower)}
	}
	if strings.HasPrefix(lower, "summarize") {
		return Dispatch{Command: CommandSummarize, Args: strings.TrimSpace(strings.TrimPrefix(lower, "summarize"))}
	}
	if strings.HasPrefix(lower, "understand") {
		return Dispatch{Command: CommandUnderstand, Args: strings.TrimSpace(strings.TrimPrefix(lower, "understand"))}
	}

	return Dispatch{Command: CommandWebSearch, Args: lower}
}

func newsCategory(lower string) string {
	switch {
	case strings.Contains(lower, "tech"):
		return "technology"
	case strings.Contains(lower, "sports"):
		return "sports"
	case strings.Contains(lower, "business"):
		return "business"
	}
	return "general"
}

func calendarDays(lower string) int {
	switch {
	case strings.Contains(lower, "week"):
		return 7
	case strings.Contains(lower, "month"):
		return 30
	}
	return 1
}

func diceSides(lower string) int {
	if m := diceSidesRegex.FindString(lower); m != "" {
		if sides, err := strconv.Atoi(m); err == nil && sides > 0 {
			return sides
		}
	}
	return 6
}

func monitorTarget(lower string) string {
	for _, target := range []string{"cpu", "memory", "gpu"} {
		if strings.Contains(lower, target) {
			return target
		}
	}
	return "all"
}
