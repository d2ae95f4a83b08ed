package nlu

// DefaultDocument returns the built-in intent and entity definitions.
// These are materialized on first start and persisted, so users can
// edit the generated document to customize matching.
func DefaultDocument() *Document {
	return &Document{
		Intents: []IntentDefinition{
			{
				Tag: "greeting",
				Patterns: []string{
					"hi", "hey", "hello", "good morning", "good afternoon",
					"good evening", "howdy", "what's up", "how are you",
				},
				Responses: []string{
					"Hello! How can I help you today?",
					"Hi there! What can I do for you?",
					"Hello! What can I assist you with?",
				},
			},
			{
				Tag: "farewell",
				Patterns: []string{
					"bye", "goodbye", "see you later", "see you",
					"have a good day", "catch you later",
				},
				Responses: []string{
					"Goodbye! Have a nice day!",
					"See you later!",
					"Take care!",
				},
			},
			{
				Tag: "gratitude",
				Patterns: []string{
					"thank you", "thanks", "appreciate it", "thank you so much",
					"thank you very much", "thanks a lot",
				},
				Responses: []string{
					"You're welcome!",
					"Anytime!",
					"Happy to help!",
				},
			},
			{
				Tag: "help",
				Patterns: []string{
					"help", "help me", "i need help", "can you help me",
					"what can you do", "how do you work", "show commands",
					"what are your features", "commands",
				},
				Responses: []string{
					"I can help with weather, time, reminders, searching the web, playing videos, and more. Just ask!",
				},
			},
			{
				Tag: "weather",
				Patterns: []string{
					"weather", "what is the weather", "how's the weather",
					"weather forecast", "is it raining", "temperature",
					"how hot is it", "how cold is it", "weather today",
					"weather tomorrow", "will it rain", "is it sunny",
				},
			},
			{
				Tag: "time",
				Patterns: []string{
					"what time is it", "current time", "tell me the time",
					"what is the time", "time now", "what's the time",
					"clock", "what time", "current date", "what is today's date",
					"what day is it", "what is the date today",
				},
			},
			{
				Tag: "reminder",
				Patterns: []string{
					"remind me", "set a reminder", "remind me to",
					"create a reminder", "set an alarm", "reminder",
				},
			},
			{
				Tag: "timer",
				Patterns: []string{
					"set a timer", "timer for", "start timer",
					"set timer", "count down", "countdown",
				},
			},
			{
				Tag: "search",
				Patterns: []string{
					"search for", "look up", "google", "find information",
					"search", "search about", "find",
				},
			},
			{
				Tag: "play",
				Patterns: []string{
					"play", "play music", "play video", "play song",
					"youtube", "play on youtube", "spotify", "play on spotify",
				},
			},
			{
				Tag: "volume",
				Patterns: []string{
					"volume up", "increase volume", "louder",
					"volume down", "decrease volume", "quieter",
					"mute", "unmute", "set volume",
				},
			},
			{
				Tag: "joke",
				Patterns: []string{
					"tell me a joke", "joke", "funny", "make me laugh",
					"tell me something funny", "humor me",
				},
			},
			{
				Tag: "calculation",
				Patterns: []string{
					"calculate", "compute", "math", "what is", "add", "subtract",
					"multiply", "divide", "plus", "minus", "times", "divided by",
				},
			},
		},
		Entities: []EntityDefinition{
			{
				Tag: "time_unit",
				Patterns: []EntityPattern{
					{Regex: `\b(minute|minutes|min)\b`, Value: "minutes"},
					{Regex: `\b(second|seconds|sec)\b`, Value: "seconds"},
					{Regex: `\b(hour|hours|hr)\b`, Value: "hours"},
					{Regex: `\b(day|days)\b`, Value: "days"},
				},
			},
			{
				Tag: "location",
				Patterns: []EntityPattern{
					{Regex: `\bin ([a-zA-Z\s]+)\b`, Group: 1},
					{Regex: `\bfor ([a-zA-Z\s]+)\b`, Group: 1},
				},
			},
			{
				Tag: "number",
				Patterns: []EntityPattern{
					{Regex: `\b(\d+)\b`, Group: 1},
				},
			},
		},
	}
}
