package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"natasha/assistant"
	"natasha/internal/profile"
	"natasha/internal/version"
	"natasha/metrics"
	"natasha/nlu"
	"natasha/plugin/ai"
	"natasha/plugin/calc"
	"natasha/plugin/chat_apps/telegram"
	"natasha/plugin/speaker"
	"natasha/server"
	"natasha/store"
	"natasha/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "natasha",
	Short: `A rule-based voice assistant core. Classifies intents, extracts entities, runs commands, and schedules reminders.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Only load .env for direct binary execution (not when running
		// as a systemd service, which uses its own environment files).
		if !isRunningAsSystemdService() {
			_ = godotenv.Load()
		}
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:                viper.GetString("mode"),
			Addr:                viper.GetString("addr"),
			Port:                viper.GetInt("port"),
			Data:                viper.GetString("data"),
			Driver:              viper.GetString("driver"),
			DSN:                 viper.GetString("dsn"),
			IntentsPath:         viper.GetString("intents"),
			AssistantName:       viper.GetString("name"),
			WakeWord:            viper.GetString("wake-word"),
			PollIntervalSeconds: viper.GetInt("poll-interval"),
			Version:             version.GetCurrentVersion(viper.GetString("mode")),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			panic(err)
		}

		if err := run(instanceProfile); err != nil {
			slog.Error("assistant exited with error", "error", err)
			os.Exit(1)
		}
	},
}

func run(instanceProfile *profile.Profile) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return err
	}
	storeInstance := store.New(dbDriver, instanceProfile)
	defer storeInstance.Close()
	if err := storeInstance.Migrate(ctx); err != nil {
		return err
	}

	doc, err := nlu.LoadDocument(instanceProfile.IntentsPath)
	if err != nil {
		return err
	}
	registry, err := nlu.NewRegistry(doc)
	if err != nil {
		return err
	}

	collector := metrics.New(metrics.Config{})
	deliverer := buildDeliverer(instanceProfile)
	collaborators := buildCollaborators(instanceProfile)

	asst, err := assistant.New(assistant.Config{
		Name:          instanceProfile.AssistantName,
		Registry:      registry,
		Deliverer:     deliverer,
		QuietHours:    storeInstance,
		Telemetry:     storeInstance,
		Collaborators: collaborators,
		PollInterval:  time.Duration(instanceProfile.PollIntervalSeconds) * time.Second,
		Metrics:       collector,
	})
	if err != nil {
		return err
	}

	asst.Start(ctx)
	defer asst.Stop()
	asst.Greet()
	printGreetings(instanceProfile, registry)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, terminationSignals...)

	g, gctx := errgroup.WithContext(ctx)

	if instanceProfile.Port > 0 {
		httpServer := server.NewServer(instanceProfile, asst, storeInstance, collector)
		addr := fmt.Sprintf("%s:%d", instanceProfile.Addr, instanceProfile.Port)
		g.Go(func() error {
			return httpServer.Start(gctx, addr)
		})
	}

	g.Go(func() error {
		runConsole(gctx, asst)
		cancel()
		return nil
	})

	g.Go(func() error {
		select {
		case <-sigCh:
			slog.Info("termination signal received")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	return g.Wait()
}

// runConsole reads utterances from stdin until EOF, an exit phrase, or
// the assistant shuts itself down.
func runConsole(ctx context.Context, asst *assistant.Assistant) {
	scanner := bufio.NewScanner(os.Stdin)
	for asst.Running() {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "exit", "quit":
			return
		case "":
			continue
		}
		asst.ProcessInput(ctx, line)

		// Give the consumer a beat so the reply prints before the
		// next prompt.
		time.Sleep(50 * time.Millisecond)
	}
}

func buildDeliverer(instanceProfile *profile.Profile) assistant.Deliverer {
	deliverers := assistant.FanoutDeliverer{
		speaker.NewConsole(instanceProfile.AssistantName),
	}

	if instanceProfile.IsTelegramEnabled() {
		channel, err := telegram.NewChannel(&telegram.Config{
			BotToken: instanceProfile.TelegramBotToken,
			ChatID:   instanceProfile.TelegramChatID,
		})
		if err != nil {
			slog.Warn("failed to initialize Telegram channel", "error", err)
		} else {
			deliverers = append(deliverers, channel)
			slog.Info("Telegram channel enabled", "chat_id", instanceProfile.TelegramChatID)
		}
	}

	return deliverers
}

func buildCollaborators(instanceProfile *profile.Profile) assistant.Collaborators {
	collaborators := assistant.Collaborators{}

	evaluator, err := calc.NewEvaluator()
	if err != nil {
		slog.Warn("failed to initialize calculator", "error", err)
	} else {
		collaborators.Math = evaluator
	}

	if instanceProfile.IsLLMEnabled() {
		brain, err := ai.NewBrain(&ai.Config{
			Provider: instanceProfile.LLMProvider,
			Model:    instanceProfile.LLMModel,
			APIKey:   instanceProfile.LLMAPIKey,
			BaseURL:  instanceProfile.LLMBaseURL,
			Timeout:  instanceProfile.LLMTimeout,
		})
		if err != nil {
			slog.Warn("failed to initialize LLM brain", "error", err)
		} else {
			collaborators.Brain = brain
			slog.Info("LLM brain enabled", "provider", instanceProfile.LLMProvider, "model", instanceProfile.LLMModel)
		}
	}

	return collaborators
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 0)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of assistant, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the HTTP API")
	rootCmd.PersistentFlags().Int("port", 0, "port of the HTTP API, 0 disables it")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver (sqlite, postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name(aka. DSN)")
	rootCmd.PersistentFlags().String("intents", "", "path to the intents document")
	rootCmd.PersistentFlags().String("name", "Natasha", "assistant name")
	rootCmd.PersistentFlags().String("wake-word", "", "wake word, defaults to the lowercased name")
	rootCmd.PersistentFlags().Int("poll-interval", 30, "reminder poll interval in seconds")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn", "intents", "name", "wake-word", "poll-interval"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("natasha")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func printGreetings(instanceProfile *profile.Profile, registry *nlu.Registry) {
	fmt.Printf("Natasha %s started successfully!\n", instanceProfile.Version)

	if instanceProfile.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
		if instanceProfile.DSN != "" {
			fmt.Fprintf(os.Stderr, "Database: %s\n", instanceProfile.DSN)
		}
	}

	fmt.Printf("Data directory: %s\n", instanceProfile.Data)
	fmt.Printf("Database driver: %s\n", instanceProfile.Driver)
	fmt.Printf("Mode: %s\n", instanceProfile.Mode)
	fmt.Printf("Intents: %d intents, %d entities loaded\n",
		len(registry.IntentTags()), len(registry.EntityTags()))

	if instanceProfile.Port > 0 {
		if len(instanceProfile.Addr) == 0 {
			fmt.Printf("API running on port %d\n", instanceProfile.Port)
		} else {
			fmt.Printf("API running on %s:%d\n", instanceProfile.Addr, instanceProfile.Port)
		}
	}

	fmt.Println()
	fmt.Println(`Type a command, or "exit" to quit.`)
}

// isRunningAsSystemdService detects if the process is running under systemd.
func isRunningAsSystemdService() bool {
	return os.Getenv("INVOCATION_ID") != "" || os.Getenv("WATCHDOG_USEC") != ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
