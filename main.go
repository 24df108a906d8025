package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"moremorelove/pkg/bot"
	"moremorelove/pkg/cache"
	"moremorelove/pkg/config"
	"moremorelove/pkg/environment"
	"moremorelove/pkg/gal"
	"moremorelove/pkg/illustrate"
	"moremorelove/pkg/llm"
)

func main() {
	// Load config.yml
	cfg, err := config.LoadConfig("config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load .env for secrets
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		log.Fatal("Missing required environment variable: DISCORD_TOKEN")
	}

	galCfg := gal.Config{
		HeroineName:     cfg.Heroine.Name,
		PlayerName:      cfg.Heroine.PlayerName,
		PersonaPrompt:   cfg.Heroine.PersonaPrompt,
		ExplicitEnabled: cfg.Gameplay.EnableExplicitMode,
		PureModeAllowed: cfg.Gameplay.AllowPureMode,
		Intensity:       cfg.Gameplay.ExplicitIntensity,
		AIEnabled:       cfg.Gameplay.EnableAIBehavior,
		StatusCardImage: cfg.Gameplay.StatusCardImage,
	}

	// LLM provider: any OpenAI-compatible endpoint. Without a key the game
	// runs on the classic script alone.
	var provider gal.Provider
	llmKey := os.Getenv("LLM_API_KEY")
	if llmKey != "" {
		provider = llm.NewClient(llmKey, cfg.ModelSettings.BaseURL, cfg.ModelSettings.Model,
			cfg.ModelSettings.Temperature, cfg.ModelSettings.TopP)
		log.Printf("LLM provider initialized (model %s)", cfg.ModelSettings.Model)
	} else {
		log.Println("LLM_API_KEY not set, AI behavior unavailable; classic script only")
	}

	// Weather cache: Redis when configured, in-process otherwise.
	var weatherCache cache.Cache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisCache, err := cache.NewRedis(redisURL, "moremorelove")
		if err != nil {
			log.Printf("Redis unavailable, using in-memory weather cache: %v", err)
			weatherCache = cache.NewMemory()
		} else {
			defer redisCache.Close()
			weatherCache = redisCache
			log.Println("Weather cache backed by Redis")
		}
	} else {
		weatherCache = cache.NewMemory()
	}

	clock := environment.NewClock(cfg.Environment.Timezone)
	weather := environment.NewWeather(weatherCache,
		time.Duration(cfg.Environment.WeatherRefreshMinutes)*time.Minute)
	envService := environment.NewService(clock, weather, cfg.Environment.WeatherLocation)

	// Game core
	store := gal.NewStore(cfg.StateFile)
	store.Load()
	classic := gal.NewClassicEngine(galCfg)
	ai := gal.NewAIEngine(galCfg, provider, envService)
	game := gal.NewGame(galCfg, store, classic, ai)

	var illustrator bot.Illustrator
	if llmKey != "" && cfg.Gameplay.StatusCardImage {
		illustrator = illustrate.NewClient(llmKey, cfg.ModelSettings.BaseURL, cfg.ModelSettings.ImageModel)
		log.Printf("Status card illustrator initialized (model %s)", cfg.ModelSettings.ImageModel)
	}

	handler := bot.NewHandler(game, galCfg.Heroine(), illustrator)

	// Create Discord session
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		log.Fatalf("Error creating Discord session: %v", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	dg.AddHandler(handler.MessageCreate)
	dg.AddHandler(handler.InteractionCreate)

	if err := dg.Open(); err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}

	handler.SetBotID(dg.State.User.ID)
	handler.SetSession(&bot.DiscordSession{Session: dg})

	guildID := os.Getenv("DISCORD_GUILD_ID") // optional: set for instant command updates while developing
	registeredCommands, err := bot.RegisterSlashCommands(dg, guildID)
	if err != nil {
		log.Fatalf("Error registering slash commands: %v", err)
	}
	defer func() {
		if err := bot.UnregisterSlashCommands(dg, guildID, registeredCommands); err != nil {
			log.Printf("Error unregistering slash commands: %v", err)
		}
	}()

	log.Printf("%s is ready and waiting. Press CTRL-C to exit.", galCfg.Heroine())

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	dg.Close()
}
