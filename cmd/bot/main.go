package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	identityRepo "github.com/voicegate/voicegate/internal/repositories/identity"
	voicelogRepo "github.com/voicegate/voicegate/internal/repositories/voicelog"

	"github.com/voicegate/voicegate/internal/handlers/discord"
	"github.com/voicegate/voicegate/internal/handlers/gameserver"
	"github.com/voicegate/voicegate/internal/services/dispatch"
	"github.com/voicegate/voicegate/internal/services/gatekeeper"
	"github.com/voicegate/voicegate/internal/services/ingest"
	"github.com/voicegate/voicegate/internal/services/messaging"
	"github.com/voicegate/voicegate/internal/web"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	botName := getEnv("BOT_NAME", "devil")
	dataDir := getEnv("DATA_DIR", "./data")
	trackedChannels := parsePairs(getEnv("TRACKED_CHANNELS", ""))
	if len(trackedChannels) == 0 {
		log.Fatal().Msg("TRACKED_CHANNELS is required, e.g. id1=General,id2=Gaming,id3=AFK")
	}

	// Flat-file repositories always exist; Redis wraps them as the primary
	// when it is reachable
	fileIdentities, err := identityRepo.NewFile(&identityRepo.FileConfig{
		DataDir: dataDir,
		Logger:  log.With().Str("component", "identity-file").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create identity file store")
	}

	fileVoiceLog, err := voicelogRepo.NewFile(&voicelogRepo.FileConfig{
		DataDir: dataDir,
		Logger:  log.With().Str("component", "voicelog-file").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create voice log file store")
	}
	defer fileVoiceLog.Close()

	identities := identityRepo.Repository(fileIdentities)
	voiceLog := voicelogRepo.Repository(fileVoiceLog)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	redisUp := redisClient.Ping(pingCtx).Err() == nil
	cancelPing()

	if redisUp {
		redisIdentities, err := identityRepo.NewRedis(&identityRepo.Config{
			RedisClient: redisClient,
			Logger:      log.With().Str("component", "identity-redis").Logger(),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create identity repository")
		}

		redisVoiceLog, err := voicelogRepo.NewRedis(&voicelogRepo.Config{
			RedisClient: redisClient,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create voice log repository")
		}

		identities, err = identityRepo.NewFallback(&identityRepo.FallbackConfig{
			Primary:  redisIdentities,
			Fallback: fileIdentities,
			Logger:   log.With().Str("component", "identity").Logger(),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create identity fallback")
		}

		voiceLog, err = voicelogRepo.NewFallback(&voicelogRepo.FallbackConfig{
			Primary:  redisVoiceLog,
			Fallback: fileVoiceLog,
			Logger:   log.With().Str("component", "voicelog").Logger(),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create voice log fallback")
		}
	} else {
		log.Warn().Msg("redis unreachable, running on flat-file stores only")
	}

	messages, err := messaging.NewService(&messaging.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create messaging service")
	}

	discordToken := getEnv("DISCORD_TOKEN", "")
	if discordToken == "" {
		log.Fatal().Msg("DISCORD_TOKEN environment variable is required")
	}

	guildID := getEnv("GUILD_ID", "")
	if guildID == "" {
		log.Fatal().Msg("GUILD_ID environment variable is required")
	}

	bot, err := discord.New(&discord.Config{
		Token:   discordToken,
		GuildID: guildID,
		Logger:  log.With().Str("component", "discord").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Discord bot")
	}

	gameClient, err := gameserver.New(&gameserver.Config{
		URL:          getEnv("GAME_WS_URL", "ws://localhost:8765/stream"),
		IdentityRepo: identities,
		DMSender:     bot,
		Logger:       log.With().Str("component", "gameserver").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create game server client")
	}

	gateSvc, err := gatekeeper.New(&gatekeeper.Config{
		IdentityRepo:    identities,
		VoiceLog:        voiceLog,
		Notifier:        gameClient,
		Kicker:          gameClient,
		VoiceLookup:     bot,
		Messages:        messages,
		Logger:          log.With().Str("component", "gatekeeper").Logger(),
		TrackedChannels: trackedChannels,
		BotUsername:     botName,
		OwnerUsername:   getEnv("OWNER_USERNAME", ""),
		OwnerExternalID: getEnv("OWNER_DISCORD_ID", ""),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gatekeeper service")
	}
	defer gateSvc.Close()

	ingestSvc, err := ingest.NewService(&ingest.Config{
		Gatekeeper:    gateSvc,
		BotName:       botName,
		TriggerPhrase: getEnv("RELAY_TRIGGER", ""),
		RelayTargets:  parsePairs(getEnv("RELAY_TARGETS", "")),
		Logger:        log.With().Str("component", "ingest").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create ingest service")
	}

	dispatchSvc, err := dispatch.NewService(&dispatch.Config{
		Gatekeeper: gateSvc,
		Messages:   messages,
		BotName:    botName,
		Logger:     log.With().Str("component", "dispatch").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create dispatch service")
	}

	dashboard, err := web.New(&web.Config{
		Addr:       getEnv("HTTP_ADDR", ":8080"),
		Gatekeeper: gateSvc,
		Kicker:     gameClient,
		Logger:     log.With().Str("component", "web").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create dashboard server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := bot.Start(gateSvc); err != nil {
		log.Fatal().Err(err).Msg("failed to start Discord bot")
	}

	if err := gameClient.Start(ctx, gateSvc, ingestSvc, dispatchSvc); err != nil {
		log.Fatal().Err(err).Msg("failed to start game server client")
	}

	dashboard.Start()

	log.Info().Str("bot", botName).Msg("voicegate is running, press CTRL-C to exit")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	log.Info().Msg("shutting down")
	cancel()
	gameClient.Stop()
	if err := bot.Stop(); err != nil {
		log.Warn().Err(err).Msg("error stopping Discord bot")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := dashboard.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("error stopping dashboard server")
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// parsePairs parses "key=value,key=value" into a map
func parsePairs(raw string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out
}
