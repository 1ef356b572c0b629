package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every tunable the server reads from the environment.
type Config struct {
	Addr string
	// TurnTimeout auto-stands a silent xidach turn holder. Zero disables.
	TurnTimeout time.Duration
	// RoomIdleTTL evicts rooms with no activity. Zero disables.
	RoomIdleTTL time.Duration
	// ResumeGrace keeps a disconnected seat for token rebind. Zero removes
	// players the moment their connection drops.
	ResumeGrace time.Duration
}

// Load reads .env if present, then the environment, falling back to defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:        envString("ADDR", ":8080"),
		TurnTimeout: envSeconds("TURN_TIMEOUT_SEC", 60*time.Second),
		RoomIdleTTL: envSeconds("ROOM_IDLE_TTL_SEC", 30*time.Minute),
		ResumeGrace: envSeconds("RESUME_GRACE_SEC", 0),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envSeconds(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}
