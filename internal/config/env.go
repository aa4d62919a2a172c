package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret string

	CORSOrigins []string

	// Settlement fee policy knobs, all overridable per deployment.
	SystemFeePercent   float64
	SystemFeeMinCents  int64
	SystemFeeMaxCents  int64
	SaccoSharePercent  float64
	DriverSharePercent float64
}

func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	return Env{
		AppAddr: appAddr,
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBUser: envOr("DB_USER", "root"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: envOr("DB_HOST", "127.0.0.1:3306"),
		DBName: envOr("DB_NAME", "safareasy"),

		JWTSecret: envOr("JWT_SECRET", "super-secret-key-change-me"),

		CORSOrigins: splitCSV(os.Getenv("CORS_ALLOWED_ORIGINS")),

		SystemFeePercent:   envFloat("SYSTEM_FEE_PERCENT", 1.0),
		SystemFeeMinCents:  envInt("SYSTEM_FEE_MIN_CENTS", 1000),
		SystemFeeMaxCents:  envInt("SYSTEM_FEE_MAX_CENTS", 10000),
		SaccoSharePercent:  envFloat("SACCO_SHARE_PERCENT", 9.0),
		DriverSharePercent: envFloat("DRIVER_SHARE_PERCENT", 44.44),
	}
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("warning: %s is not an integer, using default", key)
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("warning: %s is not a number, using default", key)
		return fallback
	}
	return f
}

func splitCSV(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
