package app

import (
	"strings"
	"time"

	"github.com/structa/structa-backend/internal/logger"
	"github.com/structa/structa-backend/internal/utils"
)

type Config struct {
	ServiceName     string
	HTTPAddr        string
	MetricsAddr     string
	AllowOrigins    []string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		ServiceName:     utils.GetEnv("SERVICE_NAME", "structa"),
		HTTPAddr:        utils.GetEnv("HTTP_ADDR", ":8080"),
		MetricsAddr:     utils.GetEnv("METRICS_ADDR", ":9091"),
		AllowOrigins:    strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173"), ","),
		JWTSecretKey:    utils.GetEnv("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:  utils.GetEnvAsSeconds("ACCESS_TOKEN_TTL", 3600),
		RefreshTokenTTL: utils.GetEnvAsSeconds("REFRESH_TOKEN_TTL", 86400),
	}
	if log != nil {
		log.Debug("Configuration loaded",
			"service_name", cfg.ServiceName,
			"http_addr", cfg.HTTPAddr,
			"metrics_addr", cfg.MetricsAddr,
			"allow_origins", strings.Join(cfg.AllowOrigins, ","),
			"access_token_ttl", cfg.AccessTokenTTL.String(),
			"refresh_token_ttl", cfg.RefreshTokenTTL.String(),
		)
	}
	return cfg
}
