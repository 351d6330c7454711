package app

import (
	"github.com/structa/structa-backend/internal/clients/redis"
	"github.com/structa/structa-backend/internal/logger"
)

type Clients struct {
	BlueprintCache redis.BlueprintCache
}

// wireClients builds the optional external clients. A missing or unreachable
// redis is a warning, not a startup failure: the cache interface tolerates a
// nil receiver and every lookup just misses.
func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")
	cache, err := redis.NewBlueprintCache(log)
	if err != nil {
		log.Warn("Blueprint cache unavailable, continuing without it", "error", err)
		cache = nil
	}
	return Clients{BlueprintCache: cache}
}
