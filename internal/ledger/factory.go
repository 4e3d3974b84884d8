package ledger

import (
	"go.uber.org/zap"
)

// New picks a Redis-backed ledger when an address is configured and falls
// back to the in-memory store otherwise. The fallback cannot suppress
// duplicates across instances, so the downgrade is logged loudly.
func New(redisAddr, redisPassword string, redisDB int, logger *zap.Logger) Store {
	if redisAddr == "" {
		logger.Info("using in-memory payment event ledger")
		return NewInMemoryStore()
	}

	store, err := NewRedisStore(redisAddr, redisPassword, redisDB)
	if err != nil {
		logger.Warn("redis unavailable, falling back to in-memory payment event ledger",
			zap.Error(err))
		return NewInMemoryStore()
	}

	logger.Info("using redis payment event ledger", zap.String("addr", redisAddr))
	return store
}
