package bootstrap

import (
	"go_upload_broker/config"
	"go_upload_broker/pkg/logging"
	"go_upload_broker/platform/cache"
	"go_upload_broker/platform/database"
	"go_upload_broker/platform/queue"
	"go_upload_broker/platform/redis"
	"go_upload_broker/platform/storage"
)

type Infrastructure struct {
	DB      *database.DB
	Redis   *redis.Service
	Storage *storage.Service
	Queue   cache.MessageQueue
	Cache   cache.CacheService
}

func NewInfrastructure(cfg *config.Config) (*Infrastructure, error) {
	infra := &Infrastructure{}

	// database
	db, err := database.InitPostgres(cfg)
	if err != nil {
		return nil, err
	}
	infra.DB = db
	if err := infra.DB.AutoMigrate(); err != nil {
		return nil, err
	}

	// redis services
	redisService, err := redis.InitRedis(cfg)
	if err != nil {
		logging.Logger.Error("fail Initializing Redis", "error", err)
		return nil, err
	}
	infra.Redis = redisService

	// storage services
	storageService, err := storage.InitStorageService(cfg)
	if err != nil {
		logging.Logger.Error("fail Initializing Bucket", "error", err)
		return nil, err
	}
	infra.Storage = storageService

	// message queue
	infra.Queue = queue.NewMessageService(redisService)

	// cache
	l1CacheService := cache.InitL1Cache()
	infra.Cache = cache.NewCacheService(l1CacheService, redisService)

	return infra, nil
}

func (infra *Infrastructure) Shutdown() error {
	if err := infra.DB.Close(); err != nil {
		logging.Logger.Error("fail closing database", "error", err)
		return err
	}
	if err := infra.Redis.Rdb.Close(); err != nil {
		logging.Logger.Error("fail closing redis", "error", err)
		return err
	}
	return nil
}
