package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// IRedis caches finished analysis results keyed by the uploaded image's
// content hash, so re-uploading the same scan skips the model calls.
type IRedis interface {
	GetResult(ctx context.Context, imageHash string) (string, error)
	SetResult(ctx context.Context, imageHash string, payload string, expiration time.Duration) error
}

// ErrCacheMiss is returned when no result is cached for the hash.
var ErrCacheMiss = errors.New("analysis result not cached")

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func (r *redisClient) GetResult(ctx context.Context, imageHash string) (string, error) {
	val, err := r.client.Get(ctx, resultKey(imageHash)).Result()
	if errors.Is(err, redis.Nil) {
		logrus.Debug(fmt.Sprintf("No cached analysis for image %s", imageHash))
		return "", ErrCacheMiss
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error reading cached analysis for image %s: %v", imageHash, err))
		return "", err
	}
	logrus.Debug(fmt.Sprintf("Cache hit for image %s", imageHash))
	return val, nil
}

func (r *redisClient) SetResult(ctx context.Context, imageHash string, payload string, expiration time.Duration) error {
	err := r.client.Set(ctx, resultKey(imageHash), payload, expiration).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error caching analysis for image %s: %v", imageHash, err))
		return err
	}
	logrus.Debug(fmt.Sprintf("Cached analysis for image %s with expiration %v", imageHash, expiration))
	return nil
}

func resultKey(imageHash string) string {
	return "analysis:result:" + imageHash
}
