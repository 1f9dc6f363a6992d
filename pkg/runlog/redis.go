package runlog

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis публикует результат выполнения отчета:
//
//	SET  <prefix>:report:<name>:state  <JSON>  EX <ttl>  - последнее состояние для опроса
//	PUB  <prefix>:report:<name>                          - событие для подписчиков
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis создает Redis publisher
func NewRedis(cfg Config) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Redis{
		client: client,
		prefix: cfg.Prefix,
		ttl:    time.Duration(cfg.TTL) * time.Second,
	}
}

// StateKey возвращает ключ последнего состояния отчета
func (p *Redis) StateKey(reportName string) string {
	return routingKey(p.prefix, reportName) + ":state"
}

// Channel возвращает канал событий отчета
func (p *Redis) Channel(reportName string) string {
	return routingKey(p.prefix, reportName)
}

// Publish вызывается независимо от исхода выполнения
func (p *Redis) Publish(ctx context.Context, result RunResult) error {
	payload, err := result.marshal()
	if err != nil {
		return err
	}

	if err := p.client.Set(ctx, p.StateKey(result.Report), payload, p.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}
	if err := p.client.Publish(ctx, p.Channel(result.Report), payload).Err(); err != nil {
		return fmt.Errorf("redis PUBLISH failed: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func (p *Redis) Close() error {
	return p.client.Close()
}
