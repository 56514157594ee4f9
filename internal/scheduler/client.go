package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"marmurfit_voicebot/internal/leads/domain"
	"marmurfit_voicebot/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues lead deliveries on Redis so they survive restarts.
type Client struct {
	client   *asynq.Client
	queue    string
	maxRetry int
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		client:   asynq.NewClient(opt),
		queue:    queueName(cfg),
		maxRetry: cfg.GetLeadDeliveryMaxRetry(),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Publish enqueues the lead. The lead ID doubles as the task ID, so
// enqueueing the same lead twice is rejected by asynq.
func (c *Client) Publish(ctx context.Context, lead domain.Lead) error {
	task, err := NewLeadDeliverTask(LeadDeliverPayload{Lead: lead})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, c.enqueueOptions(lead)...)
	if err != nil {
		return fmt.Errorf("enqueue lead delivery: %w", err)
	}
	return nil
}

func (c *Client) enqueueOptions(lead domain.Lead) []asynq.Option {
	return []asynq.Option{
		asynq.Queue(c.queue),
		asynq.MaxRetry(c.maxRetry),
		asynq.TaskID(lead.ID.String()),
		asynq.Timeout(2 * time.Minute),
		asynq.Retention(24 * time.Hour),
	}
}

// NewRedisClient opens a go-redis client on the scheduler's Redis.
func NewRedisClient(cfg config.SchedulerConfig) (*redis.Client, error) {
	opt, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

func queueName(cfg config.SchedulerConfig) string {
	if q := cfg.GetAsynqQueueName(); q != "" {
		return q
	}
	return "default"
}

func redisOptions(cfg config.SchedulerConfig) (*redis.Options, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if cfg.GetRedisTLSInsecure() {
			clone.InsecureSkipVerify = true
		}
		opt.TLSConfig = clone
	} else if cfg.GetRedisTLSInsecure() {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return opt, nil
}

func redisClientOpt(cfg config.SchedulerConfig) (asynq.RedisClientOpt, error) {
	opt, err := redisOptions(cfg)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
