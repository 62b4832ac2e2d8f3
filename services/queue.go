package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"microblog/models"

	"github.com/go-redis/redis/v8"
)

const (
	FEED_FANOUT_QUEUE  = "feed_fanout_queue"
	QUEUE_WORKER_COUNT = 5
)

// FanoutTask - задача раскладки поста по лентам подписчиков
type FanoutTask struct {
	Post models.Post `json:"post"`
}

type QueueService struct {
	fanout *FanoutService
}

func NewQueueService() *QueueService {
	return &QueueService{
		fanout: NewFanoutService(),
	}
}

// StartWorkers запускает воркеры для обработки очереди fan-out
func (qs *QueueService) StartWorkers(ctx context.Context) {
	for i := 0; i < QUEUE_WORKER_COUNT; i++ {
		go qs.worker(ctx, i)
	}
}

func (qs *QueueService) worker(ctx context.Context, workerID int) {
	log.Printf("Fanout worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Fanout worker %d stopping", workerID)
			return
		default:
			// Блокирующее чтение с таймаутом, чтобы реагировать на ctx.Done
			result, err := RedisClient.BLPop(ctx, 5*time.Second, FEED_FANOUT_QUEUE).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				log.Printf("Worker %d error getting task: %v", workerID, err)
				time.Sleep(time.Second)
				continue
			}

			if len(result) < 2 {
				continue
			}

			var task FanoutTask
			if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
				log.Printf("Worker %d error unmarshaling task: %v", workerID, err)
				continue
			}

			if err := qs.fanout.FanOutPost(ctx, &task.Post); err != nil {
				log.Printf("Worker %d fanout failed for post %d: %v", workerID, task.Post.ID, err)
			}
		}
	}
}

// EnqueueFanout добавляет задачу раскладки поста в очередь
func (qs *QueueService) EnqueueFanout(ctx context.Context, post models.Post) error {
	if RedisClient == nil {
		return fmt.Errorf("redis not available")
	}

	task := FanoutTask{Post: post}
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	return RedisClient.RPush(ctx, FEED_FANOUT_QUEUE, data).Err()
}

// GetQueueStats возвращает длину очереди fan-out
func (qs *QueueService) GetQueueStats(ctx context.Context) (int64, error) {
	if RedisClient == nil {
		return 0, fmt.Errorf("redis not available")
	}
	return RedisClient.LLen(ctx, FEED_FANOUT_QUEUE).Result()
}
