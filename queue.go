/*
Copyright 2024 Linkmint Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package linkmint

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"github.com/linkmint/linkmint/config"
	redis_db "github.com/linkmint/linkmint/internal/redis-db"
	"github.com/linkmint/linkmint/model"
)

// Queue hands click analytics records to the workers so the redirect
// path never waits on an analytics write.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

// NewQueue initializes a new Queue instance with the provided configuration.
func NewQueue(conf *config.Configuration) *Queue {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns, conf.Redis.SkipTLSVerify)
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}

	queueOptions := asynq.RedisClientOpt{Addr: redisOption.Addr, Password: redisOption.Password, DB: redisOption.DB, TLSConfig: redisOption.TLSConfig}
	client := asynq.NewClient(queueOptions)
	inspector := asynq.NewInspector(queueOptions)
	return &Queue{
		Client:    client,
		Inspector: inspector,
	}
}

// EnqueueClick enqueues one click analytics record. The task ID is the
// click ID so a retried enqueue never duplicates the record.
func (q *Queue) EnqueueClick(ctx context.Context, event *model.ClickEvent) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	payload, err := event.ToJSON()
	if err != nil {
		return err
	}

	taskOptions := []asynq.Option{
		asynq.TaskID(event.ClickID),
		asynq.Queue(cfg.Queue.ClickQueue),
		asynq.MaxRetry(cfg.Queue.MaxRetryAttempts),
	}
	task := asynq.NewTask(cfg.Queue.ClickQueue, payload, taskOptions...)
	info, err := q.Client.EnqueueContext(ctx, task)
	if err != nil {
		log.Println(err, info)
		return err
	}
	return nil
}
