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
	"embed"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/linkmint/linkmint/config"
	"github.com/linkmint/linkmint/database"
	redis_db "github.com/linkmint/linkmint/internal/redis-db"
)

// Linkmint is the affiliate attribution engine. All state lives in the
// datasource; redis backs the queue, cache and the payout batch lock.
type Linkmint struct {
	queue      *Queue
	redis      redis.UniversalClient
	datasource database.IDataSource
	gateway    PayoutGateway
}

//go:embed sql/*.sql
var SQLFiles embed.FS

var (
	// ErrAffiliateNotActive is returned when an operation requires an
	// active affiliate and the affiliate is pending, suspended or banned.
	ErrAffiliateNotActive = errors.New("affiliate is not active")

	// ErrCodeGenerationExhausted is returned when every issuance attempt
	// collided with an existing tracking code.
	ErrCodeGenerationExhausted = errors.New("could not generate a unique tracking code")

	// ErrPayoutInProgress is returned when another batch already holds
	// the payout lock for an affiliate.
	ErrPayoutInProgress = errors.New("payout already in progress for affiliate")

	// ErrInvalidTrackingCode is returned when a click or an order event
	// references a code no link was ever issued under.
	ErrInvalidTrackingCode = errors.New("invalid tracking code")

	// ErrAlreadySettled is returned when a status transition targets an
	// entry that is already paid.
	ErrAlreadySettled = errors.New("commission entry already settled")
)

// NewLinkmint initializes the engine over the provided datasource. The
// redis client connects lazily, so construction succeeds offline.
func NewLinkmint(db database.IDataSource) (*Linkmint, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", configuration.Redis.Dns)}, configuration.Redis.SkipTLSVerify)
	if err != nil {
		return nil, err
	}
	newQueue := NewQueue(configuration)

	lm := &Linkmint{
		datasource: db,
		queue:      newQueue,
		redis:      redisClient.Client(),
		gateway:    NewHTTPPayoutGateway(configuration),
	}
	return lm, nil
}

// SetPayoutGateway swaps the disbursement transport. Used by operators
// running against a non-HTTP provider and by tests.
func (l *Linkmint) SetPayoutGateway(gateway PayoutGateway) {
	l.gateway = gateway
}
