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
	"encoding/json"
	"net/http"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkmint/linkmint/config"
)

func webhookConfig(url string) *config.Configuration {
	cnf := &config.Configuration{Redis: config.RedisConfig{Dns: "localhost:6379"}}
	cnf.Notification.Webhook.Url = url
	cnf.Notification.Webhook.Headers = map[string]string{"X-Test": "1"}
	return cnf
}

func webhookTask(t *testing.T, event string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(NewWebhook{Event: event, Payload: map[string]string{"k": "v"}})
	require.NoError(t, err)
	return asynq.NewTask("new:webhook", payload)
}

func TestSendWebhookDisabledWithoutURL(t *testing.T) {
	config.MockConfig(&config.Configuration{Redis: config.RedisConfig{Dns: "localhost:6379"}})

	err := SendWebhook(NewWebhook{Event: "commission.created", Payload: "x"})
	assert.NoError(t, err)
}

func TestProcessWebhookDelivers(t *testing.T) {
	config.MockConfig(webhookConfig("https://hooks.example/linkmint"))

	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder(http.MethodPost, "https://hooks.example/linkmint",
		httpmock.NewStringResponder(200, `{"ok": true}`))

	err := ProcessWebhook(context.Background(), webhookTask(t, "payout.settled"))
	require.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestProcessWebhookRetriesOnServerError(t *testing.T) {
	config.MockConfig(webhookConfig("https://hooks.example/linkmint"))

	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder(http.MethodPost, "https://hooks.example/linkmint",
		httpmock.NewStringResponder(500, `{"ok": false}`))

	err := ProcessWebhook(context.Background(), webhookTask(t, "commission.created"))
	assert.Error(t, err)
	// Initial attempt plus the in-process retries.
	assert.Equal(t, 4, httpmock.GetTotalCallCount())
}

func TestProcessWebhookSkipsWhenDisabled(t *testing.T) {
	config.MockConfig(&config.Configuration{Redis: config.RedisConfig{Dns: "localhost:6379"}})

	err := ProcessWebhook(context.Background(), webhookTask(t, "commission.created"))
	assert.NoError(t, err)
}
