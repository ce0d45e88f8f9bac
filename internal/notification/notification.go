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

package notification

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/linkmint/linkmint/internal/request"
	"github.com/sirupsen/logrus"

	"github.com/linkmint/linkmint/config"
)

// WebhookSender delivers an event to the configured outbound webhook.
// The root package registers its queue-backed sender here so this package
// can emit events without an import cycle.
type WebhookSender func(event string, payload interface{}) error

var webhookSender WebhookSender

// RegisterWebhookSender wires the outbound webhook path. Safe to call once
// at startup; a nil sender disables webhook notifications.
func RegisterWebhookSender(sender WebhookSender) {
	webhookSender = sender
}

// SlackNotification sends an error message to a Slack webhook.
// It formats the error details and the current time into a Slack message payload.
func SlackNotification(err error) {
	data := json.RawMessage(fmt.Sprintf(`{
		"blocks": [
			{
				"type": "header",
				"text": {
					"type": "plain_text",
					"text": "Error From Linkmint 🐞",
					"emoji": true
				}
			},
			{
				"type": "section",
				"fields": [
					{
						"type": "mrkdwn",
						"text": "*Error:*\n%v"
					}
				]
			},
			{
				"type": "section",
				"fields": [
					{
						"type": "mrkdwn",
						"text": "*Time:*\n%v"
					}
				]
			}
		]
	}`, err.Error(), time.Now().Format(time.RFC822)))

	conf, err := config.Fetch()
	if err != nil {
		log.Println(err)
		return
	}

	payload, err := request.ToJsonReq(&data)
	if err != nil {
		log.Println(err)
		return
	}

	req, err := http.NewRequest("POST", conf.Notification.Slack.WebhookUrl, payload)
	if err != nil {
		log.Println(err)
		return
	}

	var response map[string]interface{}
	_, err = request.Call(req, &response)
	if err != nil {
		log.Println(err)
	}
}

// NotifyError reports a system error: logged locally, sent to Slack when
// configured. Runs asynchronously so callers are never blocked on a slow
// notification channel.
func NotifyError(systemError error) {
	go func(systemError error) {
		logrus.Error(systemError)

		conf, err := config.Fetch()
		if err != nil {
			log.Println(err)
			return
		}

		if conf.Notification.Slack.WebhookUrl != "" {
			SlackNotification(systemError)
		}
	}(systemError)
}

// NotifyWebhook emits a domain event through the registered webhook
// sender. Best-effort: failures are logged and never propagated.
func NotifyWebhook(event string, payload interface{}) {
	if webhookSender == nil {
		return
	}
	if err := webhookSender(event, payload); err != nil {
		logrus.Errorf("webhook notification %s failed: %v", event, err)
	}
}
