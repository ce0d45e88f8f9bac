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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5401"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"LINKMINT_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"LINKMINT_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"LINKMINT_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"LINKMINT_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"LINKMINT_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"LINKMINT_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"LINKMINT_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns           string `json:"dns" envconfig:"LINKMINT_REDIS_DNS"`
	SkipTLSVerify bool   `json:"skip_tls_verify" envconfig:"LINKMINT_REDIS_SKIP_TLS_VERIFY"`
}

type QueueConfig struct {
	ClickQueue       string `json:"click_queue" envconfig:"LINKMINT_QUEUE_CLICKS"`
	WebhookQueue     string `json:"webhook_queue" envconfig:"LINKMINT_QUEUE_WEBHOOKS"`
	WorkerCount      int    `json:"worker_count" envconfig:"LINKMINT_QUEUE_WORKER_COUNT"`
	MaxRetryAttempts int    `json:"max_retry_attempts" envconfig:"LINKMINT_QUEUE_MAX_RETRY"`
	MonitoringPort   string `json:"monitoring_port" envconfig:"LINKMINT_QUEUE_MONITORING_PORT"`
}

// PayoutConfig bounds the settlement path: the external transfer call is
// always capped by TimeoutSeconds, and entries stuck in processing longer
// than ReclaimAfterMinutes are swept back to pending by the workers.
type PayoutConfig struct {
	ProviderURL         string            `json:"provider_url" envconfig:"LINKMINT_PAYOUT_PROVIDER_URL"`
	ProviderHeaders     map[string]string `json:"provider_headers"`
	TimeoutSeconds      int               `json:"timeout_seconds" envconfig:"LINKMINT_PAYOUT_TIMEOUT_SECONDS"`
	ReclaimAfterMinutes int               `json:"reclaim_after_minutes" envconfig:"LINKMINT_PAYOUT_RECLAIM_AFTER_MINUTES"`
	DefaultMinimumCents int64             `json:"default_minimum_cents" envconfig:"LINKMINT_PAYOUT_DEFAULT_MINIMUM_CENTS"`
}

type TrackingConfig struct {
	CodeLength       int `json:"code_length" envconfig:"LINKMINT_TRACKING_CODE_LENGTH"`
	MaxIssueAttempts int `json:"max_issue_attempts" envconfig:"LINKMINT_TRACKING_MAX_ISSUE_ATTEMPTS"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"LINKMINT_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"LINKMINT_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"LINKMINT_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type Configuration struct {
	ProjectName  string           `json:"project_name" envconfig:"LINKMINT_PROJECT_NAME"`
	Server       ServerConfig     `json:"server"`
	DataSource   DataSourceConfig `json:"data_source"`
	Redis        RedisConfig      `json:"redis"`
	Queue        QueueConfig      `json:"queue"`
	Payout       PayoutConfig     `json:"payout"`
	Tracking     TrackingConfig   `json:"tracking"`
	Notification Notification     `json:"notification"`
	RateLimit    RateLimitConfig  `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("linkmint", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called linkmint.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Linkmint Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	cnf.Queue.applyDefaults()
	cnf.Payout.applyDefaults()
	cnf.Tracking.applyDefaults()

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

func (q *QueueConfig) applyDefaults() {
	if q.ClickQueue == "" {
		q.ClickQueue = "new:click"
	}
	if q.WebhookQueue == "" {
		q.WebhookQueue = "new:webhook"
	}
	if q.WorkerCount <= 0 {
		q.WorkerCount = 10
	}
	if q.MaxRetryAttempts <= 0 {
		q.MaxRetryAttempts = 5
	}
	if q.MonitoringPort == "" {
		q.MonitoringPort = "5402"
	}
}

func (p *PayoutConfig) applyDefaults() {
	if p.TimeoutSeconds <= 0 {
		p.TimeoutSeconds = 30
	}
	if p.ReclaimAfterMinutes <= 0 {
		p.ReclaimAfterMinutes = 30
	}
}

func (t *TrackingConfig) applyDefaults() {
	if t.CodeLength <= 0 {
		t.CodeLength = 8
	}
	if t.MaxIssueAttempts <= 0 {
		t.MaxIssueAttempts = 5
	}
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	mockConfig.Queue.applyDefaults()
	mockConfig.Payout.applyDefaults()
	mockConfig.Tracking.applyDefaults()
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
