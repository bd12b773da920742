package config

import (
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"
)

type Config struct {
	// Host is the public base URL of the deployed site, used by the
	// in-process scheduler when there is no incoming request to derive it from.
	Host string `json:"host"`
	// ServerAddr is the address the API server binds to.
	ServerAddr string `json:"serverAddr"`
	// Environment is the runtime environment name (production, staging, ...).
	Environment string `json:"environment"`

	Postgres struct {
		Host     string `json:"host"`
		Port     string `json:"port"`
		DBName   string `json:"dbname"`
		User     string `json:"user"`
		Password string `json:"password"`
		SSLMode  string `json:"sslmode"`
		TimeZone string `json:"TimeZone"`
	} `json:"postgres"`

	Signup struct {
		// Source tag stamped on every record created through the landing form.
		Source string `json:"source"`
	} `json:"signup"`

	HealthCheck struct {
		// Secret is the shared secret required by the scheduled trigger
		// endpoint. Empty means the endpoint rejects everything.
		Secret string `json:"secret"`
		// Schedule is a cron spec for the in-process scheduler. Empty or
		// Suspend disables it; the HTTP trigger keeps working either way.
		Schedule string `json:"schedule"`
		Suspend  bool   `json:"suspend"`

		Retries          int `json:"retries"`
		RetryDelayMs     int `json:"retryDelayMs"`
		TimeoutMs        int `json:"timeoutMs"`
		RecordRetainDays int `json:"recordRetainDays"`
	} `json:"healthCheck"`

	Alert struct {
		WebhookURL string `json:"webhookURL"`
		SMTP       struct {
			Host     string `json:"host"`
			Port     int    `json:"port"`
			User     string `json:"user"`
			Password string `json:"password"`
			From     string `json:"from"`
			Notify   string `json:"notify"`
		} `json:"smtp"`
	} `json:"alert"`
}

const (
	DefaultProbeRetries      = 1
	DefaultProbeRetryDelayMs = 5000
	DefaultProbeTimeoutMs    = 10000
)

var (
	once   sync.Once
	config *Config
)

func GetConfig() *Config {
	once.Do(func() {
		config = initConfig()
	})
	return config
}

func IsDebugMode() bool {
	return gin.Mode() == gin.DebugMode
}

// initConfig reads the configuration file. In debug mode it reads
// ./etc/debug-config.yaml (or the path in BEACON_DEBUG_CONFIG_PATH),
// otherwise the config.yaml mounted from the ConfigMap.
func initConfig() *Config {
	config := &Config{}
	var configPath string
	if IsDebugMode() {
		if os.Getenv("BEACON_DEBUG_CONFIG_PATH") != "" {
			configPath = os.Getenv("BEACON_DEBUG_CONFIG_PATH")
		} else {
			configPath = "./etc/debug-config.yaml"
		}
	} else {
		configPath = "/etc/config/config.yaml"
	}
	klog.Info("config path: ", configPath)

	err := readConfig(configPath, config)
	if err != nil {
		klog.Error("init config", err)
		panic(err)
	}
	config.applyDefaults()
	return config
}

func readConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return err
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Signup.Source == "" {
		c.Signup.Source = "landing-page"
	}
	if c.HealthCheck.Retries <= 0 {
		c.HealthCheck.Retries = DefaultProbeRetries
	}
	if c.HealthCheck.RetryDelayMs <= 0 {
		c.HealthCheck.RetryDelayMs = DefaultProbeRetryDelayMs
	}
	if c.HealthCheck.TimeoutMs <= 0 {
		c.HealthCheck.TimeoutMs = DefaultProbeTimeoutMs
	}
}
