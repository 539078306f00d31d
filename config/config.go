package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppName  string `mapstructure:"APP_NAME"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// AWS configuration. AWSEndpoint points receive/delete/publish calls at a
	// local queue server (elasticmq, localstack) when set.
	AWSRegion   string `mapstructure:"AWS_REGION"`
	AWSEndpoint string `mapstructure:"AWS_ENDPOINT"`

	// Queue configuration
	QueueURL                 string `mapstructure:"QUEUE_URL"`
	ErrorQueueURL            string `mapstructure:"ERROR_QUEUE_URL"`
	MaxMessages              int32  `mapstructure:"MAX_MESSAGES"`
	WaitTimeSeconds          int    `mapstructure:"WAIT_TIME_SECONDS"`
	VisibilityTimeoutSeconds int    `mapstructure:"VISIBILITY_TIMEOUT_SECONDS"`
}

func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("APP_NAME", "sqsconsumer")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_ENDPOINT", "")

	viper.SetDefault("QUEUE_URL", "")
	viper.SetDefault("ERROR_QUEUE_URL", "")
	viper.SetDefault("MAX_MESSAGES", 5)
	viper.SetDefault("WAIT_TIME_SECONDS", 10)
	viper.SetDefault("VISIBILITY_TIMEOUT_SECONDS", 0)

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Info().Msg("No config file found, using environment variables and defaults")
			err = nil
		} else {
			return
		}
	}

	err = viper.Unmarshal(&config)
	return
}
