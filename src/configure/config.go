package configure

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/seventv/RainbowProcessor/src/rainbow"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrNoPaths = fmt.Errorf("no input paths given")

func checkErr(err error) {
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
}

// New loads the configuration from the process arguments, the config file and
// the environment, and sets up logging. Any error is fatal.
func New() *Config {
	cfg, err := Load(os.Args[1:])
	checkErr(err)

	initLogging(cfg)

	if !cfg.Listen && len(cfg.Paths) == 0 {
		checkErr(ErrNoPaths)
	}

	return cfg
}

func defaults() Config {
	cfg := Config{
		LogLevel:       "info",
		Config:         "config.yaml",
		Rate:           rainbow.DefaultRate,
		MaxJobDuration: 600,
	}
	cfg.Rmq.JobQueueName = "rainbow-jobs"
	cfg.Rmq.ResultQueueName = "rainbow-results"
	cfg.Rmq.UpdateQueueName = "rainbow-updates"

	return cfg
}

// Load resolves the configuration. Precedence is flags, then environment
// (RAINBOW_ prefix), then the config file, then defaults. Positional
// arguments become Paths.
func Load(args []string) (*Config, error) {
	config := viper.New()
	config.SetConfigType("yaml")

	b, err := json.Marshal(defaults())
	if err != nil {
		return nil, err
	}

	tmp := viper.New()
	tmp.SetConfigType("json")
	if err := tmp.ReadConfig(bytes.NewBuffer(b)); err != nil {
		return nil, err
	}
	// defaults are their own layer, below the config file
	for _, key := range tmp.AllKeys() {
		config.SetDefault(key, tmp.Get(key))
	}

	flags := pflag.NewFlagSet("rainbow", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rainbow [flags] PATH...\n\nApply a rainbow effect to images.\n\n")
		flags.PrintDefaults()
	}
	flags.String("config", "config.yaml", "Config file location")
	flags.Bool("noheader", false, "Disable the startup header")
	flags.Bool("nologs", false, "Disable logging")
	flags.String("log_level", "info", "Log level")
	flags.Float64("rate", rainbow.DefaultRate, "The rate at which the color changes")
	flags.String("report", "", "Write a JSON summary of the batch to this file")
	flags.Bool("listen", false, "Consume jobs from the job queue instead of processing paths")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := config.BindPFlags(flags); err != nil {
		return nil, err
	}

	config.SetEnvPrefix("RAINBOW")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AllowEmptyEnv(true)
	config.AutomaticEnv()

	file := config.GetString("config")
	if _, err := os.Stat(file); err == nil {
		config.SetConfigFile(file)
		if err := config.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
	}

	cfg := Config{}
	if err := config.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Paths = flags.Args()

	return &cfg, nil
}

type Config struct {
	LogLevel string `json:"log_level" mapstructure:"log_level"`
	Config   string `json:"config" mapstructure:"config"`
	NoHeader bool   `json:"noheader" mapstructure:"noheader"`
	NoLogs   bool   `json:"nologs" mapstructure:"nologs"`

	Rate   float64 `json:"rate" mapstructure:"rate"`
	Report string  `json:"report" mapstructure:"report"`
	Listen bool    `json:"listen" mapstructure:"listen"`
	// seconds a queued job may run before it is cancelled
	MaxJobDuration int `json:"max_job_duration" mapstructure:"max_job_duration"`

	Paths []string `json:"-" mapstructure:"-"`

	// Aws
	Aws struct {
		AccessToken string `json:"access_token" mapstructure:"access_token"`
		SecretKey   string `json:"secret_key" mapstructure:"secret_key"`
		Region      string `json:"region" mapstructure:"region"`
		Endpoint    string `json:"endpoint" mapstructure:"endpoint"`
	} `json:"aws" mapstructure:"aws"`

	Rmq struct {
		ServerURL       string `json:"server_url" mapstructure:"server_url"`
		JobQueueName    string `json:"job_queue_name" mapstructure:"job_queue_name"`
		ResultQueueName string `json:"result_queue_name" mapstructure:"result_queue_name"`
		UpdateQueueName string `json:"update_queue_name" mapstructure:"update_queue_name"`
	} `json:"rmq" mapstructure:"rmq"`
}
