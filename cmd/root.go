package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "interview-trainer"
	envPrefix = "INTERVIEW_TRAINER"
)

type Config struct {
	Storage   *StorageConfig   `mapstructure:"storage"`
	Interview *InterviewConfig `mapstructure:"interview"`
	AI        *AIConfig        `mapstructure:"ai"`
	Dashboard *DashboardConfig `mapstructure:"dashboard"`
}

type StorageConfig struct {
	Driver          string `mapstructure:"driver"`
	Dir             string `mapstructure:"dir"`
	DatabaseURL     string `mapstructure:"database-url"`
	DatabaseURLFile string `mapstructure:"database-url-file"`
	Migrate         bool   `mapstructure:"migrate"`
}

type InterviewConfig struct {
	BankFile string `mapstructure:"bank-file"`
	Easy     int    `mapstructure:"easy"`
	Medium   int    `mapstructure:"medium"`
	Hard     int    `mapstructure:"hard"`
}

type AIConfig struct {
	Enabled           bool              `mapstructure:"enabled"`
	Timeout           time.Duration     `mapstructure:"timeout"`
	MaxResponseLength int               `mapstructure:"max-response-length"`
	MaxLogLength      int               `mapstructure:"max-log-length"`
	Providers         []*ProviderConfig `mapstructure:"providers"`
}

type ProviderConfig struct {
	Name       string `mapstructure:"name"`
	Kind       string `mapstructure:"kind"`
	Model      string `mapstructure:"model"`
	URL        string `mapstructure:"url"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyEnv  string `mapstructure:"api-key-env"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

type DashboardConfig struct {
	Listen string `mapstructure:"listen"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "interview-trainer runs timed practice interviews from a resume and keeps the results for review",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is interview-trainer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("storage-driver", "", "storage driver: file, memory or postgres")
	rootCmd.PersistentFlags().String("storage-dir", "", "directory for the file storage driver")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("storage.driver", rootCmd.PersistentFlags().Lookup("storage-driver"))
	viper.BindPFlag("storage.dir", rootCmd.PersistentFlags().Lookup("storage-dir"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("storage.driver", "file")
	viper.SetDefault("storage.dir", "")
	viper.SetDefault("storage.database-url", "")
	viper.SetDefault("storage.database-url-file", "")
	viper.SetDefault("storage.migrate", true)

	viper.SetDefault("interview.bank-file", "")
	viper.SetDefault("interview.easy", 2)
	viper.SetDefault("interview.medium", 2)
	viper.SetDefault("interview.hard", 2)

	viper.SetDefault("ai.enabled", false)
	viper.SetDefault("ai.timeout", 8*time.Second)
	viper.SetDefault("ai.max-response-length", 150)
	viper.SetDefault("ai.max-log-length", 200)

	viper.SetDefault("dashboard.listen", ":8080")
}

func initConfig() {
	// .env is optional; a malformed one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it was requested explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Storage == nil {
		config.Storage = &StorageConfig{}
	}
	if config.Interview == nil {
		config.Interview = &InterviewConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.Dashboard == nil {
		config.Dashboard = &DashboardConfig{}
	}

	return config, nil
}
