package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/visa-hunter/internal/scoring"
)

const (
	app = "visa-hunter"

	modeSingle = "single"
	modeMulti  = "multi"
)

type Config struct {
	CVPath        string               `mapstructure:"cv-path"`
	JobTitle      string               `mapstructure:"job-title"`
	Countries     []string             `mapstructure:"countries"`
	IncludeRemote bool                 `mapstructure:"include-remote"`
	MaxSkills     int                  `mapstructure:"max-skills"`
	MaxQueries    int                  `mapstructure:"max-queries"`
	Delay         time.Duration        `mapstructure:"delay"`
	ResultsDir    string               `mapstructure:"results-dir"`
	ExcludeFile   string               `mapstructure:"exclude-file"`
	Headers       map[string]string    `mapstructure:"headers"`
	Mode          string               `mapstructure:"mode"`
	Preferences   []scoring.Preference `mapstructure:"preferences"`
	SerpAPI       *SerpAPIConfig       `mapstructure:"serpapi"`
	Filters       *FiltersConfig       `mapstructure:"filters"`
	Letters       *LettersConfig       `mapstructure:"letters"`
	AI            *AIConfig            `mapstructure:"ai"`
}

type SerpAPIConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Location   string `mapstructure:"location"`
	UserAgent  string `mapstructure:"user-agent"`
}

type FiltersConfig struct {
	ExcludeCompanies []string `mapstructure:"exclude-companies"`
	MinScore         int      `mapstructure:"min-score"`
}

type LettersConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Limit     int    `mapstructure:"limit"`
	Signature string `mapstructure:"signature"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "visa-hunter searches job postings that match a resume and ranks them by visa sponsorship signals",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"serpapi.api-key":   "SERPAPI_KEY",
		"ai.gemini.api-key": "GEMINI_API_KEY",
		"cv-path":           "CV_PATH",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("delay", time.Second)
	viper.SetDefault("results-dir", "job_search_results")
	viper.SetDefault("mode", modeMulti)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("letters.limit", 5)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is visa-hunter.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("cv", "c", "", "path to the resume (PDF or text). Overrides CV_PATH")
	rootCmd.PersistentFlags().StringP("title", "t", "", "job title used in every query")
	rootCmd.PersistentFlags().String("mode", modeMulti, "preference mode: single merges all preferences, multi scores each one and keeps the best")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("cv-path", rootCmd.PersistentFlags().Lookup("cv"))
	viper.BindPFlag("job-title", rootCmd.PersistentFlags().Lookup("title"))
	viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode"))
}

func initConfig() {
	// Version does not need any configuration.
	if versionCmd.CalledAs() != "" {
		return
	}

	// A missing .env file is fine, a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless given explicitly. We can't proceed if it is parsed with error.
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

	if config.SerpAPI == nil {
		config.SerpAPI = &SerpAPIConfig{}
	}
	if config.Filters == nil {
		config.Filters = &FiltersConfig{}
	}
	if config.Letters == nil {
		config.Letters = &LettersConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}
