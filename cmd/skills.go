package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/visa-hunter/internal/logger"
	"github.com/spigell/visa-hunter/internal/query"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Parse the resume and print sections, skills and contact details",
	Run: func(_ *cobra.Command, _ []string) {
		logger, config := prepare()

		cv, err := loadResume(config)
		if err != nil {
			logger.Fatal("loading resume", zap.Error(err), zap.String("path", config.CVPath))
		}

		pretty, _ := json.MarshalIndent(cv, "", "  ")
		fmt.Println(string(pretty))
	},
}

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Print the search queries generated for the resume without calling the provider",
	Run: func(_ *cobra.Command, _ []string) {
		logger, config := prepare()

		cv, err := loadResume(config)
		if err != nil {
			logger.Fatal("loading resume", zap.Error(err), zap.String("path", config.CVPath))
		}

		prefs, err := buildPreferences(config.Mode, config.Preferences)
		if err != nil {
			logger.Fatal("building preferences", zap.Error(err))
		}

		queries := query.Generate(queryOptions(config, cv.Skills, prefs))
		logger.Info("queries generated", zap.Int("count", len(queries)), zap.Strings("skills", cv.Skills))

		for _, q := range queries {
			fmt.Println(q)
		}
	},
}

func init() {
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(queriesCmd)
}

func prepare() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config.CVPath == "" {
		logger.Fatal("resume path is required", zap.String("hint", "set CV_PATH environment variable or use the --cv flag"))
	}

	return logger, config
}
