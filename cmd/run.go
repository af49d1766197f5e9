package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/visa-hunter/internal/ai"
	"github.com/spigell/visa-hunter/internal/ai/gemini"
	"github.com/spigell/visa-hunter/internal/filtering"
	"github.com/spigell/visa-hunter/internal/hunt"
	"github.com/spigell/visa-hunter/internal/letters"
	"github.com/spigell/visa-hunter/internal/logger"
	"github.com/spigell/visa-hunter/internal/query"
	"github.com/spigell/visa-hunter/internal/ranking"
	"github.com/spigell/visa-hunter/internal/report"
	"github.com/spigell/visa-hunter/internal/resume"
	"github.com/spigell/visa-hunter/internal/secrets"
	"github.com/spigell/visa-hunter/internal/serpapi"
)

const (
	PromptSave                = "Save results"
	PromptSaveWithLetters     = "Generate cover letters and save results"
	PromptNo                  = "Exit without saving"
	PromptReportByCompanies   = "Report by companies"
	PromptAppendToExcludeFile = "Append all postings to exclude file"
	PromptDumpToFile          = "Dump postings to file"
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search job postings for the resume and save the ranked results",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation, use configured preferences and save results")
	runCmd.Flags().StringP("exclude-file", "e", "", "special file with postings to exclude. Default is unset.")
	runCmd.Flags().StringSlice("skip-filter", nil, "filters to disable for this run (companies, exclude_file, min_score)")

	viper.BindPFlag("exclude-file", runCmd.Flags().Lookup("exclude-file"))
}

// session keeps what the interactive loop needs between actions.
type session struct {
	ctx     context.Context
	logger  *zap.Logger
	config  *Config
	runID   string
	started time.Time
	cv      *resume.Record
	queries []string
	items   []*ranking.Scored
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	baseLogger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		baseLogger.Fatal("getting a config", zap.Error(err))
	}

	runID := uuid.NewString()
	logger := logger.WithRun(baseLogger, runID, version)

	logger.Info("starting the visa-hunter")

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	interactive := cmd.Flag("auto-approve").Value.String() == "false"

	if strings.TrimSpace(config.CVPath) == "" {
		logger.Fatal("resume path is required",
			zap.String("hint", "set CV_PATH environment variable, the 'cv-path' key in the configuration file or the --cv flag"),
		)
	}

	token, err := secrets.Load(secrets.Source{
		Name:  "serpapi key",
		Value: serpAPIKey(config),
		File:  config.SerpAPI.APIKeyFile,
	})
	if err != nil {
		logger.Fatal("loading serpapi key",
			zap.Error(err),
			zap.String("hint", "set SERPAPI_KEY environment variable or the 'serpapi.api-key-file' key in the configuration file"),
		)
	}

	cv, err := loadResume(config)
	if err != nil {
		logger.Fatal("loading resume", zap.Error(err), zap.String("path", config.CVPath))
	}

	logger.Info("resume parsed",
		zap.Int("sections", len(cv.Sections)),
		zap.Int("skills", len(cv.Skills)),
		zap.Strings("found skills", cv.Skills),
	)

	if len(cv.Skills) == 0 {
		logger.Info("exiting", zap.String("reason", "no skills found in the resume"))
		return
	}

	skills := cv.Skills
	if interactive {
		skills, err = confirmSkills(skills)
		if err != nil {
			if errors.Is(err, errExit) {
				logger.Info("exiting", zap.String("reason", "skills were not confirmed"))
				return
			}
			logger.Fatal("confirming skills", zap.Error(err))
		}
	}

	prefs := config.Preferences
	if interactive && len(prefs) == 0 {
		pref, err := selectPreference()
		if err != nil {
			logger.Fatal("selecting a preference", zap.Error(err))
		}
		prefs = append(prefs, pref)
	}

	prefs, err = buildPreferences(config.Mode, prefs)
	if err != nil {
		logger.Fatal("building preferences", zap.Error(err))
	}

	queries := query.Generate(queryOptions(config, skills, prefs))
	if len(queries) == 0 {
		logger.Info("exiting", zap.String("reason", "no queries generated"))
		return
	}

	logger.Info("starting the search", zap.Int("queries", len(queries)), zap.String("mode", config.Mode))

	client := serpapi.New(logger, token)
	if config.SerpAPI.UserAgent != "" {
		client.UserAgent = config.SerpAPI.UserAgent
	}
	client.Location = config.SerpAPI.Location

	started := time.Now()
	result, err := hunt.Run(ctx, client, queries, hunt.Options{
		Skills:      skills,
		Preferences: prefs,
		Delay:       config.Delay,
		Now:         started,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("searching postings", zap.Error(err))
	}

	if len(result.Postings) == 0 {
		logger.Info("exiting", zap.String("reason", "no relevant postings found"))
		return
	}

	filters := prepareFilters(config)
	skipped, _ := cmd.Flags().GetStringSlice("skip-filter")
	for _, name := range skipped {
		filtering.DisableByName(filters, strings.TrimSpace(name), "disabled by --skip-filter")
	}
	logger.Debug("filters prepared", zap.Any("filters", filtering.Describe(filters)))

	items, err := filtering.Run(ctx, logger, filters, result.Postings)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if len(items) == 0 {
		logger.Info("exiting", zap.String("reason", "no postings left after filters"))
		return
	}

	s := &session{
		ctx:     ctx,
		logger:  logger,
		config:  config,
		runID:   runID,
		started: started,
		cv:      cv,
		queries: queries,
		items:   items,
	}

	if !interactive {
		if err := s.save(config.Letters.Enabled, config.Letters.Limit); err != nil {
			logger.Fatal("saving results", zap.Error(err))
		}
		return
	}

	prompt := promptui.Select{
		Label: "Proceed?",
		Items: []string{PromptSave, PromptSaveWithLetters, PromptNo, PromptReportByCompanies, PromptAppendToExcludeFile, PromptDumpToFile},
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current list of postings", zap.Int("count", len(s.items)))

		if err := s.handleAction(action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func (s *session) handleAction(action string) error {
	switch action {
	case PromptSave:
		if err := s.save(false, 0); err != nil {
			return err
		}
		return errExit
	case PromptSaveWithLetters:
		limit, err := letterLimit(s.config.Letters.Limit)
		if err != nil {
			return err
		}
		if err := s.save(true, limit); err != nil {
			return err
		}
		return errExit
	case PromptNo:
		s.logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReportByCompanies:
		records := s.records(nil)
		pretty, _ := json.MarshalIndent(report.ByCompany(records), "", "  ")
		s.logger.Info(string(pretty), zap.Int("postings count", len(records)))
		return nil
	case PromptAppendToExcludeFile:
		return s.appendToExcludeFile()
	case PromptDumpToFile:
		filename, err := s.dumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		s.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// save writes cover letters (when asked) and the CSV and JSON reports, then logs the summary.
func (s *session) save(withLetters bool, limit int) error {
	dir, err := report.Folder(s.config.ResultsDir, s.started)
	if err != nil {
		return err
	}

	var written map[string]struct{}
	if withLetters {
		writer := letters.NewWriter(s.generator(), s.logger, s.config.Letters.Signature)
		written, err = writer.Batch(s.ctx, dir, s.items, s.cv.Excerpt(), limit)
		if err != nil {
			return fmt.Errorf("writing cover letters: %w", err)
		}
	}

	records := s.records(written)
	files, err := report.Write(s.config.ResultsDir, &report.Run{
		ID:          s.runID,
		GeneratedAt: s.started,
		Queries:     len(s.queries),
		Records:     records,
	})
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	summary := report.Summarize(records)
	s.logger.Info("search complete",
		zap.Int("total", summary.Total),
		zap.Int("explicit visa sponsorship", summary.ExplicitVisa),
		zap.Int("sponsor friendly locations", summary.SponsorFriendly),
		zap.Int("cover letters", len(written)),
		zap.String("xlsx", files.XLSX),
		zap.String("json", files.JSON),
	)

	for i, r := range summary.Top {
		s.logger.Info(fmt.Sprintf("top %d: %s at %s", i+1, r.Title, r.Company),
			zap.Int("score", r.Score),
			zap.String("location", r.Location),
			zap.String("visa", r.Visa),
		)
	}

	return nil
}

// generator returns the configured text generator or nil when letters use the template.
func (s *session) generator() ai.Generator {
	g, err := newGenerator(s.ctx, s.config.AI, s.logger)
	if err != nil {
		s.logger.Warn("cover letters will use the built-in template", zap.Error(err))
		return nil
	}
	if g == nil {
		s.logger.Info("gemini api key is not configured, cover letters will use the built-in template",
			zap.String("hint", "set GEMINI_API_KEY or ai.gemini.api-key-file"),
		)
	}
	return g
}

func (s *session) records(written map[string]struct{}) []ranking.Record {
	records := make([]ranking.Record, 0, len(s.items))
	for _, item := range s.items {
		_, ok := written[item.Key()]
		records = append(records, ranking.Format(item, ok))
	}
	return records
}

func (s *session) appendToExcludeFile() error {
	excludeFile := s.config.ExcludeFile
	if excludeFile == "" {
		s.logger.Warn("exclude file is not configured", zap.String("hint", "use --exclude-file flag or the 'exclude-file' key"))
		return nil
	}

	excluded, err := filtering.LoadExcluded(excludeFile)
	if err != nil {
		return err
	}

	excluded.Append(filtering.ToExcluded(s.items))

	if err = excluded.ToFile(excludeFile); err != nil {
		return err
	}

	s.logger.Info("appended to exclude file", zap.String("filename", excludeFile), zap.Int("count", len(s.items)))

	s.items = nil
	s.logger.Info("exiting", zap.String("reason", "all postings are excluded"))
	return errExit
}

func (s *session) dumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", app+"-*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.records(nil)); err != nil {
		return "", err
	}

	return file.Name(), nil
}

// newGenerator returns nil without an error when no api key is configured.
func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:     "gemini api key",
		Value:    cfg.Gemini.APIKey,
		File:     cfg.Gemini.APIKeyFile,
		Optional: true,
	})
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, nil
	}

	genLogger := logger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return generator, nil
}

func prepareFilters(config *Config) []filtering.Filter {
	return []filtering.Filter{
		filtering.NewExcludedCompanies(config.Filters.ExcludeCompanies),
		filtering.NewExcludeFile(config.ExcludeFile),
		filtering.NewMinScore(config.Filters.MinScore),
	}
}

func loadResume(config *Config) (*resume.Record, error) {
	text, err := resume.Load(config.CVPath)
	if err != nil {
		return nil, err
	}
	return resume.Extract(text, resume.MergeHeaders(config.Headers)), nil
}

// serpAPIKey falls back to the legacy SERP_API_KEY variable.
func serpAPIKey(config *Config) string {
	if config.SerpAPI.APIKey != "" {
		return config.SerpAPI.APIKey
	}
	return os.Getenv("SERP_API_KEY")
}

// redacted returns a copy of the config safe to print.
func redacted(config *Config) *Config {
	c := *config
	serp := *config.SerpAPI
	aiCfg := *config.AI
	gem := *config.AI.Gemini

	if serp.APIKey != "" {
		serp.APIKey = "***"
	}
	if gem.APIKey != "" {
		gem.APIKey = "***"
	}

	aiCfg.Gemini = &gem
	c.SerpAPI = &serp
	c.AI = &aiCfg
	return &c
}
