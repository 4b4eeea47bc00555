package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spigell/hh-matcher/internal/document"
	"github.com/spigell/hh-matcher/internal/filtering"
	"github.com/spigell/hh-matcher/internal/headhunter"
	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/secrets"
	"github.com/spigell/hh-matcher/internal/service"
	"github.com/spigell/hh-matcher/internal/session"
	"github.com/spigell/hh-matcher/internal/skills"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptNextPage            = "Next page"
	PromptPreviousPage        = "Previous page"
	PromptAddSkill            = "Add skill"
	PromptRemoveSkill         = "Remove skill"
	PromptSearchAgain         = "Search again"
	PromptVacanciesToFile     = "Dump results to file"
	PromptAppendToExcludeFile = "Append shown vacancies to exclude file"
	PromptExit                = "Exit"
	PromptBack                = "back"
)

var errExit = errors.New("exit requested")

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Extract skills from a resume and browse matching hh.ru vacancies",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("resume", "r", "", "resume file (PDF or plain text)")
	matchCmd.Flags().StringP("exclude-file", "e", "", "special file with vacancies to exclude. Default is unset.")
	matchCmd.Flags().Bool("include-archived", false, "do not drop archived vacancies")

	matchCmd.MarkFlagRequired("resume")

	viper.BindPFlag("exclude-file", matchCmd.Flags().Lookup("exclude-file"))
}

type matchState struct {
	svc       *service.Service
	logger    *zap.Logger
	config    *Config
	out       io.Writer
	page      matching.Page
	batch     matching.Batch
	sessionID string
}

func match(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the hh-matcher", zap.String("version", resolveVersion()))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	resumePath, _ := cmd.Flags().GetString("resume")
	data, err := os.ReadFile(resumePath)
	if err != nil {
		logger.Fatal("reading resume", zap.String("path", resumePath), zap.Error(err))
	}

	token, err := resolveToken(config)
	if err != nil {
		logger.Fatal(
			"loading headhunter token",
			zap.Error(err),
			zap.String("hint", "set HH_TOKEN_FILE environment variable or the 'token-file' key in the configuration file"),
		)
	}
	if token == "" {
		logger.Debug("no headhunter token configured, searching anonymously")
	}

	hh := headhunter.New(logger, token)
	if config.UserAgent != "" {
		hh.UserAgent = config.UserAgent
	}
	if config.Search != nil {
		hh.Params = config.Search
	}

	filters := filtering.Default()
	if includeArchived, _ := cmd.Flags().GetBool("include-archived"); includeArchived {
		filtering.DisableByName(filters, "archived", "include-archived flag is set")
	}

	filterConfig := &filtering.Config{ExcludeFile: viper.GetString("exclude-file")}
	if config.Exclude != nil {
		filterConfig.Employers = config.Exclude.Employers
	}

	for _, status := range filtering.Describe(filters) {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	svc := service.New(service.Config{
		PageSize:   config.Pagination.PageSize,
		MaxResults: config.Pagination.MaxResults,
		QueryTerms: config.Query.MaxTerms,
		Filters:    filterConfig,
	}, service.Deps{
		Extractor: skills.NewExtractor(skills.DefaultCatalog(), skills.WithLogger(logger)),
		Converter: document.New(),
		Source:    hh,
		Store:     session.NewMemoryStore(),
		Filters:   filters,
		Logger:    logger,
	})

	state := &matchState{
		svc:       svc,
		logger:    logger,
		config:    config,
		out:       cmd.OutOrStdout(),
		sessionID: uuid.NewString(),
	}

	extracted, err := svc.ProcessDocument(state.sessionID, data)
	if err != nil {
		logger.Fatal("processing resume", zap.Error(err), zap.String("hint", retryHint(err)))
	}

	printExtracted(state.out, extracted)

	if extracted.IsEmpty() {
		logger.Info("no skills found in resume, add them manually")
	}

	if err := state.search(ctx); err != nil {
		logger.Error("searching vacancies", zap.Error(err), zap.String("hint", retryHint(err)))
	}

	for {
		prompt := promptui.Select{
			Label: "Choose an action",
			Items: state.actions(),
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := state.handleAction(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			if errors.Is(err, service.ErrUpstreamUnavailable) {
				logger.Error("action failed", zap.String("action", action), zap.Error(err), zap.String("hint", retryHint(err)))
				continue
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func (s *matchState) actions() []string {
	actions := make([]string, 0, 8)
	if s.page.HasMore {
		actions = append(actions, PromptNextPage)
	}
	if s.page.Index > 0 {
		actions = append(actions, PromptPreviousPage)
	}
	actions = append(actions, PromptAddSkill, PromptRemoveSkill, PromptSearchAgain)
	if len(s.batch) > 0 {
		actions = append(actions, PromptVacanciesToFile)
	}
	if viper.GetString("exclude-file") != "" && len(s.page.Items) > 0 {
		actions = append(actions, PromptAppendToExcludeFile)
	}
	return append(actions, PromptExit)
}

func (s *matchState) handleAction(ctx context.Context, action string) error {
	switch action {
	case PromptNextPage:
		return s.showPage(ctx, s.page.Index+1)
	case PromptPreviousPage:
		return s.showPage(ctx, s.page.Index-1)
	case PromptAddSkill:
		return s.addSkill()
	case PromptRemoveSkill:
		return s.removeSkill()
	case PromptSearchAgain:
		return s.search(ctx)
	case PromptVacanciesToFile:
		filename, err := s.batch.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		s.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return s.appendToExcludeFile()
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *matchState) search(ctx context.Context) error {
	page, err := s.svc.Search(ctx, s.sessionID)
	if err != nil {
		return err
	}
	s.page = page
	s.batch = nil

	// Pages come from the cached batch, so collecting them does not hit hh.ru again.
	for index := 0; ; index++ {
		p, err := s.svc.Page(ctx, s.sessionID, index)
		if err != nil {
			return err
		}
		s.batch = append(s.batch, p.Items...)
		if !p.HasMore {
			break
		}
	}

	renderPage(s.out, s.page)
	return nil
}

func (s *matchState) showPage(ctx context.Context, index int) error {
	page, err := s.svc.Page(ctx, s.sessionID, index)
	if err != nil {
		return err
	}
	s.page = page
	renderPage(s.out, s.page)
	return nil
}

func (s *matchState) addSkill() error {
	prompt := promptui.Prompt{
		Label: "Skill",
		Validate: func(input string) error {
			_, err := skills.ValidateTerm(input)
			return err
		},
	}

	term, err := prompt.Run()
	if err != nil {
		return err
	}

	added, err := s.svc.AddSkill(s.sessionID, term)
	if err != nil {
		return err
	}
	if !added {
		s.logger.Info("skill already present", zap.String("term", term))
	}

	return s.printSkills()
}

func (s *matchState) removeSkill() error {
	terms, err := s.svc.Skills(s.sessionID)
	if err != nil {
		return err
	}

	if len(terms) == 0 {
		s.logger.Info("there are no skills to remove")
		return nil
	}

	prompt := promptui.Select{
		Label: "Choose a skill to remove",
		Items: append(terms, PromptBack),
	}

	_, term, err := prompt.Run()
	if err != nil {
		return err
	}
	if term == PromptBack {
		return nil
	}

	if _, err := s.svc.RemoveSkill(s.sessionID, term); err != nil {
		return err
	}

	return s.printSkills()
}

func (s *matchState) printSkills() error {
	terms, err := s.svc.Skills(s.sessionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Skills: %s\n", strings.Join(terms, ", "))
	return nil
}

func (s *matchState) appendToExcludeFile() error {
	excludeFile := viper.GetString("exclude-file")

	excluded, err := headhunter.GetExcludedVacanciesFromFile(excludeFile)
	if err != nil {
		return err
	}

	records := make([]matching.Vacancy, 0, len(s.page.Items))
	for _, item := range s.page.Items {
		records = append(records, item.Vacancy)
	}
	excluded.Append(headhunter.ExcludedFromRecords(records))

	if err = excluded.ToFile(excludeFile); err != nil {
		return err
	}

	s.logger.Info("appended to exclude file",
		zap.String("filename", excludeFile),
		zap.Int("count", len(records)),
	)
	return nil
}

func resolveToken(config *Config) (string, error) {
	if config == nil {
		return "", errors.New("config is required")
	}

	tokenFile := strings.TrimSpace(config.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("token-file"))
	}

	return secrets.Load(secrets.Source{
		Name:     "headhunter token",
		File:     tokenFile,
		Env:      "HH_TOKEN",
		Optional: true,
	})
}

func retryHint(err error) string {
	switch {
	case errors.Is(err, document.ErrUnsupportedType):
		return "only PDF and plain text resumes are supported"
	case errors.Is(err, service.ErrUpstreamUnavailable):
		return "the document converter or hh.ru is unavailable, try again later"
	default:
		return ""
	}
}
