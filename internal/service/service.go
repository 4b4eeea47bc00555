package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/document"
	"github.com/spigell/hh-matcher/internal/filtering"
	"github.com/spigell/hh-matcher/internal/headhunter"
	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/session"
	"github.com/spigell/hh-matcher/internal/skills"
)

// ErrUpstreamUnavailable is returned when the document converter or the vacancy
// source failed. Callers should offer a retry.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// VacancySource fetches vacancies for the given search terms in source ranking order.
type VacancySource interface {
	SearchVacancies(ctx context.Context, terms []string, limit int) (*headhunter.Vacancies, error)
}

type Config struct {
	PageSize   int
	MaxResults int
	QueryTerms int
	Filters    *filtering.Config
}

type Deps struct {
	Extractor *skills.Extractor
	Converter document.Converter
	Source    VacancySource
	Store     session.Store
	Filters   []filtering.Filter
	Logger    *zap.Logger
}

type Service struct {
	config    Config
	extractor *skills.Extractor
	converter document.Converter
	source    VacancySource
	store     session.Store
	filters   []filtering.Filter
	logger    *zap.Logger
}

func New(cfg Config, deps Deps) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = matching.DefaultPageSize
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = matching.MaxResults
	}
	if cfg.QueryTerms <= 0 {
		cfg.QueryTerms = skills.DefaultQueryTerms
	}

	s := &Service{
		config:    cfg,
		extractor: deps.Extractor,
		converter: deps.Converter,
		source:    deps.Source,
		store:     deps.Store,
		filters:   deps.Filters,
		logger:    logger.WithFields(deps.Logger),
	}

	if s.extractor == nil {
		s.extractor = skills.NewExtractor(skills.DefaultCatalog(), skills.WithLogger(s.logger))
	}
	if s.converter == nil {
		s.converter = document.New()
	}
	if s.store == nil {
		s.store = session.NewMemoryStore()
	}

	return s
}

// ProcessDocument converts the document and replaces the session skills with the
// extracted ones. A conversion failure leaves the session untouched and returns an
// empty result. Unsupported document types are returned as document.ErrUnsupportedType,
// other failures are wrapped in ErrUpstreamUnavailable.
func (s *Service) ProcessDocument(sessionID string, data []byte) (*skills.Extracted, error) {
	log := logger.WithSession(s.logger, sessionID)

	text, err := s.converter.ToPlainText(data)
	if err != nil {
		log.Warn("converting document to text", zap.Int("size", len(data)), zap.Error(err))
		if errors.Is(err, document.ErrUnsupportedType) {
			return &skills.Extracted{}, fmt.Errorf("convert document: %w", err)
		}
		return &skills.Extracted{}, fmt.Errorf("%w: convert document: %w", ErrUpstreamUnavailable, err)
	}

	return s.ProcessText(sessionID, text)
}

// ProcessText extracts skills from text and starts the session over with them.
func (s *Service) ProcessText(sessionID, text string) (*skills.Extracted, error) {
	log := logger.WithSession(s.logger, sessionID)
	extracted := s.extractor.Extract(text)

	s.store.Reset(sessionID)
	err := s.store.Update(sessionID, func(sess *session.Session) error {
		sess.Extracted = extracted
		sess.Skills = skills.FromExtracted(extracted)
		// A search may have run between Reset and Update.
		sess.Batch = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("skills extracted",
		zap.Int("text_length", len(text)),
		zap.Int("categories", len(extracted.Groups)),
		zap.Int("skills", extracted.Len()),
	)
	log.Debug("extracted text preview", zap.String("text", logger.TruncateForLog(text, 200)))

	return extracted, nil
}

// AddSkill validates and appends term. It reports false if the term was already there.
func (s *Service) AddSkill(sessionID, term string) (bool, error) {
	term, err := skills.ValidateTerm(term)
	if err != nil {
		return false, err
	}

	var added bool
	err = s.store.Update(sessionID, func(sess *session.Session) error {
		added = sess.Skills.Add(term)
		return nil
	})

	logger.WithSession(s.logger, sessionID).Debug("add skill",
		zap.String("term", term),
		zap.Bool("added", added),
	)

	return added, err
}

// RemoveSkill reports false when term is not in the session skills.
func (s *Service) RemoveSkill(sessionID, term string) (bool, error) {
	var removed bool
	err := s.store.Update(sessionID, func(sess *session.Session) error {
		removed = sess.Skills.Remove(term)
		return nil
	})

	logger.WithSession(s.logger, sessionID).Debug("remove skill",
		zap.String("term", term),
		zap.Bool("removed", removed),
	)

	return removed, err
}

// Skills returns the session skills in the order they were added.
func (s *Service) Skills(sessionID string) ([]string, error) {
	var terms []string
	err := s.store.Update(sessionID, func(sess *session.Session) error {
		terms = sess.Skills.Terms()
		return nil
	})
	return terms, err
}

// Search fetches and ranks vacancies for the current skills, caches the ranked
// batch and returns its first page.
func (s *Service) Search(ctx context.Context, sessionID string) (matching.Page, error) {
	var page matching.Page
	err := s.store.Update(sessionID, func(sess *session.Session) error {
		if err := s.search(ctx, sess); err != nil {
			return err
		}
		page = matching.Paginate(sess.Batch, 0, s.config.PageSize)
		return nil
	})
	return page, err
}

// Page returns a page of the cached batch without re-scoring it. Without a cached
// batch, page 0 runs a new search and other pages are empty.
func (s *Service) Page(ctx context.Context, sessionID string, index int) (matching.Page, error) {
	var page matching.Page
	err := s.store.Update(sessionID, func(sess *session.Session) error {
		if sess.Batch == nil && index == 0 {
			if err := s.search(ctx, sess); err != nil {
				return err
			}
		}
		page = matching.Paginate(sess.Batch, index, s.config.PageSize)
		return nil
	})
	return page, err
}

func (s *Service) search(ctx context.Context, sess *session.Session) error {
	terms := skills.QueryTerms(sess.Extracted, sess.Skills, s.config.QueryTerms)
	log := logger.WithFields(logger.WithSession(s.logger, sess.ID), zap.Strings(logger.FieldQuery, terms))

	if len(terms) == 0 {
		log.Info("no skills to search with")
		sess.Batch = matching.Batch{}
		return nil
	}

	if s.source == nil {
		return fmt.Errorf("%w: vacancy source is not configured", ErrUpstreamUnavailable)
	}

	vacancies, err := s.source.SearchVacancies(ctx, terms, s.config.MaxResults)
	if err != nil {
		log.Warn("vacancy search failed", zap.Error(err))
		return fmt.Errorf("%w: search vacancies: %w", ErrUpstreamUnavailable, err)
	}
	if vacancies == nil {
		vacancies = &headhunter.Vacancies{}
	}

	if len(s.filters) > 0 {
		vacancies, err = filtering.Run(ctx, s.config.Filters, filtering.Deps{Logger: log}, s.filters, vacancies)
		if err != nil {
			return fmt.Errorf("filter vacancies: %w", err)
		}
	}

	records := headhunter.Records(vacancies)
	if len(records) > s.config.MaxResults {
		records = records[:s.config.MaxResults]
	}

	sess.Batch = matching.Rank(sess.Skills.Terms(), records)

	log.Info("vacancies ranked",
		zap.Int("count", len(sess.Batch)),
		zap.Int("pages", matching.Pages(sess.Batch, s.config.PageSize)),
	)

	return nil
}
