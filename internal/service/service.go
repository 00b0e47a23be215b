// Package service implements the recipe box use cases on top of the
// repositories, the parsers and the share codec.
package service

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/recipebox/internal/importer"
	"github.com/Kerhoff/recipebox/internal/metrics"
	"github.com/Kerhoff/recipebox/internal/repository"
	"github.com/Kerhoff/recipebox/internal/share"
	"github.com/Kerhoff/recipebox/internal/tags"
)

// ErrNotFound is returned when a direct operation names an entity that does
// not exist. It is the repository sentinel, so errors.Is works across layers.
var ErrNotFound = repository.ErrNotFound

var (
	ErrNotTemplate    = errors.New("recipe is not a template")
	ErrImportDisabled = errors.New("recipe import is not configured")
	ErrNothingToShare = errors.New("nothing to share")
)

// Repositories groups the storage the service works on.
type Repositories struct {
	Recipes       repository.RecipeRepository
	MealPlans     repository.MealPlanRepository
	Groceries     repository.GroceryListRepository
	Substitutions repository.SubstitutionRepository
	Pantry        repository.PantryStapleRepository
	Logs          repository.RecipeLogRepository
}

// Service is the central business logic layer that holds all repositories
// and provides high-level methods for the application.
type Service struct {
	logger     *logrus.Logger
	repos      Repositories
	changes    repository.ChangeFeed
	importer   *importer.Importer
	vocab      *tags.Vocabulary
	metrics    *metrics.Metrics
	compressor share.Compressor
	mediaDir   string
	now        func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithImporter enables URL import.
func WithImporter(imp *importer.Importer) Option {
	return func(s *Service) { s.importer = imp }
}

// WithVocabulary replaces the default tag vocabulary.
func WithVocabulary(v *tags.Vocabulary) Option {
	return func(s *Service) { s.vocab = v }
}

// WithMetrics records counters on m instead of a private set.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPhotos sets where recipe media refs are resolved and how photos are
// shrunk before they are embedded in a share package.
func WithPhotos(mediaDir string, c share.Compressor) Option {
	return func(s *Service) {
		s.mediaDir = mediaDir
		s.compressor = c
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a new Service with all required dependencies. changes may be
// nil when nothing watches the store.
func New(repos Repositories, changes repository.ChangeFeed, logger *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		logger:  logger,
		repos:   repos,
		changes: changes,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.changes == nil {
		s.changes = repository.NewBroadcaster()
	}
	if s.vocab == nil {
		s.vocab = tags.Default()
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	return s
}

// Metrics returns the counters the service records on.
func (s *Service) Metrics() *metrics.Metrics {
	return s.metrics
}

// Vocabulary returns the tag vocabulary in use.
func (s *Service) Vocabulary() *tags.Vocabulary {
	return s.vocab
}
