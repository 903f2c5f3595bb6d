package testutil

import (
	"context"
	"time"

	"github.com/flexprice/billing-engine/internal/cache"
	"github.com/flexprice/billing-engine/internal/config"
	"github.com/flexprice/billing-engine/internal/logger"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/flexprice/billing-engine/internal/validator"
	"github.com/stretchr/testify/suite"
)

type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	logger *logger.Logger
	config *config.Configuration
	cache  *cache.InMemoryCache
}

func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo
	cfg.Cache = config.CacheConfig{Enabled: true, TTL: time.Minute}

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.cache = cache.NewInMemoryCache(s.config)
}

func (s *BaseServiceTestSuite) TearDownTest() {
	s.cache.Flush(s.ctx)
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetCache() *cache.InMemoryCache {
	return s.cache
}
