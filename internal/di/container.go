package di

import (
	"fmt"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/linkguardian/linkguardian/internal/adapters/httpapi"
	"github.com/linkguardian/linkguardian/internal/adapters/smtpgw"
	"github.com/linkguardian/linkguardian/internal/adapters/zapscan"
	"github.com/linkguardian/linkguardian/internal/config"
	"github.com/linkguardian/linkguardian/internal/core"
	"github.com/linkguardian/linkguardian/internal/factory"
	"github.com/linkguardian/linkguardian/internal/features"
	"github.com/linkguardian/linkguardian/internal/logging"
	"github.com/linkguardian/linkguardian/internal/ports"
	"github.com/linkguardian/linkguardian/internal/trust"
	"github.com/linkguardian/linkguardian/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewArtifactFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewAssistantFactory); err != nil {
		return nil, err
	}

	// Register model artifacts
	if err := container.Provide(func(f *factory.ArtifactFactory) (*factory.ModelSet, error) {
		return f.Load()
	}); err != nil {
		return nil, err
	}

	// Register feature extractor
	if err := container.Provide(features.NewExtractor); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register trusted domain checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *trust.Checker {
		return trust.NewChecker(cfg.GetStringSlice("risk.trusted_domains"), logger)
	}); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register risk blending service
	if err := container.Provide(func(
		ms *factory.ModelSet,
		extractor *features.Extractor,
		cacheRepo core.CacheRepository,
		trusted *trust.Checker,
		logger *zap.Logger,
		cacheFactory *factory.CacheFactory,
	) (*core.RiskService, error) {
		ttl, err := cacheFactory.GetCacheTTL()
		if err != nil {
			return nil, fmt.Errorf("invalid cache TTL: %w", err)
		}
		return core.NewRiskService(
			ms.EmailModel,
			ms.URLModel,
			ms.Vectorizer,
			ms.Keywords,
			extractor,
			cacheRepo,
			trusted,
			logger,
			cacheFactory.IsCacheEnabled(),
			ttl,
		), nil
	}); err != nil {
		return nil, err
	}

	// Register scan engine
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (core.ScanEngine, error) {
		timeout, err := cfg.GetDuration("zap.timeout")
		if err != nil {
			return nil, fmt.Errorf("invalid zap timeout: %w", err)
		}
		settle, err := cfg.GetDuration("zap.settle_delay")
		if err != nil {
			return nil, fmt.Errorf("invalid zap settle delay: %w", err)
		}
		return zapscan.NewClient(cfg.GetString("zap.api_url"), timeout, settle, logger), nil
	}); err != nil {
		return nil, err
	}

	// Register scan service
	if err := container.Provide(core.NewScanService); err != nil {
		return nil, err
	}

	// Register assistant client
	if err := container.Provide(func(f *factory.AssistantFactory) (core.AssistantClient, error) {
		return f.CreateAssistantClient()
	}); err != nil {
		return nil, err
	}

	// Register HTTP API server
	if err := container.Provide(func(
		risk *core.RiskService,
		scan *core.ScanService,
		assistant core.AssistantClient,
		logger *zap.Logger,
		cfg *config.Config,
	) *httpapi.Server {
		return httpapi.NewServer(
			risk,
			scan,
			assistant,
			logger,
			cfg.GetString("server.listen_address"),
			cfg.GetString("server.mode"),
			cfg.GetString("server.report_path"),
		)
	}); err != nil {
		return nil, err
	}

	// Register gateways: the HTTP API plus, when enabled, the SMTP filter
	if err := container.Provide(func(
		cfg *config.Config,
		server *httpapi.Server,
		risk *core.RiskService,
		textProcessor *utils.TextProcessor,
		logger *zap.Logger,
	) []ports.Gateway {
		gateways := []ports.Gateway{server}

		if cfg.GetBool("smtp.enabled") {
			gateways = append(gateways, smtpgw.NewGateway(
				risk,
				textProcessor,
				logger,
				cfg.GetString("smtp.listen_address"),
				cfg.GetString("smtp.upstream_address"),
				cfg.GetInt("smtp.upstream_port"),
				cfg.GetBool("smtp.block_phishing"),
				cfg.GetString("smtp.headers.status"),
				cfg.GetString("smtp.headers.score"),
				cfg.GetString("smtp.headers.keywords"),
			))
		}

		return gateways
	}); err != nil {
		return nil, err
	}

	return container, nil
}
