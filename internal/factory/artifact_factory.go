package factory

import (
	"fmt"

	"github.com/linkguardian/linkguardian/internal/artifacts"
	"github.com/linkguardian/linkguardian/internal/config"
	"go.uber.org/zap"
)

// ModelSet bundles the pre-trained artifacts loaded at startup. Loaded once,
// read-only for the process lifetime.
type ModelSet struct {
	EmailModel *artifacts.LinearModel
	URLModel   *artifacts.LinearModel
	Vectorizer *artifacts.TFIDFVectorizer
	Keywords   []string
}

// ArtifactFactory loads model artifacts based on configuration
type ArtifactFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewArtifactFactory creates a new artifact factory
func NewArtifactFactory(cfg *config.Config, logger *zap.Logger) *ArtifactFactory {
	return &ArtifactFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// Load reads all model artifacts from their configured paths.
func (f *ArtifactFactory) Load() (*ModelSet, error) {
	paths := f.cfg.GetArtifacts()

	emailModel, err := artifacts.LoadLinearModel(paths.EmailModel)
	if err != nil {
		return nil, fmt.Errorf("email model: %w", err)
	}

	urlModel, err := artifacts.LoadLinearModel(paths.URLModel)
	if err != nil {
		return nil, fmt.Errorf("url model: %w", err)
	}

	vectorizer, err := artifacts.LoadTFIDFVectorizer(paths.Vectorizer)
	if err != nil {
		return nil, fmt.Errorf("vectorizer: %w", err)
	}

	keywords, err := artifacts.LoadKeywords(paths.Keywords)
	if err != nil {
		return nil, fmt.Errorf("keywords: %w", err)
	}

	f.logger.Info("Loaded model artifacts",
		zap.Int("email_model_width", len(emailModel.Coef)),
		zap.Int("url_model_width", len(urlModel.Coef)),
		zap.Int("vectorizer_width", vectorizer.Width()),
		zap.Int("keyword_count", len(keywords)))

	return &ModelSet{
		EmailModel: emailModel,
		URLModel:   urlModel,
		Vectorizer: vectorizer,
		Keywords:   keywords,
	}, nil
}
