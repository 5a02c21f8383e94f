package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linkguardian/linkguardian/internal/features"
	"github.com/linkguardian/linkguardian/internal/trust"
)

// Blend weights and decision threshold. These encode the design decision that
// URL signals outweigh email text signals; they are deliberate constants and
// are never derived per request.
const (
	urlWeight         = 0.6
	emailWeight       = 0.4
	phishingThreshold = 0.7
)

// ScanStatusReady is the placeholder reported for the security-scan subsystem
// on the scoring path, where no scan is actually run.
const ScanStatusReady = "security_scan_ready"

// RiskService blends the email and URL classifier outputs into one verdict.
type RiskService struct {
	emailModel   Classifier
	urlModel     Classifier
	vectorizer   TextVectorizer
	keywords     []string
	extractor    *features.Extractor
	cache        CacheRepository
	trusted      *trust.Checker
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
}

// NewRiskService creates a new risk blending service
func NewRiskService(
	emailModel Classifier,
	urlModel Classifier,
	vectorizer TextVectorizer,
	keywords []string,
	extractor *features.Extractor,
	cache CacheRepository,
	trusted *trust.Checker,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *RiskService {
	return &RiskService{
		emailModel:   emailModel,
		urlModel:     urlModel,
		vectorizer:   vectorizer,
		keywords:     keywords,
		extractor:    extractor,
		cache:        cache,
		trusted:      trusted,
		logger:       logger,
		cacheEnabled: cacheEnabled,
		cacheTTL:     cacheTTL,
	}
}

// Score computes per-channel phishing risks for a request and blends them
// into a single verdict. An empty channel contributes zero risk and its
// classifier is never invoked. Any classifier or vectorizer failure aborts
// the whole request; a report is never partially filled in.
func (s *RiskService) Score(ctx context.Context, req *ScanRequest) (*ScanReport, error) {
	key := requestDigest(req)

	if s.cacheEnabled {
		if entry, err := s.cache.Get(ctx, key); err == nil {
			s.logger.Debug("Cache hit for request", zap.String("key", key))
			return s.reportFromCache(req, entry), nil
		}
	}

	emailRisk := 0.0
	keywordsDetected := []string{}

	if req.Email != "" {
		risk, hits, err := s.scoreEmail(req.Email)
		if err != nil {
			return nil, err
		}
		emailRisk = risk
		keywordsDetected = hits
	}

	urlRisk := 0.0
	if req.URL != "" {
		risk, err := s.scoreURL(req.URL)
		if err != nil {
			return nil, err
		}
		urlRisk = risk
	}

	finalRisk := urlWeight*urlRisk + emailWeight*emailRisk

	verdict := VerdictSafe
	if finalRisk > phishingThreshold {
		verdict = VerdictPhishing
	}

	report := &ScanReport{
		Verdict:    verdict,
		Confidence: round3(finalRisk),
		EmailRisk:  round3(emailRisk),
		URLRisk:    round3(urlRisk),
		Keywords:   keywordsDetected,
		ScanStatus: ScanStatusReady,
		AnalyzedAt: time.Now(),
	}

	if s.cacheEnabled {
		entry := &CacheEntry{
			Key:        key,
			Verdict:    report.Verdict,
			Confidence: report.Confidence,
			EmailRisk:  report.EmailRisk,
			URLRisk:    report.URLRisk,
			LastSeen:   report.AnalyzedAt,
			ExpiresAt:  report.AnalyzedAt.Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update verdict cache", zap.Error(err))
		}
	}

	return report, nil
}

// scoreEmail runs the email channel: vectorize, compose features, classify.
func (s *RiskService) scoreEmail(email string) (float64, []string, error) {
	lowered := strings.ToLower(email)

	dense, err := s.vectorizer.Transform(lowered)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to vectorize email text: %w", err)
	}

	vec, hits := s.extractor.EmailVector(dense, lowered, s.keywords)

	probs, err := s.emailModel.PredictProba(vec)
	if err != nil {
		return 0, nil, fmt.Errorf("email classifier failed: %w", err)
	}

	return probs[1], hits, nil
}

// scoreURL runs the URL channel. Trusted hosts bypass the classifier and
// score zero.
func (s *RiskService) scoreURL(raw string) (float64, error) {
	if s.trusted.IsTrusted(hostOf(raw)) {
		s.logger.Info("Skipping URL scoring for trusted host",
			zap.String("url", raw),
			zap.String("action", "trust_bypass"))
		return 0, nil
	}

	vec := s.extractor.URLVector(raw)

	probs, err := s.urlModel.PredictProba(vec)
	if err != nil {
		return 0, fmt.Errorf("url classifier failed: %w", err)
	}

	return probs[1], nil
}

// reportFromCache rebuilds a report from a cached verdict. Keyword hits are
// cheap to recompute, so they are not cached.
func (s *RiskService) reportFromCache(req *ScanRequest, entry *CacheEntry) *ScanReport {
	hits := []string{}
	if req.Email != "" {
		lowered := strings.ToLower(req.Email)
		for _, kw := range s.keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				hits = append(hits, kw)
			}
		}
	}

	return &ScanReport{
		Verdict:    entry.Verdict,
		Confidence: entry.Confidence,
		EmailRisk:  entry.EmailRisk,
		URLRisk:    entry.URLRisk,
		Keywords:   hits,
		ScanStatus: ScanStatusReady,
		AnalyzedAt: time.Now(),
	}
}

// requestDigest keys the verdict cache on the exact request inputs.
func requestDigest(req *ScanRequest) string {
	h := sha256.New()
	h.Write([]byte(req.Email))
	h.Write([]byte{0})
	h.Write([]byte(req.URL))
	return hex.EncodeToString(h.Sum(nil))
}

// hostOf extracts the host component with the same normalization the feature
// extractor applies.
func hostOf(raw string) string {
	normalized := raw
	if !strings.HasPrefix(raw, "http") {
		normalized = "http://" + raw
	}
	parsed, err := url.Parse(normalized)
	if err != nil {
		return ""
	}
	return parsed.Host
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
