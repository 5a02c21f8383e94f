package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/linkguardian/linkguardian/internal/core"
	"github.com/linkguardian/linkguardian/internal/features"
	"github.com/linkguardian/linkguardian/internal/trust"
)

type stubClassifier struct {
	prob float64
	err  error
}

func (s *stubClassifier) PredictProba(f []float64) ([2]float64, error) {
	if s.err != nil {
		return [2]float64{}, s.err
	}
	return [2]float64{1 - s.prob, s.prob}, nil
}

type stubVectorizer struct{}

func (s *stubVectorizer) Transform(text string) ([]float64, error) {
	return make([]float64, 100), nil
}

type stubEngine struct {
	findings *core.ScanFindings
	err      error
}

func (s *stubEngine) Scan(ctx context.Context, target string) (*core.ScanFindings, error) {
	return s.findings, s.err
}

type stubAssistant struct {
	reply string
	err   error
}

func (s *stubAssistant) Generate(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

type serverOptions struct {
	emailModel core.Classifier
	urlModel   core.Classifier
	engine     core.ScanEngine
	assistant  core.AssistantClient
	keywords   []string
	reportPath string
}

func newTestServer(t *testing.T, opts serverOptions) *Server {
	t.Helper()
	logger := zap.NewNop()

	if opts.emailModel == nil {
		opts.emailModel = &stubClassifier{}
	}
	if opts.urlModel == nil {
		opts.urlModel = &stubClassifier{}
	}
	if opts.engine == nil {
		opts.engine = &stubEngine{findings: &core.ScanFindings{}}
	}
	if opts.assistant == nil {
		opts.assistant = &stubAssistant{}
	}
	if opts.reportPath == "" {
		opts.reportPath = filepath.Join(t.TempDir(), "absent.html")
	}

	risk := core.NewRiskService(
		opts.emailModel,
		opts.urlModel,
		&stubVectorizer{},
		opts.keywords,
		features.NewExtractor(logger),
		nil,
		trust.NewChecker(nil, logger),
		logger,
		false,
		time.Hour,
	)

	return NewServer(
		risk,
		core.NewScanService(opts.engine, logger),
		opts.assistant,
		logger,
		"127.0.0.1:0",
		gin.TestMode,
		opts.reportPath,
	)
}

func doJSON(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestRootLiveness(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := doJSON(s, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["status"])
}

func TestUltimateScan(t *testing.T) {
	s := newTestServer(t, serverOptions{
		emailModel: &stubClassifier{prob: 0.5},
		urlModel:   &stubClassifier{prob: 0.9},
		keywords:   []string{"verify"},
	})

	w := doJSON(s, http.MethodPost, "/ultimate_scan", map[string]string{
		"email": "please verify your account",
		"url":   "http://phish.example.net/login",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Verdict      string   `json:"verdict"`
		Confidence   float64  `json:"confidence"`
		EmailRisk    float64  `json:"email_risk"`
		URLRisk      float64  `json:"url_risk"`
		Keywords     []string `json:"keywords"`
		SecurityScan struct {
			Status string `json:"status"`
		} `json:"security_scan"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "PHISHING", resp.Verdict)
	assert.InDelta(t, 0.74, resp.Confidence, 1e-9)
	assert.InDelta(t, 0.5, resp.EmailRisk, 1e-9)
	assert.InDelta(t, 0.9, resp.URLRisk, 1e-9)
	assert.Equal(t, []string{"verify"}, resp.Keywords)
	assert.Equal(t, "security_scan_ready", resp.SecurityScan.Status)
}

func TestUltimateScanEmptyBodyScoresZero(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := doJSON(s, http.MethodPost, "/ultimate_scan", map[string]string{})

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SAFE", resp["verdict"])
	assert.Zero(t, resp["confidence"])
}

func TestUltimateScanClassifierFailureIs500(t *testing.T) {
	s := newTestServer(t, serverOptions{
		urlModel: &stubClassifier{err: errors.New("width mismatch")},
	})

	w := doJSON(s, http.MethodPost, "/ultimate_scan", map[string]string{
		"url": "http://phish.example.net",
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["detail"])
}

func TestUltimateScanRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	req := httptest.NewRequest(http.MethodPost, "/ultimate_scan", bytes.NewBufferString("{broken"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckReturnsSummary(t *testing.T) {
	s := newTestServer(t, serverOptions{
		engine: &stubEngine{findings: &core.ScanFindings{Alerts: []core.Alert{
			{Name: "Cross Site Scripting (Reflected)", Risk: "High"},
			{Name: "Missing Anti-clickjacking Header", Risk: "Medium"},
		}}},
	})

	w := doJSON(s, http.MethodPost, "/check", map[string]string{"url": "http://target.example"})

	require.Equal(t, http.StatusOK, w.Code)

	var summary core.AlertSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, core.SummarySuspicious, summary.Verdict)
	assert.Equal(t, "High", summary.RiskLevel)
	assert.Equal(t, []string{
		"Cross-Site Scripting (XSS)",
		"Missing Anti-Clickjacking Protection",
	}, summary.Reasons)
}

func TestCheckEngineFailureIsSafe(t *testing.T) {
	s := newTestServer(t, serverOptions{
		engine: &stubEngine{err: errors.New("timeout")},
	})

	w := doJSON(s, http.MethodPost, "/check", map[string]string{"url": "http://target.example"})

	require.Equal(t, http.StatusOK, w.Code)

	var summary core.AlertSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, core.SummarySafe, summary.Verdict)
	assert.Equal(t, "Low", summary.RiskLevel)
	assert.Empty(t, summary.Reasons)
}

func TestCheckRequiresURL(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := doJSON(s, http.MethodPost, "/check", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSecurityReportPlaceholder(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := doJSON(s, http.MethodGet, "/security-report", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "OWASP ZAP Report")
}

func TestSecurityReportServesFile(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "ZAP-Report.html")
	require.NoError(t, os.WriteFile(reportPath, []byte("<h1>Scan complete</h1>"), 0644))

	s := newTestServer(t, serverOptions{reportPath: reportPath})

	w := doJSON(s, http.MethodGet, "/security-report", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<h1>Scan complete</h1>", w.Body.String())
}

func TestAssistantPassthrough(t *testing.T) {
	s := newTestServer(t, serverOptions{
		assistant: &stubAssistant{reply: "looks like a credential phish"},
	})

	w := doJSON(s, http.MethodPost, "/assistant", map[string]string{"prompt": "explain this email"})

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "looks like a credential phish", resp["reply"])
}

func TestAssistantFailureIsBadGateway(t *testing.T) {
	s := newTestServer(t, serverOptions{
		assistant: &stubAssistant{err: errors.New("no api key")},
	})

	w := doJSON(s, http.MethodPost, "/assistant", map[string]string{"prompt": "hi"})

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
