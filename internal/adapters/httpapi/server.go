package httpapi

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/linkguardian/linkguardian/internal/core"
)

// scanRequest is the /ultimate_scan request body. All fields are optional;
// empty channels contribute zero risk.
type scanRequest struct {
	Email         string `json:"email"`
	URL           string `json:"url"`
	ZapServiceURL string `json:"zap_service_url"`
}

// checkRequest is the /check request body.
type checkRequest struct {
	URL string `json:"url" binding:"required"`
}

// assistantRequest is the /assistant request body.
type assistantRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// Server exposes the scoring and scan-summary services over HTTP.
type Server struct {
	engine     *gin.Engine
	srv        *http.Server
	risk       *core.RiskService
	scan       *core.ScanService
	assistant  core.AssistantClient
	logger     *zap.Logger
	listenAddr string
	reportPath string
}

// NewServer creates a new HTTP API server
func NewServer(
	risk *core.RiskService,
	scan *core.ScanService,
	assistant core.AssistantClient,
	logger *zap.Logger,
	listenAddr string,
	mode string,
	reportPath string,
) *Server {
	gin.SetMode(mode)

	s := &Server{
		risk:       risk,
		scan:       scan,
		assistant:  assistant,
		logger:     logger,
		listenAddr: listenAddr,
		reportPath: reportPath,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	engine.GET("/", s.handleRoot)
	engine.POST("/ultimate_scan", s.handleUltimateScan)
	engine.GET("/security-report", s.handleSecurityReport)
	engine.POST("/check", s.handleCheck)
	engine.POST("/assistant", s.handleAssistant)

	s.engine = engine
	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:    s.listenAddr,
		Handler: s.engine,
	}

	s.logger.Info("HTTP API starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.srv.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "LinkGuardian AI LIVE"})
}

func (s *Server) handleUltimateScan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	report, err := s.risk.Score(c.Request.Context(), &core.ScanRequest{
		Email:         req.Email,
		URL:           req.URL,
		ZapServiceURL: req.ZapServiceURL,
	})
	if err != nil {
		s.logger.Error("Scan scoring failed",
			zap.Error(err),
			zap.String("url", req.URL),
			zap.Int("email_length", len(req.Email)),
			zap.Stack("stacktrace"))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verdict":       report.Verdict,
		"confidence":    report.Confidence,
		"email_risk":    report.EmailRisk,
		"url_risk":      report.URLRisk,
		"keywords":      report.Keywords,
		"security_scan": gin.H{"status": report.ScanStatus},
	})
}

func (s *Server) handleSecurityReport(c *gin.Context) {
	data, err := os.ReadFile(s.reportPath)
	if err != nil {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(reportPlaceholder))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

func (s *Server) handleCheck(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	summary := s.scan.CheckURL(c.Request.Context(), req.URL)
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleAssistant(c *gin.Context) {
	var req assistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	reply, err := s.assistant.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		s.logger.Error("Assistant request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"detail": "assistant unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// corsMiddleware mirrors the permissive CORS policy the dashboard frontend
// expects.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "*")
		c.Header("Access-Control-Allow-Headers", "*")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

const reportPlaceholder = `<h1>OWASP ZAP Report</h1>
<p>No scan report has been produced yet. Run a security scan to generate one.</p>
`
