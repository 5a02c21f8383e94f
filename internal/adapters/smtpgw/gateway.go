package smtpgw

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/linkguardian/linkguardian/internal/core"
	"github.com/linkguardian/linkguardian/internal/utils"
)

// maxScoredTextBytes bounds how much extracted text is handed to the
// classifier; the forwarded message itself is never truncated.
const maxScoredTextBytes = 512 * 1024

// Gateway is an SMTP content filter that scores inbound mail bodies through
// the risk blender's email channel and forwards the annotated message to an
// upstream MTA.
type Gateway struct {
	risk           *core.RiskService
	textProcessor  *utils.TextProcessor
	logger         *zap.Logger
	listenAddr     string
	server         *smtp.Server
	upstreamAddr   string
	upstreamPort   int
	blockPhishing  bool
	statusHeader   string
	scoreHeader    string
	keywordsHeader string
}

// NewGateway creates a new SMTP gateway
func NewGateway(
	risk *core.RiskService,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	listenAddr string,
	upstreamAddr string,
	upstreamPort int,
	blockPhishing bool,
	statusHeader string,
	scoreHeader string,
	keywordsHeader string,
) *Gateway {
	return &Gateway{
		risk:           risk,
		textProcessor:  textProcessor,
		logger:         logger,
		listenAddr:     listenAddr,
		upstreamAddr:   upstreamAddr,
		upstreamPort:   upstreamPort,
		blockPhishing:  blockPhishing,
		statusHeader:   statusHeader,
		scoreHeader:    scoreHeader,
		keywordsHeader: keywordsHeader,
	}
}

// Start starts the SMTP gateway
func (g *Gateway) Start() error {
	g.server = smtp.NewServer(&smtpBackend{gateway: g})

	g.server.Addr = g.listenAddr
	g.server.Domain = "localhost"
	g.server.ReadTimeout = 30 * time.Second
	g.server.WriteTimeout = 30 * time.Second
	g.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	g.server.MaxRecipients = 50
	g.server.AllowInsecureAuth = true

	g.logger.Info("SMTP gateway starting", zap.String("address", g.listenAddr))

	go func() {
		if err := g.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				g.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP gateway
func (g *Gateway) Stop() error {
	if g.server != nil {
		return g.server.Close()
	}
	return nil
}

// forwardUpstream sends the annotated message to the upstream MTA.
func (g *Gateway) forwardUpstream(sender string, recipients []string, data []byte) error {
	upstream := fmt.Sprintf("%s:%d", g.upstreamAddr, g.upstreamPort)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", upstream, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to upstream: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			g.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		g.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	gateway *Gateway
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		gateway:    b.gateway,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	gateway    *Gateway
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// AuthPlain handles PLAIN authentication (not needed for the gateway)
func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data scores the message body and forwards the annotated message upstream.
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.gateway.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		s.gateway.logger.Error("Failed to parse mail message", zap.Error(err))
		return err
	}

	textContent, err := extractTextFromMessage(msg)
	if err != nil {
		s.gateway.logger.Error("Failed to extract text content", zap.Error(err))
		return err
	}

	textContent = s.gateway.textProcessor.ProcessText(textContent, maxScoredTextBytes)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	report, err := s.gateway.risk.Score(ctx, &core.ScanRequest{Email: textContent})
	if err != nil {
		s.gateway.logger.Error("Failed to score message",
			zap.Error(err),
			zap.String("sender", s.sender))

		// Fail open: deliver unscored rather than bounce on model trouble
		report = &core.ScanReport{
			Verdict:    core.VerdictSafe,
			Confidence: 0.0,
			Keywords:   []string{},
			AnalyzedAt: time.Now(),
		}
	}

	isPhishing := report.Verdict == core.VerdictPhishing

	if isPhishing && s.gateway.blockPhishing {
		s.gateway.logger.Info("Rejecting phishing message",
			zap.String("from", s.sender),
			zap.Float64("confidence", report.Confidence),
			zap.Strings("keywords", report.Keywords))
		return fmt.Errorf("550 Rejected as phishing (confidence: %.2f)", report.Confidence)
	}

	var annotated bytes.Buffer
	fmt.Fprintf(&annotated, "%s: %s\r\n", s.gateway.statusHeader, report.Verdict)
	fmt.Fprintf(&annotated, "%s: %.4f\r\n", s.gateway.scoreHeader, report.Confidence)
	if len(report.Keywords) > 0 {
		fmt.Fprintf(&annotated, "%s: %s\r\n", s.gateway.keywordsHeader, strings.Join(report.Keywords, ", "))
	}

	for key, values := range msg.Header {
		for _, value := range values {
			fmt.Fprintf(&annotated, "%s: %s\r\n", key, value)
		}
	}
	fmt.Fprintf(&annotated, "\r\n")

	// Reattach the original body bytes so MIME parts survive untouched
	bodyStart := bytes.Index(rawData, []byte("\r\n\r\n"))
	if bodyStart >= 0 {
		annotated.Write(rawData[bodyStart+4:])
	} else if bodyStart = bytes.Index(rawData, []byte("\n\n")); bodyStart >= 0 {
		annotated.Write(rawData[bodyStart+2:])
	} else {
		bodyBytes, err := io.ReadAll(msg.Body)
		if err != nil {
			s.gateway.logger.Error("Failed to read message body", zap.Error(err))
			return err
		}
		annotated.Write(bodyBytes)
	}

	if err := s.gateway.forwardUpstream(s.sender, s.recipients, annotated.Bytes()); err != nil {
		s.gateway.logger.Error("Failed to forward message upstream",
			zap.Error(err),
			zap.String("sender", s.sender))
		return err
	}

	s.gateway.logger.Info("Processed message",
		zap.String("from", s.sender),
		zap.String("verdict", report.Verdict),
		zap.Float64("confidence", report.Confidence))

	return nil
}

// Logout handles SMTP logout (not needed for the gateway)
func (s *smtpSession) Logout() error {
	return nil
}
