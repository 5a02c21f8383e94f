package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linkguardian/linkguardian/internal/adapters/cache"
	"github.com/linkguardian/linkguardian/internal/config"
	"github.com/linkguardian/linkguardian/internal/core"
	"github.com/linkguardian/linkguardian/internal/factory"
	"github.com/linkguardian/linkguardian/internal/features"
	"github.com/linkguardian/linkguardian/internal/logging"
	"github.com/linkguardian/linkguardian/internal/trust"
)

var (
	// Input flags
	emailFile = flag.String("email-file", "", "File with email text to score (use stdin if not specified)")
	urlFlag   = flag.String("url", "", "URL to score")
	noEmail   = flag.Bool("no-email", false, "Skip the email channel entirely")

	// Artifact flags
	emailModelPath = flag.String("email-model", "artifacts/email_model.json", "Email classifier artifact")
	urlModelPath   = flag.String("url-model", "artifacts/url_model.json", "URL classifier artifact")
	vectorizerPath = flag.String("vectorizer", "artifacts/email_vectorizer.json", "Text vectorizer artifact")
	keywordsPath   = flag.String("keywords", "artifacts/phishing_keywords.json", "Phishing keyword artifact")

	// Scoring flags
	trustedDomains = flag.String("trusted", "", "Comma-separated list of trusted domains")

	// Output flags
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := createConfigFromFlags()

	artifactFactory := factory.NewArtifactFactory(cfg, logger)
	models, err := artifactFactory.Load()
	if err != nil {
		logger.Fatal("Failed to load model artifacts", zap.Error(err))
	}

	emailText := ""
	if !*noEmail {
		emailText, err = readEmailText()
		if err != nil {
			logger.Fatal("Failed to read email text", zap.Error(err))
		}
	}

	if emailText == "" && *urlFlag == "" {
		fmt.Println("Nothing to score: provide -url and/or email text")
		os.Exit(1)
	}

	var domains []string
	if *trustedDomains != "" {
		domains = strings.Split(*trustedDomains, ",")
	}

	risk := core.NewRiskService(
		models.EmailModel,
		models.URLModel,
		models.Vectorizer,
		models.Keywords,
		features.NewExtractor(logger),
		cache.NewMemoryCache(logger, time.Hour),
		trust.NewChecker(domains, logger),
		logger,
		false, // one-shot runs have no use for the verdict cache
		0,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	startTime := time.Now()
	report, err := risk.Score(ctx, &core.ScanRequest{Email: emailText, URL: *urlFlag})
	if err != nil {
		logger.Fatal("Failed to score request", zap.Error(err))
	}
	duration := time.Since(startTime)

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Verdict: %s\n", report.Verdict)
	fmt.Printf("Confidence: %.3f\n", report.Confidence)
	fmt.Printf("Email risk: %.3f\n", report.EmailRisk)
	fmt.Printf("URL risk: %.3f\n", report.URLRisk)
	if len(report.Keywords) > 0 {
		fmt.Printf("Keywords: %s\n", strings.Join(report.Keywords, ", "))
	}
	fmt.Printf("Processing time: %v\n", duration)
}

// createConfigFromFlags builds a configuration from the command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("artifacts.email_model", *emailModelPath)
	v.Set("artifacts.url_model", *urlModelPath)
	v.Set("artifacts.vectorizer", *vectorizerPath)
	v.Set("artifacts.keywords", *keywordsPath)

	return config.NewFromViper(v)
}

// readEmailText reads the email text from the input file or stdin
func readEmailText() (string, error) {
	if *emailFile != "" {
		data, err := os.ReadFile(*emailFile)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", err
	}
	// Only consume stdin when something is piped in
	if stat.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
