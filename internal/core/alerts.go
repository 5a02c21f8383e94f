package core

import (
	"strings"
)

// ScannerLabel identifies the scan engine in reduced summaries.
const ScannerLabel = "OWASP ZAP"

// maxReasons caps the number of reasons surfaced in a summary.
const maxReasons = 3

// Alert risk severities as reported by the scan engine.
const (
	RiskHigh   = "High"
	RiskMedium = "Medium"
	RiskLow    = "Low"
)

// AlertSummary verdicts.
const (
	SummarySuspicious = "Suspicious"
	SummarySafe       = "Safe"
)

// reasonRules maps alert names to human-readable reasons. The list is ordered
// and evaluated in sequence per alert; the first matching substring wins, so
// an alert never contributes more than one reason.
var reasonRules = []struct {
	pattern string
	reason  string
}{
	{"content security policy", "No Content Security Policy (CSP)"},
	{"clickjacking", "Missing Anti-Clickjacking Protection"},
	{"anti-csrf", "No Anti-CSRF Tokens Found"},
	{"csrf", "No Anti-CSRF Tokens Found"},
	{"cross site scripting", "Cross-Site Scripting (XSS)"},
	{"xss", "Cross-Site Scripting (XSS)"},
	{"sql injection", "SQL Injection Risk"},
}

// ReduceAlerts folds a raw findings payload into an AlertSummary. A nil
// payload reduces the same way as an empty alert list: Safe at Low risk.
func ReduceAlerts(findings *ScanFindings) *AlertSummary {
	var alerts []Alert
	if findings != nil {
		alerts = findings.Alerts
	}

	overall := RiskLow
	reasons := make([]string, 0, maxReasons)
	seen := make(map[string]bool)

	for _, alert := range alerts {
		switch alert.Risk {
		case RiskHigh:
			overall = RiskHigh
		case RiskMedium:
			if overall != RiskHigh {
				overall = RiskMedium
			}
		}

		name := strings.ToLower(alert.Name)
		for _, rule := range reasonRules {
			if strings.Contains(name, rule.pattern) {
				if !seen[rule.reason] && len(reasons) < maxReasons {
					seen[rule.reason] = true
					reasons = append(reasons, rule.reason)
				}
				break
			}
		}
	}

	verdict := SummarySafe
	if overall == RiskHigh || overall == RiskMedium {
		verdict = SummarySuspicious
	}

	return &AlertSummary{
		Verdict:   verdict,
		RiskLevel: overall,
		Reasons:   reasons,
		Scanner:   ScannerLabel,
	}
}
