package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduceAlertsRanksHighestSeverity(t *testing.T) {
	findings := &ScanFindings{Alerts: []Alert{
		{Name: "Cross Site Scripting (Reflected)", Risk: "High"},
		{Name: "Missing Anti-clickjacking Header", Risk: "Medium"},
	}}

	summary := ReduceAlerts(findings)

	assert.Equal(t, "High", summary.RiskLevel)
	assert.Equal(t, SummarySuspicious, summary.Verdict)
	assert.Equal(t, []string{
		"Cross-Site Scripting (XSS)",
		"Missing Anti-Clickjacking Protection",
	}, summary.Reasons)
	assert.Equal(t, ScannerLabel, summary.Scanner)
}

func TestReduceAlertsEmpty(t *testing.T) {
	for _, findings := range []*ScanFindings{nil, {}, {Alerts: []Alert{}}} {
		summary := ReduceAlerts(findings)

		assert.Equal(t, "Low", summary.RiskLevel)
		assert.Equal(t, SummarySafe, summary.Verdict)
		assert.Empty(t, summary.Reasons)
	}
}

func TestReduceAlertsMediumIsSuspicious(t *testing.T) {
	findings := &ScanFindings{Alerts: []Alert{
		{Name: "Absence of Anti-CSRF Tokens", Risk: "Medium"},
	}}

	summary := ReduceAlerts(findings)

	assert.Equal(t, "Medium", summary.RiskLevel)
	assert.Equal(t, SummarySuspicious, summary.Verdict)
	assert.Equal(t, []string{"No Anti-CSRF Tokens Found"}, summary.Reasons)
}

func TestReduceAlertsLowOnlyIsSafe(t *testing.T) {
	findings := &ScanFindings{Alerts: []Alert{
		{Name: "Content Security Policy (CSP) Header Not Set", Risk: "Low"},
		{Name: "Server Leaks Version Information", Risk: "Informational"},
	}}

	summary := ReduceAlerts(findings)

	assert.Equal(t, "Low", summary.RiskLevel)
	assert.Equal(t, SummarySafe, summary.Verdict)
	assert.Equal(t, []string{"No Content Security Policy (CSP)"}, summary.Reasons)
}

func TestReduceAlertsDeduplicatesReasons(t *testing.T) {
	findings := &ScanFindings{Alerts: []Alert{
		{Name: "Cross Site Scripting (Reflected)", Risk: "High"},
		{Name: "Cross Site Scripting (Persistent)", Risk: "High"},
		{Name: "XSS in form input", Risk: "High"},
	}}

	summary := ReduceAlerts(findings)

	assert.Equal(t, []string{"Cross-Site Scripting (XSS)"}, summary.Reasons)
}

func TestReduceAlertsCapsReasonsAtThree(t *testing.T) {
	findings := &ScanFindings{Alerts: []Alert{
		{Name: "Content Security Policy Header Not Set", Risk: "Medium"},
		{Name: "Missing Anti-clickjacking Header", Risk: "Medium"},
		{Name: "Absence of Anti-CSRF Tokens", Risk: "Low"},
		{Name: "SQL Injection", Risk: "High"},
	}}

	summary := ReduceAlerts(findings)

	assert.Len(t, summary.Reasons, 3)
	// First-encountered order wins, not severity order
	assert.Equal(t, []string{
		"No Content Security Policy (CSP)",
		"Missing Anti-Clickjacking Protection",
		"No Anti-CSRF Tokens Found",
	}, summary.Reasons)
	assert.Equal(t, "High", summary.RiskLevel)
}

func TestReduceAlertsFirstMatchingRuleWins(t *testing.T) {
	// Name matches both the csrf and xss patterns; rule order decides
	findings := &ScanFindings{Alerts: []Alert{
		{Name: "CSRF token leak enables XSS", Risk: "High"},
	}}

	summary := ReduceAlerts(findings)

	assert.Equal(t, []string{"No Anti-CSRF Tokens Found"}, summary.Reasons)
}

func TestReduceAlertsUnmatchedNameStillCountsRisk(t *testing.T) {
	findings := &ScanFindings{Alerts: []Alert{
		{Name: "Remote OS Command Injection", Risk: "High"},
	}}

	summary := ReduceAlerts(findings)

	assert.Equal(t, "High", summary.RiskLevel)
	assert.Equal(t, SummarySuspicious, summary.Verdict)
	assert.Empty(t, summary.Reasons)
}
