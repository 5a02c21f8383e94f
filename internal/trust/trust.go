package trust

import (
	"strings"

	"go.uber.org/zap"
)

// Checker answers whether a URL host belongs to a trusted domain that should
// bypass URL risk scoring.
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new trust checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	// Normalize domains (lowercase)
	normalized := make([]string, len(domains))
	for i, domain := range domains {
		normalized[i] = strings.ToLower(strings.TrimSpace(domain))
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized trusted domain checker", zap.Strings("domains", normalized))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsTrusted checks if the host matches a trusted domain or one of its
// subdomains.
func (c *Checker) IsTrusted(host string) bool {
	if len(c.domains) == 0 || host == "" {
		return false
	}

	host = strings.ToLower(host)
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}

	for _, domain := range c.domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			if c.logger != nil {
				c.logger.Debug("Host is trusted",
					zap.String("host", host),
					zap.String("domain", domain))
			}
			return true
		}
	}

	return false
}
