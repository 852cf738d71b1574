package whitelist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker reports whether a sender address belongs to a trusted domain.
// Mail from a trusted domain skips classification entirely. Only the CLI
// analyzer consults it; the HTTP API carries no sender identity.
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a checker for the given trusted domains
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalized := make(map[string]struct{}, len(domains))
	for _, domain := range domains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain != "" {
			normalized[domain] = struct{}{}
		}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized trusted sender domains", zap.Int("count", len(normalized)))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsTrusted checks whether the sender's domain is in the trusted set
func (c *Checker) IsTrusted(from string) bool {
	if len(c.domains) == 0 {
		return false
	}

	at := strings.LastIndex(from, "@")
	if at < 0 || at == len(from)-1 {
		return false
	}
	domain := strings.ToLower(strings.Trim(from[at+1:], "> "))

	_, ok := c.domains[domain]
	if ok && c.logger != nil {
		c.logger.Debug("Sender domain is trusted", zap.String("domain", domain))
	}
	return ok
}
