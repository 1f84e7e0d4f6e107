package processors

import (
	"go.uber.org/zap"

	"answerlens/internal/core"
	"answerlens/internal/core/security"
)

// MetadataRedactions is the QueryContext key holding the number of
// redactions PrivacyGuard applied.
const MetadataRedactions = "redactions"

// PrivacyGuard strips secrets and email addresses from the question before
// it leaves the machine.
type PrivacyGuard struct {
	scanner *security.Scanner
}

// NewPrivacyGuard creates a guard backed by the built-in scanner rules.
func NewPrivacyGuard() *PrivacyGuard {
	return &PrivacyGuard{scanner: security.NewScanner()}
}

// Name returns the processor name
func (p *PrivacyGuard) Name() string {
	return "privacy-guard"
}

// Priority returns the execution priority (high priority for security)
func (p *PrivacyGuard) Priority() int {
	return 100
}

// OnRequest redacts the prompt in place.
func (p *PrivacyGuard) OnRequest(ctx *core.QueryContext, req *core.GenerateRequest) error {
	redacted, findings := p.scanner.Redact(req.Prompt)
	if len(findings) == 0 {
		return nil
	}

	total := 0
	rules := make([]string, 0, len(findings))
	for _, f := range findings {
		total += f.Count
		rules = append(rules, f.Rule)
	}

	req.Prompt = redacted
	ctx.SetMetadata(MetadataRedactions, total)
	ctx.Log.Warn("Sensitive data redacted from prompt",
		zap.Int("count", total),
		zap.Strings("rules", rules),
	)
	return nil
}

// OnResponse is a passthrough
func (p *PrivacyGuard) OnResponse(ctx *core.QueryContext, answer string) error {
	return nil
}
