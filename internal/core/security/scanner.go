package security

import (
	"fmt"
	"regexp"
)

// Rule 定义了敏感信息检测规则
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Finding records how often a rule matched in one input.
type Finding struct {
	Rule  string
	Count int
}

// Scanner redacts secrets and contact details from search questions before
// they are sent to a provider.
type Scanner struct {
	rules []Rule
}

// NewScanner 创建一个新的 Scanner 实例，内置所有检测规则
// 顺序很重要：先匹配更具体的模式
func NewScanner() *Scanner {
	s := &Scanner{}
	s.mustAdd("Private Key", `-----BEGIN [A-Z ]+ PRIVATE KEY-----`, "[PRIVATE_KEY_REDACTED]")
	s.mustAdd("AWS Access Key", `\bAKIA[0-9A-Z]{16}\b`, "[AWS_AK_REDACTED]")
	s.mustAdd("OpenAI API Key", `\bsk-(?:proj-)?[a-zA-Z0-9]{20,}\b`, "[OPENAI_KEY_REDACTED]")
	s.mustAdd("GitHub Token", `\b(ghp|gho|ghu|ghs|ghr)_[a-zA-Z0-9]{36}\b`, "[GITHUB_TOKEN_REDACTED]")
	s.mustAdd("Google API Key", `\bAIza[0-9A-Za-z\-_]{35}\b`, "[GOOGLE_KEY_REDACTED]")
	s.mustAdd("Email", `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`, "[EMAIL_REDACTED]")
	return s
}

func (s *Scanner) mustAdd(name, pattern, replacement string) {
	if err := s.AddRule(name, pattern, replacement); err != nil {
		panic(err)
	}
}

// Redact applies every rule in order and reports which rules matched.
func (s *Scanner) Redact(input string) (string, []Finding) {
	result := input
	var findings []Finding
	for _, rule := range s.rules {
		matches := rule.Pattern.FindAllStringIndex(result, -1)
		if len(matches) == 0 {
			continue
		}
		findings = append(findings, Finding{Rule: rule.Name, Count: len(matches)})
		result = rule.Pattern.ReplaceAllString(result, rule.Replacement)
	}
	return result, findings
}

// Sanitize 清理文本中的所有敏感信息
func (s *Scanner) Sanitize(input string) string {
	result, _ := s.Redact(input)
	return result
}

// AddRule 动态添加自定义规则
func (s *Scanner) AddRule(name string, pattern string, replacement string) error {
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("rule %s: %w", name, err)
	}
	s.rules = append(s.rules, Rule{
		Name:        name,
		Pattern:     compiled,
		Replacement: replacement,
	})
	return nil
}

// GetRules 返回当前所有规则的副本
func (s *Scanner) GetRules() []Rule {
	rulesCopy := make([]Rule, len(s.rules))
	copy(rulesCopy, s.rules)
	return rulesCopy
}
