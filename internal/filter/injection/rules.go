package injection

import "regexp"

// Rule defines a prompt injection detection pattern.
type Rule struct {
	Name     string
	Regex    *regexp.Regexp
	Severity float64 // 0.0 to 1.0
	Category string  // "instruction_bypass", "role_override", "encoding_trick", "output_steering"
}

// DefaultRules returns the built-in injection detection rules. Patterns match
// on word boundaries; DAN is matched in upper case only.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "ignore_previous",
			Regex:    regexp.MustCompile(`(?i)\bignore\s+(all\s+)?(the\s+)?(previous|above|prior)\s+instructions\b`),
			Severity: 0.95,
			Category: "instruction_bypass",
		},
		{
			Name:     "disregard_prior",
			Regex:    regexp.MustCompile(`(?i)\bdisregard\s+(all\s+)?(the\s+)?(prior|previous|above)\s+(instructions|context|rules)\b`),
			Severity: 0.95,
			Category: "instruction_bypass",
		},
		{
			Name:     "report_steering",
			Regex:    regexp.MustCompile(`(?i)\b(in|for)\s+(the|your|this)\s+(report|summary|standup)\s*,?\s+(say|state|write|mention|claim)\b`),
			Severity: 0.9,
			Category: "output_steering",
		},
		{
			Name:     "jailbreak",
			Regex:    regexp.MustCompile(`\bDAN\b|(?i:\b(do\s+anything\s+now|jailbreak|unrestricted\s+mode)\b)`),
			Severity: 0.9,
			Category: "role_override",
		},
		{
			Name:     "code_block_system",
			Regex:    regexp.MustCompile("(?i)```system"),
			Severity: 0.9,
			Category: "role_override",
		},
		{
			Name:     "system_prefix",
			Regex:    regexp.MustCompile(`(?i)^\s*system\s*:\s*`),
			Severity: 0.85,
			Category: "role_override",
		},
		{
			Name:     "developer_mode",
			Regex:    regexp.MustCompile(`(?i)\b(developer|debug|admin|root)\s+mode\s+(enabled|activated|on)\b`),
			Severity: 0.85,
			Category: "role_override",
		},
		{
			Name:     "base64_instruction",
			Regex:    regexp.MustCompile(`(?i)\b(decode|execute|follow)\s+(the\s+)?base64\b`),
			Severity: 0.85,
			Category: "encoding_trick",
		},
		{
			Name:     "new_instructions",
			Regex:    regexp.MustCompile(`(?i)\b(new|updated|revised)\s+instructions?\s*:`),
			Severity: 0.8,
			Category: "instruction_bypass",
		},
		{
			Name:     "model_address",
			Regex:    regexp.MustCompile(`(?i)\b(attention|note\s+to|dear|hey)\s+(the\s+)?(ai|assistant|llm|language\s+model|chatbot)\b`),
			Severity: 0.8,
			Category: "role_override",
		},
		{
			Name:     "response_prefix",
			Regex:    regexp.MustCompile(`(?i)\brespond\s+with\s*:\s*(sure|absolutely|of\s+course)\b`),
			Severity: 0.75,
			Category: "output_steering",
		},
		{
			Name:     "you_are_now",
			Regex:    regexp.MustCompile(`(?i)\byou\s+are\s+now\s+(a|an|the)\s+`),
			Severity: 0.7,
			Category: "role_override",
		},
	}
}
