package service

import (
	"strings"
	"unicode"

	"github.com/diillson/aws-service-audit-go/internal/domain/entity"
)

// domainSuffixes são os sufixos de endpoint reconhecidos, do mais longo
// para o mais curto.
var domainSuffixes = []string{
	".amazonaws.com.cn",
	".amazonaws.com",
	".api.aws",
}

// Normalizer maps a raw event source to exactly one canonical service
// name. It is a pure function of its input and the frozen rule table:
// same input, same output, no I/O.
type Normalizer struct {
	rules *Ruleset
}

// NewNormalizer cria um Normalizer sobre um ruleset já validado.
func NewNormalizer(rules *Ruleset) *Normalizer {
	return &Normalizer{rules: rules}
}

// Normalize resolves a raw event source:
//
//  1. strip a known domain suffix (case-insensitive) and lower-case the
//     remainder for lookup;
//  2. exact rules win, returning the mapped canonical form verbatim;
//  3. otherwise the first matching prefix rule in declared order wins;
//  4. otherwise the fallback transform applies: hyphens removed, first
//     rune upper-cased, so an unrecognized service still gets a
//     best-effort display name instead of being dropped.
//
// The only input that yields an empty result is one that is empty after
// suffix stripping; callers treat that as a malformed record.
func (n *Normalizer) Normalize(raw entity.RawEventSource) entity.CanonicalService {
	stripped := stripDomainSuffix(strings.TrimSpace(string(raw)))
	if stripped == "" {
		return ""
	}

	if svc, ok := n.rules.exact[stripped]; ok {
		return svc
	}

	for _, rule := range n.rules.prefix {
		if strings.HasPrefix(stripped, rule.Pattern) {
			return entity.CanonicalService(rule.Service)
		}
	}

	return fallbackName(stripped)
}

// stripDomainSuffix lower-cases the value and removes the first matching
// endpoint suffix. A única caixa usada daqui em diante é a minúscula.
func stripDomainSuffix(s string) string {
	lowered := strings.ToLower(s)
	for _, suffix := range domainSuffixes {
		if strings.HasSuffix(lowered, suffix) {
			return strings.TrimSuffix(lowered, suffix)
		}
	}
	return lowered
}

// fallbackName applies the default transform for unmapped services:
// "some-new-service" becomes "Somenewservice".
func fallbackName(stripped string) entity.CanonicalService {
	cleaned := strings.ReplaceAll(stripped, "-", "")
	if cleaned == "" {
		return ""
	}
	runes := []rune(cleaned)
	runes[0] = unicode.ToUpper(runes[0])
	return entity.CanonicalService(runes)
}
