package settings

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextPolicyOnce sync.Once
	richTextPolicy     *bluemonday.Policy
)

func richTextSanitizer() *bluemonday.Policy {
	richTextPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		policy.AllowAttrs("target").OnElements("a")
		richTextPolicy = policy
	})
	return richTextPolicy
}

// SanitizeHTML strips unsafe markup from merchant supplied rich text.
func SanitizeHTML(input string) string {
	if input == "" {
		return ""
	}
	return richTextSanitizer().Sanitize(input)
}
