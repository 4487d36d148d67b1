package mcp

import "strings"

// Secret values this short collide with ordinary words too often to
// scrub safely, so they pass through unredacted.
const redactMinLen = 4

// redactSecrets scrubs every known secret value out of tool output,
// substituting a [REDACTED:key] marker that names which variable the
// removed value belonged to.
func redactSecrets(output string, secrets map[string]string) string {
	for key, value := range secrets {
		if len(value) < redactMinLen {
			continue
		}
		output = strings.ReplaceAll(output, value, "[REDACTED:"+key+"]")
	}
	return output
}
