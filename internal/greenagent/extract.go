package greenagent

import (
	"regexp"
	"strings"
)

var (
	fencedBlock = regexp.MustCompile("(?s)```(?:solidity|sol)?\\s*\\n(.*?)```")
	pragmaSpan  = regexp.MustCompile(`(?s)pragma solidity.*\}`)
)

// ExtractSolidity pulls exploit source out of a participant response.
// Fenced code blocks win; a bare pragma..} span is accepted as a fallback
// for agents that answer with raw source. The boolean reports whether
// anything that looks like solidity was found.
func ExtractSolidity(content string) (string, bool) {
	for _, match := range fencedBlock.FindAllStringSubmatch(content, -1) {
		code := strings.TrimSpace(match[1])
		if strings.Contains(code, "pragma solidity") || strings.Contains(code, "contract ") {
			return code, true
		}
	}

	if span := pragmaSpan.FindString(content); span != "" {
		return strings.TrimSpace(span), true
	}

	return "", false
}
