package normalization

import (
  "strings"
)

func ParseInputString(input string) string {
  normalized := strings.ToLower(strings.TrimSpace(input))
  return normalized
}

// ParseName trims and collapses internal whitespace without case-folding, for
// user-visible names (blueprints, sessions, companies).
func ParseName(input string) string {
  return strings.Join(strings.Fields(input), " ")
}
