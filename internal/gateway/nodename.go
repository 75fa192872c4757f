package gateway

import (
	"regexp"
	"strings"
)

var miniPattern = regexp.MustCompile(`(?i)mini[- ]?(\d+)`)

// NormalizeNodeName converts a raw hostname to a friendly display name:
// common mDNS/ISP suffixes are stripped and "Mac-mini-N" style hostnames
// collapse to "Mini N".
func NormalizeNodeName(name string) string {
	if name == "" {
		return "Unknown"
	}

	name = strings.ReplaceAll(name, ".local", "")
	name = strings.ReplaceAll(name, ".attlocal.net", "")

	if m := miniPattern.FindStringSubmatch(name); m != nil {
		return "Mini " + m[1]
	}

	return name
}

// NodeValue derives the stable filter value for a display name.
func NodeValue(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
