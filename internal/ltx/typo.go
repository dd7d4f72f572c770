package ltx

import "regexp"

type typoRule struct {
	pattern *regexp.Regexp
	rewrite string
}

// typoRules are applied in order, each to the output of the previous one.
var typoRules = []typoRule{
	// [[name]][other]... -> [name]...
	{regexp.MustCompile(`^\[\[([^\[\]]+)\]\]\[[^\[\]]*\](.*)$`), "[$1]$2"},
	// junk[name]... -> [name]..., but not key[index] = value
	{regexp.MustCompile(`^[^\[\]=\s"]+(\[[^\[\]]+\][^=]*)$`), "$1"},
	// [name] junk -> [name]
	{regexp.MustCompile(`^(\[[^\[\]]+\])[^:]+$`), "$1"},
}

// typoLines are known broken lines found in shipped configs.
var typoLines = map[string]bool{
	"']]":  true,
	"--[[": true,
}

// fixTypos rewrites a comment-free line. It reports false when the line is
// a known typo that must be dropped.
func fixTypos(line string) (string, bool) {
	if typoLines[line] {
		return "", false
	}
	for _, rule := range typoRules {
		line = rule.pattern.ReplaceAllString(line, rule.rewrite)
	}
	return line, true
}
