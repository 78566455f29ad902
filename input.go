package metascan

import "strings"

// InputKey is the key under which the last batch input is persisted.
const InputKey = "urls"

// SplitInput splits raw batch input on line breaks, trims every line and
// drops blank ones.
func SplitInput(input string) []string {
	lines := strings.FieldsFunc(input, func(r rune) bool {
		return r == '\n' || r == '\r'
	})

	urls := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			urls = append(urls, line)
		}
	}
	return urls
}

// InvalidURLs returns the candidates that fail ValidURL, in input order.
func InvalidURLs(candidates []string) []string {
	var invalid []string
	for _, c := range candidates {
		if !ValidURL(c) {
			invalid = append(invalid, c)
		}
	}
	return invalid
}
