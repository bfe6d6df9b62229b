package profile

import "regexp"

var profileURL = regexp.MustCompile(`^https?://(www\.)?twitter\.com/[A-Za-z0-9_]+$`)

// Validate reports whether candidate is a profile url of the form
// http(s)://[www.]twitter.com/<handle> with nothing after the handle.
func Validate(candidate string) bool {
	return profileURL.MatchString(candidate)
}

// WorkingSet returns the distinct valid candidates in first-seen order,
// together with the candidates that were rejected.
func WorkingSet(candidates []string) (urls []string, rejected []string) {
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if !Validate(c) {
			rejected = append(rejected, c)
			continue
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		urls = append(urls, c)
	}
	return urls, rejected
}
