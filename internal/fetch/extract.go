package fetch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AlfredBerg/rod-profile-scraper/internal/profile"
)

var leadingCount = regexp.MustCompile(`^\d[\d.,]*[KMBkmb]?`)

// LeadingCount isolates the numeric token at the start of a follower or
// following label, e.g. "1.2K Followers" gives "1.2K".
func LeadingCount(raw string) (string, bool) {
	c := leadingCount.FindString(strings.TrimSpace(raw))
	if c == "" {
		return "", false
	}
	return c, true
}

// Extract reads fields from a rendered page. Every field is looked up on its
// own: a missing landmark leaves only that field at profile.Sentinel.
func Extract(html, title string, fields profile.FieldSet, lm Landmarks) (profile.Record, error) {
	rec := profile.Empty()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return rec, fmt.Errorf("could not parse page: %w", err)
	}

	for _, f := range fields {
		switch f {
		case profile.Title:
			rec.Set(f, title)
		case profile.Bio:
			rec.Set(f, text(doc, lm.Bio))
		case profile.Location:
			rec.Set(f, text(doc, lm.Location))
		case profile.Website:
			if href, ok := doc.Find(lm.Website).First().Attr("href"); ok {
				rec.Set(f, href)
			}
		case profile.FollowingCount:
			rec.Set(f, count(doc, lm.Following))
		case profile.FollowersCount:
			rec.Set(f, count(doc, lm.Followers))
		}
	}
	return rec, nil
}

func text(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

func count(doc *goquery.Document, selector string) string {
	link := doc.Find(selector).First()
	if link.Length() == 0 {
		return ""
	}
	// The number normally sits in the first span, the label in a later one.
	if c, ok := LeadingCount(link.Find("span").First().Text()); ok {
		return c
	}
	c, _ := LeadingCount(link.Text())
	return c
}
