package analyzer

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// linkExtractor classifies anchors: internal/external split, rel hints,
// anchor-text quality and social-platform references.
type linkExtractor struct{}

func (linkExtractor) Name() string { return "links" }

// genericAnchors is the exact stoplist of anchor texts that carry no
// keyword signal. Matching is done after trimming and lowercasing.
var genericAnchors = map[string]struct{}{
	"click here": {},
	"read more":  {},
	"here":       {},
	"link":       {},
	"more":       {},
}

// socialHosts maps link hosts to the platform they belong to, so the
// platform tally counts twitter.com and x.com once.
var socialHosts = map[string]string{
	"facebook.com":  "facebook",
	"fb.com":        "facebook",
	"twitter.com":   "twitter",
	"x.com":         "twitter",
	"linkedin.com":  "linkedin",
	"instagram.com": "instagram",
	"youtube.com":   "youtube",
	"pinterest.com": "pinterest",
	"tiktok.com":    "tiktok",
}

// citationMarkers are phrases that suggest the page is cited or featured
// elsewhere, which correlates with backlink attraction.
var citationMarkers = []string{
	"as seen on", "featured in", "mentioned in", "cited by",
	"press", "media", "news", "awards", "testimonials",
}

func (linkExtractor) Extract(p *Page, s *Signals) error {
	links := &LinkSignals{}
	domains := make(map[string]struct{})
	platforms := make(map[string]struct{})
	nonEmpty := 0

	p.Doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved := p.ResolveURL(href)
		if resolved == "" {
			return
		}

		links.Total++

		if rel, ok := sel.Attr("rel"); ok && strings.Contains(strings.ToLower(rel), "nofollow") {
			links.Nofollow++
		}

		if p.IsInternal(resolved) {
			links.Internal++
		} else if strings.HasPrefix(resolved, "http") {
			links.External++
			if host := hostOf(resolved); host != "" {
				domains[host] = struct{}{}
				if platform, social := socialHosts[host]; social {
					links.SocialLinks++
					platforms[platform] = struct{}{}
				}
			}
		}

		anchor := strings.ToLower(strings.TrimSpace(sel.Text()))
		if anchor == "" {
			links.EmptyAnchors++
			return
		}
		nonEmpty++

		if _, generic := genericAnchors[anchor]; generic {
			links.GenericAnchors++
		} else if len(strings.Fields(anchor)) >= 2 {
			links.KeywordRich++
		}
	})

	links.UniqueDomains = len(domains)
	if nonEmpty > 0 {
		links.KeywordRichRatio = float64(links.KeywordRich) / float64(nonEmpty)
	}

	links.SocialPlatforms = len(platforms)
	links.HasCitations = hasCitationMarker(p.Doc)
	links.HasAuthorTag = strings.TrimSpace(metaName(p.Doc, "author")) != ""
	links.HasAuthorLink = p.Doc.Find("a[rel='author']").Length() > 0
	links.BacklinkPotential = backlinkPotential(links)

	s.Links = links
	return nil
}

func hasCitationMarker(doc *goquery.Document) bool {
	text := strings.ToLower(doc.Find("body").Text())
	for _, marker := range citationMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// backlinkPotential estimates how likely the page is to attract links:
// social presence, breadth of outbound domains and citation markers.
func backlinkPotential(links *LinkSignals) int {
	score := links.SocialPlatforms * 10
	score += min(30, links.UniqueDomains*2)
	if links.HasCitations {
		score += 20
	}
	return min(100, score)
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
