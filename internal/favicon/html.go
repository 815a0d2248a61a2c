// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package favicon

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// iconRels in preference order.
var iconRels = []string{"icon", "shortcut icon", "apple-touch-icon"}

// parseIconLinks returns the icon hrefs declared in the page head, resolved
// against base and ordered by iconRels. Parsing stops at <body>.
func parseIconLinks(r io.Reader, base *url.URL) []string {
	found := make(map[string][]string, len(iconRels))
	z := html.NewTokenizer(r)

loop:
	for {
		switch z.Next() {
		case html.ErrorToken:
			break loop
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom == atom.Body {
				break loop
			}
			if tok.DataAtom != atom.Link {
				continue
			}
			var rel, href string
			for _, a := range tok.Attr {
				switch strings.ToLower(a.Key) {
				case "rel":
					rel = strings.ToLower(strings.Join(strings.Fields(a.Val), " "))
				case "href":
					href = strings.TrimSpace(a.Val)
				}
			}
			if href == "" {
				continue
			}
			ref, err := url.Parse(href)
			if err != nil {
				continue
			}
			found[rel] = append(found[rel], base.ResolveReference(ref).String())
		}
	}

	var out []string
	for _, rel := range iconRels {
		out = append(out, found[rel]...)
	}
	return out
}
