// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"strings"

	"github.com/helioLJ/VideoInsightAI/pkg/types"
)

// maxInferredCategories caps keyword-derived categories.
const maxInferredCategories = 5

// Fallback categories when inference yields nothing. Downstream list
// filtering relies on Categories never being empty.
const (
	categoryContentAnalysis = "Content Analysis"
	categoryVideoContent    = "Video Content"
)

// categoryKeywords maps a category label to topic keywords. Ordered so
// inference is deterministic when more than five categories match.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"Review", []string{"review", "critique", "analysis"}},
	{"Tutorial", []string{"tutorial", "guide", "how to", "learn", "teaching"}},
	{"Comedy", []string{"comedy", "comedic", "humor", "funny", "joke"}},
	{"Documentary", []string{"documentary", "history", "historical", "real"}},
	{"Educational", []string{"education", "educational", "lecture", "learn"}},
	{"Entertainment", []string{"entertainment", "show", "performance"}},
	{"Music", []string{"music", "song", "concert", "musician", "band"}},
	{"Technology", []string{"tech", "technology", "software", "hardware", "digital"}},
	{"Gaming", []string{"game", "gaming", "video game", "gameplay"}},
	{"Film", []string{"film", "movie", "cinema", "director", "actor"}},
	{"Television", []string{"tv", "television", "show", "series", "episode"}},
}

// inferCategories fills in Categories when every strategy left it
// empty: first from keywords in the core topic, then a generic label
// depending on whether anything at all was extracted.
func inferCategories(rec *types.VideoAnalysis) {
	if len(rec.Categories) > 0 {
		return
	}

	if rec.CoreTopic != "" {
		topic := strings.ToLower(rec.CoreTopic)
		for _, entry := range categoryKeywords {
			for _, kw := range entry.keywords {
				if strings.Contains(topic, kw) {
					rec.Categories = append(rec.Categories, entry.category)
					break
				}
			}
			if len(rec.Categories) == maxInferredCategories {
				break
			}
		}
	}

	if len(rec.Categories) > 0 {
		return
	}
	if rec.Verdict != "" {
		rec.Categories = []string{categoryContentAnalysis}
		return
	}
	rec.Categories = []string{categoryVideoContent}
}
