// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis converts free-text model commentary about a video
// into a structured VideoAnalysis record. Model output format drifts
// between calls, so parsing runs as a cascade of strategies ordered by
// decreasing precision; the first strategy that recovers any field
// wins, and a record is always returned.
package analysis

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/helioLJ/VideoInsightAI/pkg/types"
)

// strategy attempts one parsing approach. ok reports whether any field
// was recovered; later strategies run only when earlier ones report false.
type strategy func(text string) (types.VideoAnalysis, bool)

var strategies = []strategy{
	parseFencedJSON,
	parseInlineJSON,
	parseHeadingBlocks,
	parseDirectPatterns,
}

// Parse extracts a VideoAnalysis from raw model output. It never fails:
// fields that cannot be recovered stay empty, and Categories is always
// populated with at least one entry so downstream filtering can rely on it.
func Parse(raw string) types.VideoAnalysis {
	var rec types.VideoAnalysis
	for _, strat := range strategies {
		if r, ok := strat(raw); ok {
			rec = r
			break
		}
	}

	// Verdict backstop runs regardless of which strategy produced the
	// record: the literal phrases are often present even when no
	// structure survived.
	if rec.Verdict == "" {
		if worthWatchingRe.MatchString(raw) {
			rec.Verdict = types.VerdictWorthWatching
		} else if summarySufficientRe.MatchString(raw) {
			rec.Verdict = types.VerdictSummarySufficient
		}
	}

	normalize(&rec)
	inferCategories(&rec)
	return rec
}

var (
	worthWatchingRe     = regexp.MustCompile(`(?i)worth\s+watching`)
	summarySufficientRe = regexp.MustCompile(`(?i)summary\s+sufficient`)
)

// knownKeys are the seven fields the prompt asks the model to emit.
var knownKeys = []string{
	"core_topic", "summary", "structure", "takeaways",
	"categories", "verdict", "justification",
}

// --- strategy 1: fenced JSON ---

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// parseFencedJSON looks for a markdown code fence holding an object
// literal, the format the prompt explicitly requests.
func parseFencedJSON(text string) (types.VideoAnalysis, bool) {
	m := fencedJSONRe.FindStringSubmatch(text)
	if m == nil {
		return types.VideoAnalysis{}, false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(m[1]), &obj); err != nil {
		return types.VideoAnalysis{}, false
	}

	rec := fromJSONObject(obj)
	return rec, !rec.IsEmpty()
}

// --- strategy 2: inline JSON ---

// inlineJSONRe matches balanced-brace substrings allowing one level of
// nesting, the common shape when the model skips the code fence.
var inlineJSONRe = regexp.MustCompile(`\{(?:[^{}]|\{[^{}]*\})*\}`)

func parseInlineJSON(text string) (types.VideoAnalysis, bool) {
	for _, candidate := range inlineJSONRe.FindAllString(text, -1) {
		var obj map[string]any
		if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
			continue
		}

		// Only accept objects that look like an analysis payload.
		found := false
		for _, key := range knownKeys {
			if _, ok := obj[key]; ok {
				found = true
				break
			}
		}
		if !found {
			continue
		}

		rec := fromJSONObject(obj)
		if !rec.IsEmpty() {
			return rec, true
		}
	}
	return types.VideoAnalysis{}, false
}

// fromJSONObject copies the known keys out of a decoded JSON object,
// coercing list fields that arrived as strings.
func fromJSONObject(obj map[string]any) types.VideoAnalysis {
	rec := types.VideoAnalysis{
		CoreTopic:     stringField(obj, "core_topic"),
		Summary:       stringField(obj, "summary"),
		Structure:     stringField(obj, "structure"),
		Verdict:       stringField(obj, "verdict"),
		Justification: stringField(obj, "justification"),
	}
	rec.Takeaways = listField(obj, "takeaways", "\n")
	rec.Categories = listField(obj, "categories", ",")
	return rec
}

func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

// listField returns obj[key] as a string slice. A string value is first
// re-parsed as a JSON array; failing that it is split on sep.
func listField(obj map[string]any, key, sep string) []string {
	switch v := obj[key].(type) {
	case []any:
		var items []string
		for _, e := range v {
			if s, ok := e.(string); ok {
				items = append(items, s)
			}
		}
		return items
	case string:
		var parsed []string
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			return parsed
		}
		return strings.Split(v, sep)
	}
	return nil
}

// --- strategy 3: heading blocks ---

// headingPatterns detect section headings in free-form prose, tried in
// priority order: bold numbered, plain numbered, bold, plain. The first
// pattern matching at least one heading wins for the whole text.
var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\*\*\d+\.\s+([\w &]+):\*\*`),
	regexp.MustCompile(`(?m)^\s*\d+\.\s+([\w &]+):`),
	regexp.MustCompile(`\*\*([\w &]+):\*\*`),
	regexp.MustCompile(`(?m)^([\w &]+):`),
}

// splitSections maps lower-cased heading text to the content between
// that heading and the next one detected by the same pattern.
func splitSections(text string) map[string]string {
	for _, pattern := range headingPatterns {
		locs := pattern.FindAllStringSubmatchIndex(text, -1)
		if len(locs) == 0 {
			continue
		}
		sections := make(map[string]string, len(locs))
		for i, loc := range locs {
			heading := strings.ToLower(strings.TrimSpace(text[loc[2]:loc[3]]))
			end := len(text)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			sections[heading] = strings.TrimSpace(text[loc[1]:end])
		}
		return sections
	}
	return nil
}

// Alias lists tried in order when resolving a semantic field to a heading.
var (
	coreTopicAliases  = []string{"core topic & purpose", "core topic", "topic", "purpose"}
	summaryAliases    = []string{"detailed summary & structure", "summary & structure", "summary", "detailed summary"}
	structureAliases  = []string{"structure"}
	takeawaysAliases  = []string{"key takeaways", "takeaways"}
	categoriesAliases = []string{"categories/tags", "categories", "tags"}
	assessmentAliases = []string{"watch value assessment", "verdict assessment", "assessment"}
)

func resolveSection(sections map[string]string, aliases []string) (string, bool) {
	for _, alias := range aliases {
		if content, ok := sections[alias]; ok {
			return content, true
		}
	}
	return "", false
}

var (
	bulletRe   = regexp.MustCompile(`(?m)^\s*[-*•]\s*(.+)$`)
	numberedRe = regexp.MustCompile(`\d+\.`)
	verdictRe  = regexp.MustCompile(`(?i)verdict:?\s*([^.\n]+)`)
	justifyRe  = regexp.MustCompile(`(?i)justification:?\s*(.+)`)
)

func parseHeadingBlocks(text string) (types.VideoAnalysis, bool) {
	sections := splitSections(text)
	if sections == nil {
		return types.VideoAnalysis{}, false
	}

	var rec types.VideoAnalysis
	if v, ok := resolveSection(sections, coreTopicAliases); ok {
		rec.CoreTopic = v
	}
	if v, ok := resolveSection(sections, summaryAliases); ok {
		rec.Summary = v
	}
	if v, ok := resolveSection(sections, structureAliases); ok {
		rec.Structure = v
	}
	if v, ok := resolveSection(sections, takeawaysAliases); ok {
		rec.Takeaways = splitListBlock(v, false)
	}
	if v, ok := resolveSection(sections, categoriesAliases); ok {
		rec.Categories = splitListBlock(v, true)
	}

	if block, ok := resolveSection(sections, assessmentAliases); ok {
		rec.Verdict, rec.Justification = parseAssessment(block)
	}

	return rec, !rec.IsEmpty()
}

// splitListBlock turns a block of list-ish text into items. Splitting
// methods are tried in order; the first yielding at least one non-empty
// item wins. Comma splitting is a last resort for categories only.
func splitListBlock(block string, allowCommas bool) []string {
	if strings.Contains(block, "*") {
		if items := cleanItems(strings.Split(block, "*")); len(items) > 0 {
			return items
		}
	}
	if ms := bulletRe.FindAllStringSubmatch(block, -1); len(ms) > 0 {
		var items []string
		for _, m := range ms {
			items = append(items, m[1])
		}
		if items = cleanItems(items); len(items) > 0 {
			return items
		}
	}
	if numberedRe.MatchString(block) {
		if items := cleanItems(numberedRe.Split(block, -1)); len(items) > 0 {
			return items
		}
	}
	if items := cleanItems(strings.Split(block, "\n")); len(items) > 1 {
		return items
	}
	if allowCommas && strings.Contains(block, ",") {
		if items := cleanItems(strings.Split(block, ",")); len(items) > 1 {
			return items
		}
	}
	return cleanItems([]string{block})
}

func cleanItems(raw []string) []string {
	var items []string
	for _, item := range raw {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// parseAssessment pulls verdict and justification tokens out of an
// assessment-style block. When no explicit justification token exists
// but a verdict was found, the remainder of the block after the verdict
// line serves as justification.
func parseAssessment(block string) (verdict, justification string) {
	if m := verdictRe.FindStringSubmatch(block); m != nil {
		verdict = strings.TrimSpace(m[1])
	}
	if m := justifyRe.FindStringSubmatch(block); m != nil {
		justification = strings.TrimSpace(m[1])
	}

	if justification == "" && verdict != "" {
		if idx := strings.Index(strings.ToLower(block), "verdict"); idx >= 0 {
			rest := block[idx:]
			if nl := strings.Index(rest, "\n"); nl >= 0 {
				justification = strings.TrimSpace(rest[nl+1:])
			}
		}
	}
	return verdict, justification
}

// --- strategy 4: direct patterns ---

var (
	directCoreTopicRe  = regexp.MustCompile(`(?i)core topic[^:\n]*:?[^\S\n]*([^\n]+)`)
	directTakeawaysRe  = regexp.MustCompile(`(?is)key takeaways[^:\n]*:?\s*(.*?)(?:\n[^\S\n]*\n|$)`)
	directCategoriesRe = regexp.MustCompile(`(?is)categ[^:\n]*:?\s*(.*?)(?:\n[^\S\n]*\n|$)`)
)

// parseDirectPatterns ignores heading structure entirely and scans the
// raw text for field tokens. Lowest-precision textual strategy.
func parseDirectPatterns(text string) (types.VideoAnalysis, bool) {
	var rec types.VideoAnalysis

	if m := directCoreTopicRe.FindStringSubmatch(text); m != nil {
		rec.CoreTopic = strings.TrimSpace(m[1])
	}

	if m := directTakeawaysRe.FindStringSubmatch(text); m != nil {
		for _, b := range bulletRe.FindAllStringSubmatch(m[1], -1) {
			rec.Takeaways = append(rec.Takeaways, strings.TrimSpace(b[1]))
		}
	}

	if m := directCategoriesRe.FindStringSubmatch(text); m != nil {
		if bullets := bulletRe.FindAllStringSubmatch(m[1], -1); len(bullets) > 0 {
			for _, b := range bullets {
				rec.Categories = append(rec.Categories, strings.TrimSpace(b[1]))
			}
		} else {
			rec.Categories = cleanItems(strings.Split(m[1], "\n"))
		}
	}

	if m := verdictRe.FindStringSubmatch(text); m != nil {
		rec.Verdict = strings.TrimSpace(m[1])
	}

	return rec, !rec.IsEmpty()
}

// --- normalization ---

// normalize trims every string field and drops empty list entries.
// Applied after every strategy, so strategies need not trim themselves.
func normalize(rec *types.VideoAnalysis) {
	rec.CoreTopic = strings.TrimSpace(rec.CoreTopic)
	rec.Summary = strings.TrimSpace(rec.Summary)
	rec.Structure = strings.TrimSpace(rec.Structure)
	rec.Verdict = strings.TrimSpace(rec.Verdict)
	rec.Justification = strings.TrimSpace(rec.Justification)
	rec.Takeaways = cleanItems(rec.Takeaways)
	rec.Categories = cleanItems(rec.Categories)
}
