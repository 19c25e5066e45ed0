package analysis

import (
	"strings"
	"testing"

	"github.com/helioLJ/VideoInsightAI/pkg/types"
)

// --- strategy 1: fenced JSON ---

func TestParseFencedJSONAllFields(t *testing.T) {
	raw := "Here is the analysis you asked for:\n\n```json\n" + `{
  "core_topic": "A hands-on review of the latest mirrorless cameras.",
  "summary": "The host compares three camera bodies across stills and video.",
  "structure": "Comparison with side-by-side examples.",
  "takeaways": ["Autofocus is the main differentiator", "Video specs are converging"],
  "categories": ["Technology", "Review", "Photography"],
  "verdict": "Worth Watching",
  "justification": "The side-by-side footage cannot be conveyed in text."
}` + "\n```\nLet me know if you need more.\n"

	rec := Parse(raw)

	if rec.CoreTopic != "A hands-on review of the latest mirrorless cameras." {
		t.Errorf("CoreTopic = %q", rec.CoreTopic)
	}
	if rec.Summary != "The host compares three camera bodies across stills and video." {
		t.Errorf("Summary = %q", rec.Summary)
	}
	if rec.Structure != "Comparison with side-by-side examples." {
		t.Errorf("Structure = %q", rec.Structure)
	}
	if len(rec.Takeaways) != 2 || rec.Takeaways[0] != "Autofocus is the main differentiator" {
		t.Errorf("Takeaways = %v", rec.Takeaways)
	}
	if len(rec.Categories) != 3 || rec.Categories[1] != "Review" {
		t.Errorf("Categories = %v", rec.Categories)
	}
	if rec.Verdict != types.VerdictWorthWatching {
		t.Errorf("Verdict = %q", rec.Verdict)
	}
	if rec.Justification != "The side-by-side footage cannot be conveyed in text." {
		t.Errorf("Justification = %q", rec.Justification)
	}
}

func TestParseFencedJSONStringCoercion(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantTakeaways  []string
		wantCategories []string
	}{
		{
			name: "categories as comma string",
			raw: "```json\n" + `{"core_topic": "Espresso gear", "categories": "Coffee, Gear, Reviews"}` + "\n```",
			wantCategories: []string{"Coffee", "Gear", "Reviews"},
		},
		{
			name: "categories as JSON array string",
			raw: "```json\n" + `{"core_topic": "Espresso gear", "categories": "[\"Coffee\", \"Gear\"]"}` + "\n```",
			wantCategories: []string{"Coffee", "Gear"},
		},
		{
			name: "takeaways as newline string",
			raw: "```json\n" + `{"core_topic": "Espresso gear", "categories": ["Coffee"], "takeaways": "Grind size matters\nFresh beans matter more"}` + "\n```",
			wantTakeaways:  []string{"Grind size matters", "Fresh beans matter more"},
			wantCategories: []string{"Coffee"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Parse(tt.raw)
			if !equalSlices(rec.Categories, tt.wantCategories) {
				t.Errorf("Categories = %v, want %v", rec.Categories, tt.wantCategories)
			}
			if tt.wantTakeaways != nil && !equalSlices(rec.Takeaways, tt.wantTakeaways) {
				t.Errorf("Takeaways = %v, want %v", rec.Takeaways, tt.wantTakeaways)
			}
		})
	}
}

func TestParseFencedJSONWithoutKnownKeys(t *testing.T) {
	rec := Parse("```json\n{\"other\": 1}\n```")
	if !equalSlices(rec.Categories, []string{"Video Content"}) {
		t.Errorf("Categories = %v, want [Video Content]", rec.Categories)
	}
	if rec.CoreTopic != "" || rec.Verdict != "" {
		t.Errorf("expected empty record besides categories, got %+v", rec)
	}
}

// --- strategy 2: inline JSON ---

func TestParseInlineJSON(t *testing.T) {
	raw := `Sure! Based on the transcript I would say
{"core_topic": "A walkthrough of sourdough baking at home", "verdict": "Summary Sufficient"}
and that is my honest assessment.`

	rec := Parse(raw)

	if rec.CoreTopic != "A walkthrough of sourdough baking at home" {
		t.Errorf("CoreTopic = %q", rec.CoreTopic)
	}
	if rec.Verdict != types.VerdictSummarySufficient {
		t.Errorf("Verdict = %q", rec.Verdict)
	}
	// No keyword matches the topic, but a verdict exists.
	if !equalSlices(rec.Categories, []string{"Content Analysis"}) {
		t.Errorf("Categories = %v, want [Content Analysis]", rec.Categories)
	}
}

func TestParseInlineJSONSkipsUnrelatedObjects(t *testing.T) {
	raw := `The config was {"debug": true} during recording.
Analysis: {"summary": "A short film retrospective.", "categories": ["Film"]}`

	rec := Parse(raw)
	if rec.Summary != "A short film retrospective." {
		t.Errorf("Summary = %q", rec.Summary)
	}
	if !equalSlices(rec.Categories, []string{"Film"}) {
		t.Errorf("Categories = %v", rec.Categories)
	}
}

// --- strategy 3: heading blocks ---

func TestParseHeadingBlocksBoldNumbered(t *testing.T) {
	raw := `**1. Core Topic & Purpose:** The video reviews this year's flagship smartphone lineup.

**2. Detailed Summary & Structure:** The host benchmarks each phone and ranks them.

**3. Key Takeaways:**
* Battery life improved across the board
* Camera hardware is mostly unchanged

**4. Categories:**
* Technology
* Review

**5. Watch Value Assessment:**
Verdict: Worth Watching
Justification: The benchmark charts carry most of the value.
`

	rec := Parse(raw)

	if rec.CoreTopic != "The video reviews this year's flagship smartphone lineup." {
		t.Errorf("CoreTopic = %q", rec.CoreTopic)
	}
	if rec.Summary != "The host benchmarks each phone and ranks them." {
		t.Errorf("Summary = %q", rec.Summary)
	}
	if !equalSlices(rec.Takeaways, []string{"Battery life improved across the board", "Camera hardware is mostly unchanged"}) {
		t.Errorf("Takeaways = %v", rec.Takeaways)
	}
	if !equalSlices(rec.Categories, []string{"Technology", "Review"}) {
		t.Errorf("Categories = %v", rec.Categories)
	}
	if rec.Verdict != types.VerdictWorthWatching {
		t.Errorf("Verdict = %q", rec.Verdict)
	}
	if rec.Justification != "The benchmark charts carry most of the value." {
		t.Errorf("Justification = %q", rec.Justification)
	}
}

func TestParseHeadingBlocksPlainNumbered(t *testing.T) {
	raw := `1. Core Topic: Functional programming fundamentals explained through worked examples.
2. Summary: A single-speaker lecture covering pure functions and immutability.
`
	rec := Parse(raw)

	if !strings.HasPrefix(rec.CoreTopic, "Functional programming fundamentals") {
		t.Errorf("CoreTopic = %q", rec.CoreTopic)
	}
	if !strings.HasPrefix(rec.Summary, "A single-speaker lecture") {
		t.Errorf("Summary = %q", rec.Summary)
	}
	// No keywords in the core topic and no verdict anywhere.
	if !equalSlices(rec.Categories, []string{"Video Content"}) {
		t.Errorf("Categories = %v", rec.Categories)
	}
}

func TestParseAssessmentJustificationFallback(t *testing.T) {
	block := "Verdict: Summary Sufficient\nThe interview repeats points already in the description."
	verdict, justification := parseAssessment(block)
	if verdict != "Summary Sufficient" {
		t.Errorf("verdict = %q", verdict)
	}
	if justification != "The interview repeats points already in the description." {
		t.Errorf("justification = %q", justification)
	}
}

func TestSplitSections(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantKeys []string
	}{
		{
			name:     "bold unnumbered",
			text:     "**Core Topic:** jazz piano\n**Summary:** a history lesson",
			wantKeys: []string{"core topic", "summary"},
		},
		{
			name:     "plain headings",
			text:     "Topic: chess openings\nStructure: lecture",
			wantKeys: []string{"topic", "structure"},
		},
		{
			name:     "no headings",
			text:     "just prose with no structure at all",
			wantKeys: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := splitSections(tt.text)
			if len(sections) != len(tt.wantKeys) {
				t.Fatalf("got %d sections %v, want %d", len(sections), sections, len(tt.wantKeys))
			}
			for _, key := range tt.wantKeys {
				if _, ok := sections[key]; !ok {
					t.Errorf("missing section %q in %v", key, sections)
				}
			}
		})
	}
}

func TestSplitListBlock(t *testing.T) {
	tests := []struct {
		name        string
		block       string
		allowCommas bool
		want        []string
	}{
		{"asterisk bullets", "* one\n* two", false, []string{"one", "two"}},
		{"dash bullets", "- one\n- two", false, []string{"one", "two"}},
		{"numbered", "1. one 2. two", false, []string{"one", "two"}},
		{"newlines", "one\ntwo", false, []string{"one", "two"}},
		{"commas for categories", "one, two", true, []string{"one", "two"}},
		{"commas kept together without flag", "one, two", false, []string{"one, two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitListBlock(tt.block, tt.allowCommas)
			if !equalSlices(got, tt.want) {
				t.Errorf("splitListBlock(%q) = %v, want %v", tt.block, got, tt.want)
			}
		})
	}
}

// --- strategy 4: direct patterns ---

func TestParseDirectPatterns(t *testing.T) {
	raw := `In short, the core topic: espresso culture in Milan and how it spread.

key takeaways
- Bar culture shaped the drink sizes
- Export chains standardized the menu

Overall verdict summary sufficient for most viewers.
`
	rec := Parse(raw)

	if rec.CoreTopic != "espresso culture in Milan and how it spread." {
		t.Errorf("CoreTopic = %q", rec.CoreTopic)
	}
	if !equalSlices(rec.Takeaways, []string{"Bar culture shaped the drink sizes", "Export chains standardized the menu"}) {
		t.Errorf("Takeaways = %v", rec.Takeaways)
	}
	if rec.Verdict != "summary sufficient for most viewers" {
		t.Errorf("Verdict = %q", rec.Verdict)
	}
}

// --- verdict backstop ---

func TestVerdictBackstop(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"worth watching phrase", "Honestly this one is worth watching in full.", types.VerdictWorthWatching},
		{"summary sufficient phrase", "Reading a summary sufficient here, skip the video.", types.VerdictSummarySufficient},
		{"case insensitive", "WORTH   WATCHING, no question.", types.VerdictWorthWatching},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Parse(tt.raw)
			if rec.Verdict != tt.want {
				t.Errorf("Verdict = %q, want %q", rec.Verdict, tt.want)
			}
			if !equalSlices(rec.Categories, []string{"Content Analysis"}) {
				t.Errorf("Categories = %v, want [Content Analysis]", rec.Categories)
			}
		})
	}
}

// --- category inference ---

func TestInferCategoriesFromCoreTopic(t *testing.T) {
	raw := "```json\n" + `{"core_topic": "A beginner tutorial on digital photography"}` + "\n```"
	rec := Parse(raw)

	want := map[string]bool{"Tutorial": false, "Technology": false}
	for _, c := range rec.Categories {
		if _, ok := want[c]; ok {
			want[c] = true
		}
	}
	for cat, found := range want {
		if !found {
			t.Errorf("Categories %v missing %q", rec.Categories, cat)
		}
	}
}

func TestInferCategoriesLimit(t *testing.T) {
	// Topic matching more than five keyword groups is capped at five.
	raw := "```json\n" + `{"core_topic": "a funny music tech gaming film tv documentary review tutorial show"}` + "\n```"
	rec := Parse(raw)
	if len(rec.Categories) != 5 {
		t.Errorf("got %d categories %v, want 5", len(rec.Categories), rec.Categories)
	}
}

// --- degradation guarantees ---

func TestParseEmptyAndUnstructured(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t\n"},
		{"prose only", "this text has no structure and mentions nothing recognizable"},
		{"broken json fence", "```json\n{not valid json\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Parse(tt.raw)
			if !equalSlices(rec.Categories, []string{"Video Content"}) {
				t.Errorf("Categories = %v, want [Video Content]", rec.Categories)
			}
			if rec.CoreTopic != "" || rec.Summary != "" || rec.Structure != "" ||
				len(rec.Takeaways) != 0 || rec.Verdict != "" || rec.Justification != "" {
				t.Errorf("expected empty fields, got %+v", rec)
			}
		})
	}
}

func TestParseNeverPanics(t *testing.T) {
	inputs := []string{
		"{{{{{", "}}}}", "```json", "```json\n```",
		"{\"takeaways\": 42, \"categories\": {\"a\": 1}}",
		strings.Repeat("{}", 5000),
		"verdict:", "justification:", "* * * *",
	}
	for _, in := range inputs {
		rec := Parse(in)
		if len(rec.Categories) == 0 {
			t.Errorf("Parse(%q): empty categories", in)
		}
	}
}

func TestNormalizeTrimsAndDrops(t *testing.T) {
	rec := types.VideoAnalysis{
		CoreTopic: "  padded  ",
		Takeaways: []string{" one ", "  ", "two"},
	}
	normalize(&rec)
	if rec.CoreTopic != "padded" {
		t.Errorf("CoreTopic = %q", rec.CoreTopic)
	}
	if !equalSlices(rec.Takeaways, []string{"one", "two"}) {
		t.Errorf("Takeaways = %v", rec.Takeaways)
	}
}

func equalSlices(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
