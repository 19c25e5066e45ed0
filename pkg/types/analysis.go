// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Verdict values the analysis prompt asks the model to choose between.
// Free-text verdicts outside these two are preserved verbatim.
const (
	VerdictWorthWatching     = "Worth Watching"
	VerdictSummarySufficient = "Summary Sufficient"
)

// VideoAnalysis is the structured record recovered from a model's
// free-text commentary about one video. Unresolved fields stay empty;
// the record as a whole is never nil when extraction ran.
type VideoAnalysis struct {
	// CoreTopic is the central subject and goal of the video, 1-2 sentences.
	CoreTopic string `json:"core_topic,omitempty" yaml:"core_topic,omitempty"`

	// Summary covers the main arguments or narrative arc.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Structure describes the apparent format (tutorial steps, discussion, ...).
	Structure string `json:"structure,omitempty" yaml:"structure,omitempty"`

	// Takeaways lists distinct key insights in source order.
	Takeaways []string `json:"takeaways,omitempty" yaml:"takeaways,omitempty"`

	// Categories classifies the content. Non-empty whenever extraction
	// ran on a non-empty text body.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Verdict is "Worth Watching", "Summary Sufficient", or whatever
	// free text the model produced instead.
	Verdict string `json:"verdict,omitempty" yaml:"verdict,omitempty"`

	// Justification is the model's explanation for the verdict.
	Justification string `json:"justification,omitempty" yaml:"justification,omitempty"`
}

// IsEmpty reports whether no field was recovered at all.
func (a VideoAnalysis) IsEmpty() bool {
	return a.CoreTopic == "" &&
		a.Summary == "" &&
		a.Structure == "" &&
		len(a.Takeaways) == 0 &&
		len(a.Categories) == 0 &&
		a.Verdict == "" &&
		a.Justification == ""
}
