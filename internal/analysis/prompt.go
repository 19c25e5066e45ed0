// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"bytes"
	"text/template"
)

// defaultMaxTranscriptChars bounds how much transcript text is embedded
// in the prompt, respecting the model's input-size limit.
const defaultMaxTranscriptChars = 200000

// analysisPromptTmpl instructs the model to return the analysis as a
// fenced JSON object. The cascade in parse.go copes with the model
// ignoring these instructions.
var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`**Objective:** Analyze the following YouTube video transcript to help someone efficiently decide if they should invest time watching the full video or if understanding the summary is sufficient.

**Your Role:** Act as an expert content analyst. Focus only on the information present in the text.

**Transcript:**
--- TRANSCRIPT START ---
{{.Transcript}}
--- TRANSCRIPT END ---

**Analysis Request:**
Please analyze this transcript and provide your analysis as a JSON object with the following structure:

` + "```json" + `
{
  "core_topic": "In 1-2 sentences, what is the central subject matter and the primary goal or thesis of the video based on this transcript?",
  "summary": "Provide a comprehensive and detailed summary that covers the main arguments, information points, or narrative arc presented. Go beyond a minimal overview; capture the essence and flow. Use bullet points to list key points or stages if appropriate for the content structure.",
  "structure": "Briefly mention the apparent structure (e.g., tutorial steps, discussion between speakers, historical overview, comparison, argument/counter-argument, presentation with examples).",
  "takeaways": [
    "Key takeaway 1",
    "Key takeaway 2",
    "Key takeaway 3",
    "Key takeaway 4"
  ],
  "categories": [
    "Category 1",
    "Category 2",
    "Category 3",
    "Category 4",
    "Category 5"
  ],
  "verdict": "Either 'Worth Watching' or 'Summary Sufficient'",
  "justification": "A concise explanation for the verdict"
}
` + "```" + `

Your response should ONLY contain this valid JSON object, nothing else.
The categories field MUST be present and contain at least 3 category tags relevant to the content.
The takeaways should be the most important insights from the video.
For the verdict field, use EXACTLY "Worth Watching" or "Summary Sufficient".
`))

// BuildPrompt renders the analysis prompt for a transcript, truncating
// it to maxChars (defaultMaxTranscriptChars when maxChars <= 0).
func BuildPrompt(transcript string, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = defaultMaxTranscriptChars
	}
	if len(transcript) > maxChars {
		transcript = transcript[:maxChars]
	}

	var buf bytes.Buffer
	err := analysisPromptTmpl.Execute(&buf, struct{ Transcript string }{Transcript: transcript})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
