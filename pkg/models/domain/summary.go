package domain

// SummarySource tags where an executive summary came from.
type SummarySource string

const (
	// SummarySourceModel means the text was produced by the remote model.
	SummarySourceModel SummarySource = "model"
	// SummarySourceLocal means the local heuristic produced the text,
	// either because no credential was available or the remote call failed.
	SummarySourceLocal SummarySource = "local"
)

// SummaryResult replaces exception-based control flow at the summarization
// boundary: generation always yields non-empty text, tagged with its source.
type SummaryResult struct {
	Text   string
	Source SummarySource
}
