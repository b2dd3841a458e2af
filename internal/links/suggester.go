// Package links suggests related resources for a completed answer.
package links

// MaxLinks caps the number of suggestions per request.
const MaxLinks = 5

// Link is one related-resource suggestion.
type Link struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Suggester derives related links from the completed answer and the user
// query. Implementations must be pure: identical inputs yield identical
// output.
type Suggester interface {
	Suggest(answerText, userQuery string) []Link
}

// Static serves a fixed catalog regardless of input. It is the placeholder
// behavior behind the Suggester contract; a relevance-ranked implementation
// can replace it without touching the pipeline.
type Static struct{}

// NewStatic builds the catalog-backed suggester.
func NewStatic() Static { return Static{} }

var catalog = []Link{
	{
		Title:       "OpenAI Documentation",
		URL:         "https://platform.openai.com/docs",
		Description: "Official OpenAI API documentation and usage examples.",
	},
	{
		Title:       "FastAPI Tutorial",
		URL:         "https://fastapi.tiangolo.com/learn/",
		Description: "Learn how to build APIs using FastAPI.",
	},
	{
		Title:       "React Documentation",
		URL:         "https://react.dev/",
		Description: "Official React documentation with guides and examples.",
	},
	{
		Title:       "MDN Web Docs – JavaScript Guide",
		URL:         "https://developer.mozilla.org/en-US/docs/Web/JavaScript",
		Description: "Comprehensive JavaScript reference and tutorials.",
	},
	{
		Title:       "Python AsyncIO Guide",
		URL:         "https://docs.python.org/3/library/asyncio.html",
		Description: "Official Python guide to asynchronous programming.",
	},
}

// Suggest returns the catalog, capped at MaxLinks.
func (Static) Suggest(_, _ string) []Link {
	out := make([]Link, 0, MaxLinks)
	out = append(out, catalog[:min(len(catalog), MaxLinks)]...)
	return out
}
