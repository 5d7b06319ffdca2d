package agent

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jeeva2334/asklly-agents-v1/browser"
	"github.com/jeeva2334/asklly-agents-v1/llms"
	"github.com/jeeva2334/asklly-agents-v1/memory"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// BrowserAgent answers questions that require fetching a live web page,
// using the Browser handle shared across every agent in the owning
// session (spec section 5's shared-resource policy).
type BrowserAgent struct {
	base
	br *browser.Browser
}

func NewBrowserAgent(name, rolePrompt string, mem *memory.Memory, provider llms.Provider, br *browser.Browser) *BrowserAgent {
	return &BrowserAgent{base: newBase(name, TypeBrowser, rolePrompt, mem, provider), br: br}
}

func (a *BrowserAgent) Process(ctx context.Context, query, speechHandle string) (answer, reasoning string, err error) {
	if url := urlPattern.FindString(query); url != "" && a.br != nil {
		pageText, fetchErr := a.br.FetchText(ctx, url)
		if fetchErr == nil {
			pageText = a.Memory().TrimToMaxContext(pageText)
			query = fmt.Sprintf("%s\n\n--- page content of %s ---\n%s", query, url, pageText)
		}
	}
	return a.respond(ctx, query)
}
