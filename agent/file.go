package agent

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jeeva2334/asklly-agents-v1/llms"
	"github.com/jeeva2334/asklly-agents-v1/memory"
	"github.com/jeeva2334/asklly-agents-v1/pkg/utils"
)

// maxFileAgentReadBytes bounds how much of a referenced file is folded
// into the prompt, keeping oversized documents out of the context window
// (the memory layer's own compression gate then takes over from there).
const maxFileAgentReadBytes = 32 * 1024

var filePathPattern = regexp.MustCompile(`(?:[./][\w./-]+\.\w+)`)

// FileAgent answers questions about local files: it is named in spec
// section 3's closed agent-type set but given no dedicated process
// description there; original_source/agents/__init__.py's FileAgent
// resolves a path out of the query and folds its content into context
// before asking the model. This implements that behavior.
type FileAgent struct {
	base
}

func NewFileAgent(name, rolePrompt string, mem *memory.Memory, provider llms.Provider) *FileAgent {
	return &FileAgent{base: newBase(name, TypeFile, rolePrompt, mem, provider)}
}

func (a *FileAgent) Process(ctx context.Context, query, speechHandle string) (answer, reasoning string, err error) {
	if path := filePathPattern.FindString(query); path != "" {
		content, truncated, readErr := utils.ReadFileTruncated(path, maxFileAgentReadBytes)
		if readErr == nil {
			content = a.Memory().TrimToMaxContext(content)
			note := ""
			if truncated {
				note = " (truncated)"
			}
			query = fmt.Sprintf("%s\n\n--- contents of %s%s ---\n%s", query, path, note, content)
		}
	}
	return a.respond(ctx, query)
}
