package extract

import (
	"fmt"
	"strings"
)

// delimitedPromptHeader instructs the model to emit bare key:value blocks.
// The "no markdown, no extra symbols" line is load-bearing: the parser relies
// on a flat key:value shape with blank lines between blocks.
const delimitedPromptHeader = `You are a %s verse analyzer.
Extract each verse from the provided text and return the data in this exact format for each verse.
Do not include explanations, markdown, or any extra symbols.
Separate each verse block with a single blank line.

`

const delimitedPromptFooter = `
---
Text to analyze:
%s
---
`

// jsonPrompt asks for a single JSON object so carry-over can be threaded to
// the next chunk. Same contract: raw JSON only, no markdown fences.
const jsonPrompt = `You are a theological data analyst working on the "%s". Your task is to:
1. Find every complete verse section within this chunk of text.
2. For each section, create a JSON object with these keys:
%s
3. Respond with a valid JSON object containing a single key "verses", which is a list of all the verse objects you created, and a key "carry_over_context" holding any incomplete text from the very end of the chunk.
4. Respond with the raw JSON object only. No explanations, no markdown, no extra symbols.

Text chunk to analyze:
---
%s
---
`

// BuildPrompt renders the fixed instruction for one chunk. It is a pure
// function of its inputs.
func BuildPrompt(chunkText string, schema Schema) string {
	if schema.Format == FormatJSON {
		var fields strings.Builder
		for _, f := range schema.Fields {
			if f.Literal != "" {
				fmt.Fprintf(&fields, "   - %q: %s\n", f.Name, f.Literal)
				continue
			}
			fmt.Fprintf(&fields, "   - %q: %s\n", f.Name, f.Hint)
		}
		return fmt.Sprintf(jsonPrompt, schema.SourceName, strings.TrimRight(fields.String(), "\n"), chunkText)
	}

	var b strings.Builder
	fmt.Fprintf(&b, delimitedPromptHeader, schema.SourceName)
	for _, f := range schema.Fields {
		if f.Literal != "" {
			fmt.Fprintf(&b, "%s: %s\n", f.Name, f.Literal)
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", f.Name, f.Hint)
	}
	fmt.Fprintf(&b, delimitedPromptFooter, chunkText)
	return b.String()
}
