// Copyright 2025 Baricodes
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package query

import (
	"fmt"
	"strings"

	"github.com/Baricodes/AWS-AI-Assitant/core"
)

const promptPreamble = `You are a technical assistant answering questions about AWS services.
Answer the question using ONLY the context snippets below. If the context
does not contain the answer, say so plainly. Cite the snippet numbers you
used, like [1] or [2][3]. Do not invent information.`

// BuildPrompt assembles the generation prompt from the retrieved chunks
// and the user's question. The output is deterministic for the same
// inputs: a fixed preamble, numbered snippet blocks in the given order,
// then the question verbatim. Snippet text is fenced with delimiters so
// document content cannot masquerade as instructions.
func BuildPrompt(question string, chunks []core.ScoredChunk) string {
	var b strings.Builder

	b.WriteString(promptPreamble)
	b.WriteString("\n\nContext snippets:\n")

	for i, hit := range chunks {
		label := hit.Chunk.Title
		if hit.Chunk.Section != "" {
			label = label + " / " + hit.Chunk.Section
		}
		fmt.Fprintf(&b, "\n[%d] %s\n<<<\n%s\n>>>\n", i+1, label, hit.Chunk.Text)
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")

	return b.String()
}
