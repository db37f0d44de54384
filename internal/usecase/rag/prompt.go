package rag

import "fmt"

// instruction is the fixed system template. The model must ground every
// claim in the context block and refuse when the block is empty.
const instruction = `You are a shopping assistant for a coffee store. Answer the customer's question using only the context below.
Each context entry starts with a citation marker like [1]; reference the markers when it helps the customer check the source.
If the context is "` + EmptyContextMarker + `", reply that no relevant product information was found.
Do not invent products, prices, ratings, or reviews.`

// BuildPrompt combines the instruction, the assembled context, and the
// question into the final prompt. Pure function: same inputs, same
// prompt.
func BuildPrompt(question string, c Context) string {
	return fmt.Sprintf("%s\n\nContext:\n%s\n\nQuestion: %s\nAnswer:", instruction, c.Text, question)
}
