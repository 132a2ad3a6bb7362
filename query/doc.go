// Package query turns questions into grounded answers.
//
// Answering runs in fixed stages: the question is embedded, the nearest
// chunks are retrieved from the vector index, hits below the score
// threshold are dropped, the survivors are packed into a token-budgeted
// prompt, and the generator produces the final text. Sources are
// attributed per document with duplicates collapsed to their best score.
//
// When nothing relevant is retrieved the answerer short-circuits with a
// fixed fallback answer instead of letting the generator improvise.
package query
