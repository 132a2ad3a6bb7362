package query

import "github.com/Baricodes/AWS-AI-Assitant/core"

// QueryMonitor provides hooks to observe the answering process.
// Implement this interface to track intermediate steps and results.
type QueryMonitor interface {
	Start(question string)
	AfterEmbedding(dimension int)
	AfterRetrieval(hits []core.ScoredChunk)
	AfterThreshold(kept []core.ScoredChunk)
	AfterPromptAssembly(prompt string, chunksUsed int)
	Finish(answer *core.Answer)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                      {}
func (n *noopMonitor) AfterEmbedding(_ int)                {}
func (n *noopMonitor) AfterRetrieval(_ []core.ScoredChunk) {}
func (n *noopMonitor) AfterThreshold(_ []core.ScoredChunk) {}
func (n *noopMonitor) AfterPromptAssembly(_ string, _ int) {}
func (n *noopMonitor) Finish(_ *core.Answer)               {}
