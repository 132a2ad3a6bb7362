// Package openai provides production implementations of the ai interfaces
// backed by OpenAI-compatible HTTP APIs (Ollama, LocalAI, vLLM, hosted
// OpenAI-protocol gateways).
//
// Provider failures are classified into the core error kinds before being
// handed to the shared retry policy: throttling and 5xx responses are
// retried, malformed-input rejections are not.
package openai
