// Package llm writes article drafts with an OpenAI-compatible chat
// completions endpoint.
package llm
