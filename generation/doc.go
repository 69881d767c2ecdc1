// Package generation provides story.Generator implementations.
//
// OpenAIGenerator calls the chat completions API. MockGenerator is
// deterministic and offline, for tests and the CLI --offline mode.
package generation
