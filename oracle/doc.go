// Package oracle provides a provider-agnostic client for the decision-making
// model behind a deep agent.
//
// The agent core never talks to a model provider directly. It builds a
// Request (transcript rendered as messages plus a tool catalog), hands it to
// a Client, and gets back a Response carrying either plain text or a set of
// tool calls. Provider specifics live behind the ProviderAdapter interface;
// the bundled GollmAdapter wraps gollm so any provider gollm speaks
// (OpenAI, Anthropic, and friends) works out of the box.
//
// Transport errors are classified into a typed hierarchy (authentication,
// rate limit, server, ...) so callers can decide what is worth retrying;
// Retry implements the standard exponential-backoff policy over that
// classification.
package oracle
