// Package modelmap maps OpenAI-style model aliases onto Perplexity
// query configuration (model preference, mode, search focus, sources).
package modelmap

import "sort"

// Default query settings applied when an alias carries no override and
// when an unknown alias is requested.
const (
	DefaultModel       = "claude45sonnetthinking"
	DefaultMode        = "copilot"
	DefaultSearchFocus = "internet"
)

// Config is the upstream configuration resolved for one alias.
type Config struct {
	Model       string
	Mode        string
	SearchFocus string
	Sources     []string
	Description string
}

// registry maps caller-visible aliases to upstream configuration.
// Multiple aliases intentionally collapse onto the same upstream model
// so that common OpenAI client defaults keep working.
var registry = map[string]Config{
	// Perplexity native
	"sonar":            {Model: "experimental", Description: "Perplexity Sonar (experimental)"},
	"experimental":     {Model: "experimental", Description: "Perplexity Sonar (experimental)"},
	"pplx-alpha":       {Model: "pplx_alpha", Description: "Perplexity Alpha - faster responses"},
	"perplexity-alpha": {Model: "pplx_alpha", Description: "Perplexity Alpha - faster responses"},

	// Claude
	"claude-4.5-sonnet":           {Model: "claude45sonnet", Description: "Claude 4.5 Sonnet"},
	"claude45sonnet":              {Model: "claude45sonnet", Description: "Claude 4.5 Sonnet"},
	"claude-sonnet-4-5-thinking":  {Model: "claude45sonnetthinking", Description: "Claude 4.5 Sonnet with Reasoning (recommended)"},
	"claude-4.5-sonnet-thinking":  {Model: "claude45sonnetthinking", Description: "Claude 4.5 Sonnet with Reasoning"},
	"claude45sonnetthinking":      {Model: "claude45sonnetthinking", Description: "Claude 4.5 Sonnet with Reasoning"},
	"claude-4.5-opus":             {Model: "claude45opus", Description: "Claude 4.5 Opus"},
	"claude45opus":                {Model: "claude45opus", Description: "Claude 4.5 Opus"},
	"claude-opus-4-5-thinking":    {Model: "claude45opusthinking", Description: "Claude 4.5 Opus with Reasoning"},
	"claude-4.5-opus-thinking":    {Model: "claude45opusthinking", Description: "Claude 4.5 Opus with Reasoning"},
	"claude45opusthinking":        {Model: "claude45opusthinking", Description: "Claude 4.5 Opus with Reasoning"},

	// Gemini
	"gemini-3-flash":          {Model: "gemini30flash", Description: "Gemini 3 Flash"},
	"gemini30flash":           {Model: "gemini30flash", Description: "Gemini 3 Flash"},
	"gemini-3-flash-thinking": {Model: "gemini30flash_high", Description: "Gemini 3 Flash with Reasoning"},
	"gemini30flash_high":      {Model: "gemini30flash_high", Description: "Gemini 3 Flash with Reasoning"},
	"gemini-3-pro":            {Model: "gemini30pro", Description: "Gemini 3 Pro with Reasoning"},
	"gemini30pro":             {Model: "gemini30pro", Description: "Gemini 3 Pro with Reasoning"},

	// GPT
	"gpt-5.2":          {Model: "gpt52", Description: "GPT 5.2"},
	"gpt52":            {Model: "gpt52", Description: "GPT 5.2"},
	"gpt-5.2-thinking": {Model: "gpt52_thinking", Description: "GPT 5.2 with Reasoning"},
	"gpt52_thinking":   {Model: "gpt52_thinking", Description: "GPT 5.2 with Reasoning"},

	// Legacy OpenAI compatibility
	"gpt-4":         {Model: "gpt52", Description: "GPT-4 compatibility (maps to GPT 5.2)"},
	"gpt-4o":        {Model: "gpt52", Description: "GPT-4o compatibility (maps to GPT 5.2)"},
	"gpt-4-turbo":   {Model: "gpt52", Description: "GPT-4 Turbo compatibility (maps to GPT 5.2)"},
	"gpt-3.5-turbo": {Model: "pplx_alpha", Description: "GPT-3.5 compatibility (maps to Perplexity Alpha)"},

	// Grok
	"grok-4.1":          {Model: "grok41nonreasoning", Description: "Grok 4.1"},
	"grok41":            {Model: "grok41nonreasoning", Description: "Grok 4.1"},
	"grok-4.1-thinking": {Model: "grok41reasoning", Description: "Grok 4.1 with Reasoning"},
	"grok41reasoning":   {Model: "grok41reasoning", Description: "Grok 4.1 with Reasoning"},

	// Kimi
	"kimi-k2":          {Model: "kimik2thinking", Description: "Kimi K2 Thinking"},
	"kimi-k2-thinking": {Model: "kimik2thinking", Description: "Kimi K2 Thinking"},
	"kimik2thinking":   {Model: "kimik2thinking", Description: "Kimi K2 Thinking"},
}

// Resolve returns the configuration for an alias, with mode / search
// focus / sources defaults filled in. Unknown aliases fall back to the
// default model rather than failing: OpenAI clients routinely send
// model names we have no mapping for.
func Resolve(alias string) Config {
	cfg, ok := registry[alias]
	if !ok {
		cfg = Config{Model: DefaultModel}
	}
	if cfg.Mode == "" {
		cfg.Mode = DefaultMode
	}
	if cfg.SearchFocus == "" {
		cfg.SearchFocus = DefaultSearchFocus
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = []string{"web", "scholar"}
	}
	return cfg
}

// List returns all known aliases in sorted order.
func List() []string {
	aliases := make([]string, 0, len(registry))
	for alias := range registry {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}
