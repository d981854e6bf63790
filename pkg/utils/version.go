// Package utils contains small cross-cutting helpers.
package utils

// Version is the service version, overridable at build time via
// -ldflags "-X github.com/ardzz/perplexity-scrape/pkg/utils.Version=...".
var Version = "dev"
