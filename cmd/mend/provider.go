package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/mend"
	"github.com/fwojciec/mend/gemini"
	"github.com/fwojciec/mend/opencode"
)

// resolveGenerator selects and constructs the generation backend. Env var
// values are passed in as parameters — env is only read in run().
func resolveGenerator(ctx context.Context, c *cli, geminiEnvKey string) (mend.Generator, error) {
	switch c.Provider {
	case "", "opencode":
		opts := []opencode.Option{opencode.WithBaseURL(c.Server)}
		if provider, model := splitModel(c.Model); model != "" {
			if provider != "" {
				opts = append(opts, opencode.WithProvider(provider))
			}
			opts = append(opts, opencode.WithModel(model))
		}
		return opencode.New(opts...), nil
	case "gemini":
		if geminiEnvKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set (required for --provider gemini)")
		}
		var opts []gemini.Option
		if _, model := splitModel(c.Model); model != "" {
			opts = append(opts, gemini.WithModel(model))
		}
		client, err := gemini.New(ctx, geminiEnvKey, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown provider %q: must be \"opencode\" or \"gemini\"", c.Provider)
	}
}

// splitModel splits a provider/model spec on the first slash. A bare model
// ID yields an empty provider.
func splitModel(spec string) (provider, model string) {
	if before, after, ok := strings.Cut(spec, "/"); ok {
		return before, after
	}
	return "", spec
}
