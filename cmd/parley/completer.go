package main

import (
	"context"
	"fmt"

	"parley"
	"parley/gemini"
	"parley/relay"
)

// resolveCompleter selects the completion backend: a relay client when
// a relay URL is given, otherwise a direct Gemini client. Env var
// values are passed in as parameters — env is only read in run().
func resolveCompleter(ctx context.Context, relayURL, apiKey, model string) (parley.Completer, error) {
	if relayURL != "" {
		return relay.NewClient(relayURL), nil
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set (or use -relay to go through a relay server)")
	}
	return newGemini(ctx, apiKey, model)
}

func newGemini(ctx context.Context, apiKey, model string) (*gemini.Client, error) {
	var opts []gemini.Option
	if model != "" {
		opts = append(opts, gemini.WithModel(model))
	}
	client, err := gemini.New(ctx, apiKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return client, nil
}
