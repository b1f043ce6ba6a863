package openai

import "github.com/randalmurphal/contentkit/provider"

func init() {
	provider.Register(ProviderName, func(cfg provider.Config) (provider.Client, error) {
		return New(cfg)
	})
}
