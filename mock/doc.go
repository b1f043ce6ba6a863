// Package mock is the "mock" provider: an offline provider.Client that
// answers every prompt with fixed text. It backs the CLI's dry-run mode and
// the tests of packages that sit on top of provider.Manager.
//
//	cfg := provider.DefaultConfig().WithOption("content", "Hello!")
//	client, _ := provider.New("mock", cfg)
package mock
