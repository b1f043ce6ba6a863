// Package providers registers every built-in model provider.
// Import it for side effects to make them available via provider.New():
//
//	import _ "github.com/randalmurphal/contentkit/providers"
package providers

import (
	_ "github.com/randalmurphal/contentkit/mock"
	_ "github.com/randalmurphal/contentkit/openai"
)
