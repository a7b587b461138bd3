package chat

import (
	"context"
	"fmt"

	"github.com/aura-ai/aura/pkg/adapter"
	"github.com/m-mizutani/goerr/v2"
)

// maxSynthesisInput caps the content sent to the provider. Longer inputs are
// truncated head-first; a summary of the opening is still a useful summary.
const maxSynthesisInput = 5000

// Synthesize summarizes content in the target language using the provider
// manager's text capability.
func Synthesize(ctx context.Context, provider *adapter.Manager, providerName, content, language string) (string, error) {
	if content == "" {
		return "", goerr.New("no content to synthesize")
	}
	if len(content) > maxSynthesisInput {
		content = content[:maxSynthesisInput]
	}
	if language == "" {
		language = "English"
	}

	prompt := fmt.Sprintf(
		"Summarize the following content in %s. Be concise and keep the key facts.\n\n%s",
		language, content)

	resp, _, err := provider.GenerateText(ctx, providerName, prompt)
	if err != nil {
		return "", goerr.Wrap(err, "failed to synthesize content")
	}
	return resp, nil
}
