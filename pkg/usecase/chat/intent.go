package chat

import (
	"context"

	"github.com/aura-ai/aura/pkg/adapter"
	"github.com/aura-ai/aura/pkg/model"
	"github.com/aura-ai/aura/pkg/utils/logging"
)

const intentPrompt = `Classify the intent of the following user message as exactly one of: TEXT, IMAGE, VIDEO, AUDIO.
Respond with the single word only.

Message: `

// DetectIntent classifies what kind of generation the message asks for. It
// never fails: classification errors and unrecognized answers fall back to
// TEXT so the chat flow always proceeds.
func DetectIntent(ctx context.Context, provider *adapter.Manager, providerName, message string) model.Intent {
	resp, _, err := provider.GenerateText(ctx, providerName, intentPrompt+message,
		adapter.WithTemperature(0))
	if err != nil {
		logging.From(ctx).Warn("intent detection failed, assuming text", "error", err)
		return model.IntentText
	}
	return model.ParseIntent(resp)
}
