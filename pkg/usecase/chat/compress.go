package chat

import (
	"context"
	"strings"

	"github.com/aura-ai/aura/pkg/adapter"
	"github.com/aura-ai/aura/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// compressionRatio is the share of the transcript, by byte size, folded
	// into a summary when the history grows too large.
	compressionRatio = 0.7

	// maxHistoryBytes triggers compression. Providers reject oversized
	// prompts long before this, so compress beforehand.
	maxHistoryBytes = 32 * 1024
)

const summarizePrompt = `Summarize the conversation above. Preserve facts the user stated about themselves,
decisions that were made, and any open questions. Answer with the summary only.`

// compressHistory folds the oldest ~70% of messages into a single summary
// message generated by the text provider, keeping the recent tail verbatim.
func compressHistory(ctx context.Context, provider *adapter.Manager, providerName string, messages []model.Message) ([]model.Message, error) {
	if len(messages) == 0 {
		return nil, goerr.New("history is empty")
	}

	totalBytes := 0
	byteSizes := make([]int, len(messages))
	for i, msg := range messages {
		byteSizes[i] = len(msg.Content)
		totalBytes += byteSizes[i]
	}

	compressThreshold := int(float64(totalBytes) * compressionRatio)

	cumulativeBytes := 0
	compressIndex := 0
	for i, size := range byteSizes {
		cumulativeBytes += size
		if cumulativeBytes >= compressThreshold {
			compressIndex = i + 1
			break
		}
	}

	if compressIndex == 0 || compressIndex >= len(messages) {
		return nil, goerr.New("insufficient content to compress")
	}

	toCompress := messages[:compressIndex]
	toKeep := messages[compressIndex:]

	summary, err := summarizeMessages(ctx, provider, providerName, toCompress)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to summarize messages")
	}

	compressed := make([]model.Message, 0, len(toKeep)+1)
	compressed = append(compressed, model.Message{
		Role:    model.RoleUser,
		Content: "=== Previous conversation summary ===\n\n" + summary,
	})
	compressed = append(compressed, toKeep...)
	return compressed, nil
}

func summarizeMessages(ctx context.Context, provider *adapter.Manager, providerName string, messages []model.Message) (string, error) {
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(summarizePrompt)

	summary, _, err := provider.GenerateText(ctx, providerName, b.String())
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate summary")
	}
	if strings.TrimSpace(summary) == "" {
		return "", goerr.New("empty summary generated")
	}
	return summary, nil
}

func historySize(messages []model.Message) int {
	total := 0
	for _, msg := range messages {
		total += len(msg.Content)
	}
	return total
}

// CompressHistoryForTest is a test helper that exposes compressHistory
func CompressHistoryForTest(ctx context.Context, provider *adapter.Manager, providerName string, messages []model.Message) ([]model.Message, error) {
	return compressHistory(ctx, provider, providerName, messages)
}
