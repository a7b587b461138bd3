package memory_test

import (
	"testing"
	"time"

	"github.com/aura-ai/aura/pkg/model"
	"github.com/aura-ai/aura/pkg/usecase/memory"
	"github.com/m-mizutani/gt"
)

func record(id, text string, createdAt time.Time) *model.MemoryRecord {
	return &model.MemoryRecord{
		ID:        model.MemoryID(id),
		Text:      text,
		CreatedAt: createdAt,
	}
}

func TestRankMatchesRelevantRecord(t *testing.T) {
	now := time.Now()
	records := []*model.MemoryRecord{
		record("a", "the quick brown fox", now),
		record("b", "lorem ipsum", now),
	}

	got := memory.Rank(records, "brown fox", 3)
	gt.Equal(t, got, "the quick brown fox")
}

func TestRankCaseInsensitive(t *testing.T) {
	records := []*model.MemoryRecord{
		record("a", "Deployment NOTES for the BILLING service", time.Now()),
	}

	got := memory.Rank(records, "billing deployment", 3)
	gt.Equal(t, got, "Deployment NOTES for the BILLING service")
}

func TestRankDropsShortTokens(t *testing.T) {
	records := []*model.MemoryRecord{
		record("a", "a cat sat on the mat", time.Now()),
	}

	// All query tokens are shorter than four characters, so nothing matches.
	gt.Equal(t, memory.Rank(records, "cat on mat", 3), "")
}

func TestRankScoreOrdering(t *testing.T) {
	now := time.Now()
	records := []*model.MemoryRecord{
		record("a", "postgres backup schedule", now),
		record("b", "postgres replica failover runbook", now.Add(-time.Hour)),
	}

	// Record b matches two tokens, a matches one; score wins over recency.
	got := memory.Rank(records, "postgres failover", 3)
	gt.Equal(t, got, "postgres replica failover runbook\npostgres backup schedule")
}

func TestRankTieBreaksByRecency(t *testing.T) {
	now := time.Now()
	records := []*model.MemoryRecord{
		record("old", "release checklist draft", now.Add(-time.Hour)),
		record("new", "release checklist final", now),
	}

	got := memory.Rank(records, "checklist", 3)
	gt.Equal(t, got, "release checklist final\nrelease checklist draft")
}

func TestRankTopKLimit(t *testing.T) {
	now := time.Now()
	records := []*model.MemoryRecord{
		record("a", "incident report alpha", now.Add(-2*time.Hour)),
		record("b", "incident report bravo", now.Add(-time.Hour)),
		record("c", "incident report charlie", now),
	}

	got := memory.Rank(records, "incident", 2)
	gt.Equal(t, got, "incident report charlie\nincident report bravo")
}

func TestRankInvalidTopK(t *testing.T) {
	records := []*model.MemoryRecord{
		record("a", "something relevant", time.Now()),
	}

	gt.Equal(t, memory.Rank(records, "relevant", 0), "")
	gt.Equal(t, memory.Rank(records, "relevant", -1), "")
}

func TestRankEmptyInputs(t *testing.T) {
	gt.Equal(t, memory.Rank(nil, "anything", 3), "")
	gt.Equal(t, memory.Rank([]*model.MemoryRecord{record("a", "text", time.Now())}, "", 3), "")
}
