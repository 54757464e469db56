package proposal

import (
	"testing"

	"github.com/yungbote/a2p-backend/internal/domain/profile"
)

func TestFindSimilarExactOverlap(t *testing.T) {
	memories := []profile.Memory{
		{Content: "User likes to play tennis on weekends"},
		{Content: "User loves hiking mountains"},
	}

	got := FindSimilar("User likes to play tennis on weekends", memories, DefaultSimilarityThreshold)
	if len(got) != 1 {
		t.Fatalf("expected exactly the tennis memory, got %d matches", len(got))
	}
	if got[0].Score != 1.0 {
		t.Fatalf("identical content should score 1.0, got %f", got[0].Score)
	}
	if got[0].Memory.Content != memories[0].Content {
		t.Fatalf("matched wrong memory: %q", got[0].Memory.Content)
	}
}

func TestFindSimilarCaseInsensitive(t *testing.T) {
	memories := []profile.Memory{{Content: "USER LIKES TO PLAY TENNIS ON WEEKENDS"}}
	got := FindSimilar("user likes tennis", memories, DefaultSimilarityThreshold)
	if len(got) != 1 {
		t.Fatal("case must not matter")
	}
}

func TestFindSimilarBelowThreshold(t *testing.T) {
	memories := []profile.Memory{{Content: "User loves hiking mountains"}}
	got := FindSimilar("User likes to play tennis on weekends", memories, DefaultSimilarityThreshold)
	if len(got) != 0 {
		t.Fatalf("unrelated memory must not match, got %+v", got)
	}
}

func TestFindSimilarShortTokensIgnored(t *testing.T) {
	// Every candidate word is three characters or fewer, so there is
	// nothing to compare against.
	memories := []profile.Memory{{Content: "cat dog sun"}}
	if got := FindSimilar("cat dog sun", memories, DefaultSimilarityThreshold); got != nil {
		t.Fatalf("no tokens longer than 3 chars, got %+v", got)
	}
}
