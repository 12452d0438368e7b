package api

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwdirectory/mwtrack-go/models"
)

func makePosts(n int) []models.Post {
	posts := make([]models.Post, n)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range posts {
		posts[i] = models.Post{
			ID:        fmt.Sprintf("post-%02d", i),
			UserID:    "u1",
			Username:  "tester",
			Text:      fmt.Sprintf("post %d", i),
			Timestamp: base.Add(-time.Duration(i) * time.Minute),
		}
	}
	return posts
}

func TestBuildFeedInterleavesPromos(t *testing.T) {
	feed := BuildFeed(makePosts(12))

	// 12 posts plus promos after the 5th and 10th post
	require.Len(t, feed, 14)

	var promoPositions []int
	for i, item := range feed {
		if item.Kind == "promo" {
			promoPositions = append(promoPositions, i)
		}
	}
	assert.Equal(t, []int{5, 11}, promoPositions)

	// Post order is preserved around the promo blocks
	assert.Equal(t, "post-04", feed[4].Post.ID)
	assert.Equal(t, "post-05", feed[6].Post.ID)
	assert.Equal(t, "post-09", feed[10].Post.ID)
	assert.Equal(t, "post-10", feed[12].Post.ID)
}

func TestBuildFeedSmallLists(t *testing.T) {
	assert.Empty(t, BuildFeed(nil))

	feed := BuildFeed(makePosts(5))
	require.Len(t, feed, 5)
	for _, item := range feed {
		assert.Equal(t, "post", item.Kind)
	}

	// The 6th post crosses the first promo boundary
	feed = BuildFeed(makePosts(6))
	require.Len(t, feed, 7)
	assert.Equal(t, "promo", feed[5].Kind)
	assert.Equal(t, 1, feed[5].Slot)
}

func TestBuildFeedRebuildsFromScratch(t *testing.T) {
	posts := makePosts(7)
	first := BuildFeed(posts)
	second := BuildFeed(posts)

	// Rendering twice produces identical fresh feeds, no accumulation
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Kind, second[i].Kind)
	}
}
