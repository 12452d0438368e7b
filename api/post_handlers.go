package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mwdirectory/mwtrack-go/models"
	"github.com/mwdirectory/mwtrack-go/utils"
)

// promoInterval controls promotional block placement: one block after
// every 5th post.
const promoInterval = 5

// CreatePostHandler uploads optional media to object storage, writes the
// post document and returns the stored post.
func CreatePostHandler(c *gin.Context) {
	ctx, err := getAppContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	userID := c.PostForm("userId")
	username := c.PostForm("username")
	text := c.PostForm("text")

	if userID == "" || username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and username required"})
		return
	}
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post text cannot be empty"})
		return
	}

	now := time.Now().UTC()

	var videoURL string
	file, err := c.FormFile("media")
	if err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		defer src.Close()

		videoURL, err = ctx.Media.Store(userID, file.Filename, src, now)
		if err != nil {
			log.Printf("ERROR: CreatePostHandler - media upload failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store media"})
			return
		}
	}

	post := &models.Post{
		ID:        utils.GenerateULID(),
		UserID:    userID,
		Username:  username,
		Text:      text,
		VideoURL:  videoURL,
		Timestamp: now,
	}

	if err := ctx.Store.CreatePost(post); err != nil {
		log.Printf("ERROR: CreatePostHandler - failed to create post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// LoadPostsHandler fully reloads the post feed in descending timestamp
// order with promotional blocks interleaved. The feed is rebuilt from
// scratch on every call.
func LoadPostsHandler(c *gin.Context) {
	ctx, err := getAppContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	posts, err := ctx.Store.ListPosts()
	if err != nil {
		log.Printf("ERROR: LoadPostsHandler - failed to load posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load posts"})
		return
	}

	feed := BuildFeed(posts)
	c.JSON(http.StatusOK, gin.H{"feed": feed, "count": len(posts)})
}

// BuildFeed interleaves one promotional block before every post whose
// 0-based index is a positive multiple of promoInterval.
func BuildFeed(posts []models.Post) []models.FeedItem {
	feed := make([]models.FeedItem, 0, len(posts)+len(posts)/promoInterval)
	slot := 0
	for i := range posts {
		if i > 0 && i%promoInterval == 0 {
			slot++
			feed = append(feed, models.FeedItem{Kind: "promo", Slot: slot})
		}
		feed = append(feed, models.FeedItem{Kind: "post", Post: &posts[i]})
	}
	return feed
}
