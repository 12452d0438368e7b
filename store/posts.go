package store

import (
	"database/sql"
	"fmt"

	"github.com/mwdirectory/mwtrack-go/models"
)

// CreatePost inserts one post document.
func (c *Client) CreatePost(p *models.Post) error {
	query := `INSERT INTO posts (id, user_id, username, body, video_url, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	_, err := c.db.Conn.Exec(query, p.ID, p.UserID, p.Username, p.Text, p.VideoURL, p.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// ListPosts returns all posts in descending timestamp order.
func (c *Client) ListPosts() ([]models.Post, error) {
	query := `SELECT id, user_id, username, body, video_url, created_at
	          FROM posts ORDER BY created_at DESC`

	rows, err := c.db.Conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		var body, videoURL sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &p.Username, &body, &videoURL, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		p.Text = body.String
		p.VideoURL = videoURL.String
		posts = append(posts, p)
	}

	return posts, rows.Err()
}
