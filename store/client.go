package store

// Client groups the store operations behind one handle. It is constructed
// once in main and injected wherever remote reads or writes happen, so
// tests can substitute a fake.
type Client struct {
	db *Database
}

// NewClient wraps a database in a store client.
func NewClient(db *Database) *Client {
	return &Client{db: db}
}

// DB exposes the wrapped database for status checks.
func (c *Client) DB() *Database {
	return c.db
}
