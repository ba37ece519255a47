package opentdb

import (
	"context"
	"errors"
	"time"

	"github.com/gosimple/slug"
)

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"` // e.g., "Entertainment: Books"
	Slug string `json:"slug"` // e.g., "entertainment-books"
}

var errNoCategories = errors.New("category list is empty")

type categoriesResp struct {
	TriviaCategories []Category `json:"trivia_categories"`
}

// Categories returns the category list, served from memory while younger than the TTL.
// The lock is not held during the request; callers get their own copy.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	c.catMu.Lock()
	if len(c.catList) > 0 && time.Since(c.catTS) < c.catTTL {
		out := append([]Category(nil), c.catList...)
		c.catMu.Unlock()
		return out, nil
	}
	c.catMu.Unlock()

	var resp categoriesResp
	if err := c.getJSON(ctx, c.baseURL+"/api_category.php", &resp); err != nil {
		return nil, err
	}
	if len(resp.TriviaCategories) == 0 {
		return nil, errNoCategories
	}
	for i := range resp.TriviaCategories {
		resp.TriviaCategories[i].Slug = slug.Make(resp.TriviaCategories[i].Name)
	}

	c.catMu.Lock()
	c.catList = resp.TriviaCategories
	c.catTS = time.Now()
	c.catMu.Unlock()
	return append([]Category(nil), resp.TriviaCategories...), nil
}

// CategoryName looks up a cached category name; ok is false when unknown.
func (c *Client) CategoryName(id int) (name string, ok bool) {
	c.catMu.Lock()
	defer c.catMu.Unlock()
	for _, cat := range c.catList {
		if cat.ID == id {
			return cat.Name, true
		}
	}
	return "", false
}
