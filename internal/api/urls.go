package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/me/minify/pkg/model"
)

var (
	opMinify   = operation{name: "minify", fallback: "Failed to Minify URL"}
	opListURLs = operation{name: "list_urls", fallback: "Failed to load URLs"}
)

// URLService covers shortening and listing URLs.
type URLService struct {
	c *Client
}

// Minify submits a URL for shortening, attributed to req.UserID if set.
func (s *URLService) Minify(ctx context.Context, req model.MinifyRequest) (*model.MinifyResponse, error) {
	var resp model.MinifyResponse
	if err := s.c.post(ctx, opMinify, model.PathMinify, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListByUser returns the URLs owned by userID. A null body yields an
// empty slice.
func (s *URLService) ListByUser(ctx context.Context, userID int) ([]model.URL, error) {
	q := url.Values{"user_id": {strconv.Itoa(userID)}}
	var urls []model.URL
	if err := s.c.get(ctx, opListURLs, model.PathURLs+"?"+q.Encode(), &urls); err != nil {
		return nil, err
	}
	if urls == nil {
		urls = []model.URL{}
	}
	return urls, nil
}
