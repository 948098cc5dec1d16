package pagination

import (
	"encoding/base64"
	"encoding/json"
)

// Pagination is the query-side half of cursor pagination, bindable from
// request query parameters.
type Pagination struct {
	PageToken string `form:"page_token" json:"page_token"`
	PageSize  int    `form:"page_size" json:"page_size"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	HasMore       bool   `json:"has_more"`
}

// Cursor identifies the last row of a page.
type Cursor struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
}

func EncodeCursor(c Cursor) (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func DecodeCursor(token string) (Cursor, error) {
	var c Cursor
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, err
	}
	return c, nil
}

// BuildCursorPageInfo derives PageInfo from a result slice fetched with
// pageSize+1 rows. tokenFor renders the cursor token for the last row kept.
func BuildCursorPageInfo[T any](items []T, pageSize int, tokenFor func(T) string) *PageInfo {
	if pageSize <= 0 {
		return nil
	}
	info := &PageInfo{}
	if len(items) > pageSize {
		info.HasMore = true
		info.NextPageToken = tokenFor(items[pageSize-1])
	}
	return info
}
