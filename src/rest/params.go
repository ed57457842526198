package rest

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/go-querystring/query"
)

// QueryParams are the query parameters sent with the first page request.
// Zero fields are omitted. Extra is forwarded verbatim and wins over typed fields.
type QueryParams struct {
	StartTime time.Time `url:"start_time,omitempty"`
	EndTime   time.Time `url:"end_time,omitempty"`
	Interval  string    `url:"interval,omitempty"`
	Sort      string    `url:"sort,omitempty"`
	PageSize  int       `url:"page_size,omitempty"`

	Extra map[string]string `url:"-"`
}

// Values encodes the parameters into a query string.
func (p QueryParams) Values() (url.Values, error) {
	values, err := query.Values(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query parameters: %w", err)
	}
	for k, v := range p.Extra {
		values.Set(k, v)
	}
	return values, nil
}
