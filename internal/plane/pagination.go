package plane

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/danielolaszy/orbit/internal/logging"
)

// pageSize is the page-size hint sent with every list request.
const pageSize = 100

// pageEnvelope is the cursor-paginated shape list endpoints may return. Some
// endpoints instead return a bare JSON array; listPages handles both.
type pageEnvelope struct {
	Results         []json.RawMessage `json:"results"`
	NextCursor      string            `json:"next_cursor"`
	NextPageResults bool              `json:"next_page_results"`
	Count           int               `json:"count"`
}

// listPages fetches every page of a collection endpoint and returns the
// concatenated records in the remote's page order.
//
// A bare-array response is treated as the final (and only) page. An envelope
// response contributes its results and the loop continues only while the
// envelope carries a next cursor and signals more pages. A response with
// neither shape ends the loop and whatever has been accumulated so far is
// returned. The cursor is an opaque token: it is sent back exactly as
// received, never inspected.
//
// Any transport or remote failure aborts the whole fetch; pages already
// accumulated for this call are discarded, not returned.
func (c *Client) listPages(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	var all []json.RawMessage
	cursor := ""

	for {
		page := url.Values{}
		for key, values := range query {
			page[key] = values
		}
		page.Set("per_page", strconv.Itoa(pageSize))
		if cursor != "" {
			page.Set("cursor", cursor)
		}

		data, err := c.do(ctx, http.MethodGet, path, page, nil)
		if err != nil {
			return nil, err
		}

		trimmed := bytes.TrimSpace(data)

		// Bare array: the endpoint doesn't paginate.
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var records []json.RawMessage
			if err := json.Unmarshal(trimmed, &records); err != nil {
				logging.Warn("undecodable list response, stopping pagination",
					"path", path,
					"error", err)
				return all, nil
			}
			return append(all, records...), nil
		}

		var envelope pageEnvelope
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			logging.Warn("undecodable list response, stopping pagination",
				"path", path,
				"error", err)
			return all, nil
		}

		// Neither an array nor a results envelope: stop with what we have.
		if envelope.Results == nil {
			logging.Warn("list response carried no results field, stopping pagination",
				"path", path)
			return all, nil
		}

		all = append(all, envelope.Results...)

		if envelope.NextCursor == "" || !envelope.NextPageResults {
			return all, nil
		}
		cursor = envelope.NextCursor
	}
}

// decodeRecords unmarshals each raw record of a fetched collection into T.
// Records that fail to decode are skipped with a warning rather than failing
// the whole collection.
func decodeRecords[T any](path string, records []json.RawMessage) []T {
	decoded := make([]T, 0, len(records))
	for _, raw := range records {
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			logging.Warn("skipping undecodable record",
				"path", path,
				"error", err)
			continue
		}
		decoded = append(decoded, record)
	}
	return decoded
}
