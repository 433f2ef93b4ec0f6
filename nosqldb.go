package nosqldb

import (
	"context"

	"github.com/redbco/nosqldb/wire"
)

// ExecuteQueryBatch implements query.BatchExecutor by routing a single
// Query wire request through the normal dispatcher pipeline, so the
// query runtime's phase-2 distributed-sort coordinator and plain
// continuation loop both get auth stamping, rate limiting, retry and
// version-downgrade handling for free.
func (c *Client) ExecuteQueryBatch(ctx context.Context, req *wire.QueryRequest) (*wire.QueryResult, error) {
	return c.QueryOnePage(ctx, req, 0)
}
