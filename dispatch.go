package nosqldb

import (
	"context"
	"time"

	"github.com/redbco/nosqldb/auth"
	"github.com/redbco/nosqldb/binary"
	"github.com/redbco/nosqldb/nosqlerr"
	"github.com/redbco/nosqldb/ratelimit"
	"github.com/redbco/nosqldb/transport"
	"github.com/redbco/nosqldb/types"
	"github.com/redbco/nosqldb/wire"
)

func transportRequest(body []byte, authz string, timeout time.Duration) transport.Request {
	return transport.Request{Path: requestPath, Body: body, Authorization: authz, Timeout: timeout}
}

// requestSpec is everything one execute() call needs beyond the
// envelope-level bookkeeping the dispatcher itself fills in.
type requestSpec struct {
	Opcode wire.Opcode
	TableName string
	Timeout time.Duration
	TopoSeqNum int32

	EncodePayload func(w *binary.Writer) error
}

// execute runs the dispatcher's request/response pipeline: compute an effective deadline, consult the per-table rate
// limiter, encode and send the request, decode the response (retrying
// on a throttling/transport/unsupported-protocol outcome per
// nosqlerr.IsRetryable and the version-downgrade path, and giving an
// auth-invalid response exactly one forced-credential-refresh retry
// outside that classifier), and finally feed the observed consumption
// back into the rate limiter. decode is called only once a response
// free of a translated error has been received; extractConsumed pulls
// the ConsumedCapacity out of decode's result so execute never needs to
// know the concrete result shape.
func execute[T any](
	c *Client,
	ctx context.Context,
	spec requestSpec,
	decode func(mr *wire.MapReader, firstName string, firstTag types.Tag, hasFirst bool) (T, error),
	extractConsumed func(T) types.ConsumedCapacity,
) (T, error) {
	var zero T

	log := c.log.WithFields("trace", newTraceID(), "opcode", spec.Opcode.String(), "table", spec.TableName)

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = c.cfg.DefaultTimeout
	}
	ctx, cancel := withDeadline(ctx, timeout)
	defer cancel()

	isRead := spec.Opcode.IsRead()
	readLimiter, writeLimiter := c.tableLimiters(spec.TableName)
	limiter := writeLimiter
	if isRead {
		limiter = readLimiter
	}
	if limiter != nil {
		if _, err := limiter.Consume(ctx, 1); err != nil {
			return zero, nosqlerr.Wrap(nosqlerr.KindCancelled, spec.Opcode.String(), "rate limiter wait cancelled", err)
		}
	}

	maxAttempts := c.cfg.RetryPolicy.MaxAttemptsFor(isRead)
	var lastErr error
	authRefreshed := false

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, nosqlerr.Timeout(spec.Opcode.String(), attempt-1, ctx.Err())
		default:
		}

		version := c.version.get()
		remaining := timeout
		if dl, ok := ctx.Deadline(); ok {
			remaining = time.Until(dl)
			if remaining <= 0 {
				return zero, nosqlerr.Timeout(spec.Opcode.String(), attempt-1, nil)
			}
		}

		header := wire.Header{
			Version: version,
			TableName: spec.TableName,
			Opcode: spec.Opcode,
			TimeoutMs: int32(remaining / time.Millisecond),
			TopoSeqNum: spec.TopoSeqNum,
		}
		body, err := wire.EncodeRequest(version, header, spec.EncodePayload)
		if err != nil {
			return zero, nosqlerr.Wrap(nosqlerr.KindIllegalArgument, spec.Opcode.String(), "encoding request", err)
		}

		authz, err := c.authProvider.AuthorizationString(ctx, requestPath)
		if err != nil {
			return zero, nosqlerr.Wrap(nosqlerr.KindAuthInvalid, spec.Opcode.String(), "computing authorization", err)
		}

		resp, err := c.transport.Do(ctx, transportRequest(body, authz, remaining))
		if err != nil {
			lastErr = nosqlerr.Wrap(nosqlerr.KindRetryableTransport, spec.Opcode.String(), "transport error", err)
			if attempt < maxAttempts {
				if serr := c.sleepBackoff(ctx, attempt); serr != nil {
					return zero, serr
				}
				continue
			}
			return zero, lastErr
		}

		if wire.IsUnsupportedProtocolResponse(resp.Body) {
			if _, ok := c.version.downgradeFrom(version); ok {
				log.Debug("downgraded serial version after unsupported-protocol response")
				continue
			}
			return zero, nosqlerr.New(nosqlerr.KindUnsupportedProtocol, spec.Opcode.String(), "server rejects every serial version this driver supports")
		}

		mr, _, err := wire.DecodeResponseEnvelope(resp.Body, version)
		if err != nil {
			return zero, nosqlerr.Wrap(nosqlerr.KindProtocol, spec.Opcode.String(), "decoding response envelope", err)
		}
		ef, firstName, firstTag, hasFirst, err := wire.ReadErrorFields(mr)
		if err != nil {
			return zero, nosqlerr.Wrap(nosqlerr.KindProtocol, spec.Opcode.String(), "decoding error fields", err)
		}
		if ef.HasError() {
			lastErr = wire.TranslateError(spec.Opcode.String(), ef)

			if nosqlerr.KindOf(lastErr) == nosqlerr.KindAuthInvalid {
				if authRefreshed {
					// Already forced one refresh-and-retry; a second
					// AuthInvalid response means the credential is not the
					// problem, so retrying again would just fail identically.
					return zero, lastErr
				}
				if r, ok := c.authProvider.(auth.Refresher); ok {
					if rerr := r.Refresh(ctx); rerr != nil {
						return zero, nosqlerr.Wrap(nosqlerr.KindAuthInvalid, spec.Opcode.String(), "refreshing credentials", rerr)
					}
				}
				authRefreshed = true
				if attempt < maxAttempts {
					log.Warn("retrying after forced credential refresh attempt=%d", attempt)
					if serr := c.sleepBackoff(ctx, attempt); serr != nil {
						return zero, serr
					}
					continue
				}
				return zero, lastErr
			}

			if nosqlerr.IsRetryable(lastErr) && attempt < maxAttempts {
				log.Warn("retrying after error_code=%d attempt=%d", ef.ErrorCode, attempt)
				if serr := c.sleepBackoff(ctx, attempt); serr != nil {
					return zero, serr
				}
				continue
			}
			return zero, lastErr
		}

		res, err := decode(mr, firstName, firstTag, hasFirst)
		if err != nil {
			return zero, nosqlerr.Wrap(nosqlerr.KindProtocol, spec.Opcode.String(), "decoding response payload", err)
		}

		if limiter != nil {
			limiter.RecordActual(consumedUnitsFor(isRead, extractConsumed(res)))
		}
		return res, nil
	}

	if lastErr != nil {
		return zero, lastErr
	}
	return zero, nosqlerr.Timeout(spec.Opcode.String(), maxAttempts, nil)
}

func (c *Client) sleepBackoff(ctx context.Context, attempt int) error {
	d := c.cfg.RetryPolicy.Backoff(attempt)
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// tableLimiters looks up the (read, write) limiter pair for tableName,
// or (nil, nil) when rate limiting is disabled or no table description
// has been observed yet.
func (c *Client) tableLimiters(tableName string) (read, write ratelimit.Limiter) {
	if c.limiters == nil || tableName == "" {
		return nil, nil
	}
	return c.limiters.Limiters(c.compartment, tableName)
}

func consumedUnitsFor(isRead bool, cc types.ConsumedCapacity) float64 {
	if isRead {
		return float64(cc.ReadUnits)
	}
	return float64(cc.WriteUnits)
}

// noConsumed is the extractConsumed argument for result types that carry
// no ConsumedCapacity of their own (table/admin DDL responses).
func noConsumed[T any](T) types.ConsumedCapacity { return types.ConsumedCapacity{} }

// observeTableLimits feeds a freshly observed TableResult's published
// limits into the rate-limiter registry.
func (c *Client) observeTableLimits(tableName string, limits types.TableLimits) {
	if c.limiters == nil || tableName == "" || limits.Mode != types.Provisioned {
		return
	}
	c.limiters.Observe(c.compartment, tableName, float64(limits.ReadUnits), float64(limits.WriteUnits))
}
