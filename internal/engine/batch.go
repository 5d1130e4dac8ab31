package engine

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cxd309/flight-engine/internal/simerr"
)

// RunBatch runs independent simulations concurrently, at most the configured
// concurrency at a time. Responses are in request order; a failing simulation
// is reported in its own Response and does not affect the others. When ctx is
// cancelled no new simulation starts, RunBatch returns the context error, and
// responses for requests that never ran are left zero.
func (e *Engine) RunBatch(ctx context.Context, reqs []Request) ([]Response, error) {
	out := make([]Response, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, req := range reqs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = e.runOne(req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}

	e.logger.Debug("batch finished", zap.Int("requests", len(reqs)))
	return out, nil
}

func (e *Engine) runOne(req Request) Response {
	resp := Response{ID: req.ID, Kind: req.Kind}
	res, err := e.RunJSON(req.Kind, string(req.Input))
	if err != nil {
		resp.Error = &ErrorBody{Kind: simerr.Name(err), Message: err.Error()}
		return resp
	}
	resp.Output = json.RawMessage(res)
	return resp
}
