package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cxd309/flight-engine/internal/cache"
	"github.com/cxd309/flight-engine/internal/engine"
	"github.com/cxd309/flight-engine/internal/simerr"
)

const (
	version     = "1.0.0"
	cacheHeader = "X-Cache"
	jsonType    = "application/json; charset=utf-8"
)

var startTime = time.Now()

// HealthCheck returns server health status.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "flight-engine",
		"version": version,
		"uptime":  time.Since(startTime).String(),
	})
}

// Simulate runs one simulation of kind from the request body. Results are
// cached under the hash of the re-encoded input when store is non-nil.
func Simulate(eng *engine.Engine, kind string, store cache.Store, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": engine.ErrorBody{Kind: "InvalidParameter", Message: "Invalid request"}})
			return
		}
		input, err := canonical(kind, body)
		if err != nil {
			writeError(c, err)
			return
		}

		ctx := c.Request.Context()
		key := cache.Key(kind, input)
		if store != nil {
			if val, ok, err := store.Get(ctx, key); err != nil {
				logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
			} else if ok {
				c.Header(cacheHeader, "HIT")
				c.Data(http.StatusOK, jsonType, val)
				return
			}
		}

		out, err := eng.RunJSON(kind, string(input))
		if err != nil {
			writeError(c, err)
			return
		}
		if store != nil {
			if err := store.Set(ctx, key, []byte(out), ttl); err != nil {
				logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		c.Header(cacheHeader, "MISS")
		c.Data(http.StatusOK, jsonType, []byte(out))
	}
}

// Batch runs a list of simulations. Per-request failures are reported inside
// the response list, so the status is 200 unless the request itself is bad.
func Batch(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reqs []engine.Request
		if err := c.ShouldBindJSON(&reqs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": engine.ErrorBody{Kind: "InvalidParameter", Message: err.Error()}})
			return
		}

		resps, err := eng.RunBatch(c.Request.Context(), reqs)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": engine.ErrorBody{Message: err.Error()}})
			return
		}
		c.JSON(http.StatusOK, resps)
	}
}

// canonical decodes body as the input of kind and re-encodes it, so inputs
// differing only in formatting or key order share a cache entry.
func canonical(kind string, body []byte) ([]byte, error) {
	var in any
	switch kind {
	case engine.KindFlight:
		in = &engine.FlightInput{}
	case engine.KindRoll:
		in = &engine.RollInput{}
	default:
		return nil, simerr.Invalid("api", "unknown simulation kind %q", kind)
	}
	if err := json.Unmarshal(body, in); err != nil {
		return nil, simerr.Invalid(kind, "invalid input JSON: %v", err)
	}
	return json.Marshal(in)
}

// statusOf maps an error kind to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, simerr.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, simerr.ErrNumericalInstability), errors.Is(err, simerr.ErrBudgetExceeded):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"error": engine.ErrorBody{Kind: simerr.Name(err), Message: err.Error()}})
}
