package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"callcenter-ops/internal/routing"
	"callcenter-ops/pkg/logger"
	"callcenter-ops/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, run the pipeline, shape JSON.
type Handlers struct {
	Engine *routing.Engine

	// Redis enables the optional ingest idempotency guard. nil disables it.
	Redis          *redis.Client
	IdempotencyTTL time.Duration
}

// statusClientClosedRequest mirrors nginx's 499: the caller went away while
// we were still working.
const statusClientClosedRequest = 499

const msgCreateFailed = "Failed to create CDR record"

// CreateCDR ingests one inbound call-creation request.
//
// Contract: rejections are a domain outcome and return HTTP 200 with
// success=false; only ingestion-fatal failures (classification, persistence)
// produce a transport-level 500.
func (h Handlers) CreateCDR(c *gin.Context) {
	if h.Engine == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "pipeline not configured"})
		return
	}

	var body map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid json"})
		return
	}

	src, _ := body["src"].(string)
	if src == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "src is required"})
		return
	}
	delete(body, "src")

	claimKey, claimed := h.claimDelivery(c, body)
	if claimed == claimDuplicate {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"success": false, "message": "duplicate call delivery"})
		return
	}

	res, err := h.Engine.IngestCall(c.Request.Context(), routing.CallRequest{Src: src, Extra: body})
	if err != nil {
		// Let the provider's retry re-run the pipeline.
		h.releaseClaim(c, claimKey)

		if routing.IsCancelled(err) {
			c.AbortWithStatus(statusClientClosedRequest)
			return
		}
		logger.FromGin(c).Error("cdr ingestion failed", "src", src, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": msgCreateFailed})
		return
	}

	if res.Disposition.IsRejected() {
		rec := res.Persisted.Record
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": res.Disposition.Reason.Message(),
			"data": gin.H{
				"src":          rec.Src,
				"line_type":    rec.LineType,
				"is_voip":      rec.IsVoip,
				"fraud_score":  rec.FraudScore,
				"recent_abuse": rec.RecentAbuse,
				"status":       rec.Status,
				"reason":       rec.Reason,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": res.Persisted})
}

type claimResult int

const (
	claimSkipped claimResult = iota
	claimAcquired
	claimDuplicate
)

// claimDelivery applies the idempotency guard when Redis is configured and
// the request carries a provider call id. The guard is advisory: a Redis
// failure logs and lets the call through rather than blocking ingestion.
func (h Handlers) claimDelivery(c *gin.Context, body map[string]any) (string, claimResult) {
	if h.Redis == nil {
		return "", claimSkipped
	}
	pcid, _ := body["provider_call_id"].(string)
	if pcid == "" {
		return "", claimSkipped
	}

	ttl := h.IdempotencyTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	key := "cdr:ingest:" + pcid
	ok, err := utils.ClaimOnce(c.Request.Context(), h.Redis, key, ttl)
	if err != nil {
		logger.FromGin(c).Warn("idempotency guard unavailable", "err", err)
		return "", claimSkipped
	}
	if !ok {
		return key, claimDuplicate
	}
	return key, claimAcquired
}

func (h Handlers) releaseClaim(c *gin.Context, key string) {
	if h.Redis == nil || key == "" {
		return
	}
	// The request context may already be cancelled; release anyway.
	ctx := context.WithoutCancel(c.Request.Context())
	if err := utils.ReleaseClaim(ctx, h.Redis, key); err != nil && !errors.Is(err, redis.ErrClosed) {
		logger.FromGin(c).Warn("idempotency claim release failed", "key", key, "err", err)
	}
}

// Healthz reports process liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
