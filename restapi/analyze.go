package restapi

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	log "log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SharedCode/guardian"
	"github.com/SharedCode/guardian/aws_s3"
	"github.com/SharedCode/guardian/classifier"
	"github.com/SharedCode/guardian/policy"
)

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	ChildID string `json:"childId"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// AnalyzeResponse is the success body of POST /analyze.
type AnalyzeResponse struct {
	Decision string  `json:"decision"`
	Severity string  `json:"severity"`
	Score    float64 `json:"score"`
}

// AnalyzeAPI holds the decision pipeline and its collaborators. The pipeline
// stages are stateless, one AnalyzeAPI serves all requests concurrently.
type AnalyzeAPI struct {
	Rules  *classifier.Ruleset
	Policy *policy.Evaluator
	Store  guardian.EventStore
	// Notifier receives high-severity alerts.
	Notifier guardian.Notifier
	// Cache, when not nil, short-circuits re-classification of content seen
	// before. Cache failures are tolerated, classification just runs again.
	Cache guardian.Cache
	// Archiver, when not nil, receives every persisted event for cold archival.
	Archiver *aws_s3.Archiver
}

// NewAnalyzeAPI wires the pipeline with the default ruleset and thresholds.
func NewAnalyzeAPI(store guardian.EventStore, notifier guardian.Notifier) *AnalyzeAPI {
	return &AnalyzeAPI{
		Rules:    classifier.DefaultRuleset(),
		Policy:   policy.NewEvaluator(),
		Store:    store,
		Notifier: notifier,
	}
}

// Analyze godoc
// @Summary Analyze submitted content for a monitored child
// @Schemes
// @Description Classifies the content, applies the age-sensitive policy, records a moderation event and alerts the caller when severity is high.
// @Tags Moderation
// @Accept json
// @Produce json
// @Param request body AnalyzeRequest true "content submission"
// @Success 200 {object} AnalyzeResponse
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /analyze [post]
// @Security Bearer
func (api *AnalyzeAPI) Analyze(c *gin.Context) {
	principal := Principal(c)

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ChildID == "" || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.URL == "" {
		req.URL = "unknown"
	}

	result := api.classify(c, req.Content)
	decision := api.Policy.Evaluate(result.Score, result.Category, req.ChildID)

	event := guardian.ModerationEvent{
		ChildID:  req.ChildID,
		ParentID: principal.UID,
		URL:      req.URL,
		Decision: decision.Decision,
		Severity: decision.Severity,
		Score:    result.Score,
		Category: result.Category,
	}
	if err := api.Store.Append(c.Request.Context(), &event); err != nil {
		log.Error(fmt.Sprintf("event append for child %s failed, details: %v", req.ChildID, err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if api.Archiver != nil {
		api.Archiver.Add(c.Request.Context(), event)
	}

	if decision.Severity == guardian.SeverityHigh {
		message := fmt.Sprintf("High-risk %s content blocked for your child", result.Category)
		if err := api.Notifier.Notify(c.Request.Context(), principal.UID, message); err != nil {
			log.Error(fmt.Sprintf("notification to parent %s failed, details: %v", principal.UID, err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		Decision: decision.Decision,
		Severity: decision.Severity,
		Score:    result.Score,
	})
}

// classify consults the cache keyed by content hash before scanning. The
// classifier is pure so a cached result is exact, not stale.
func (api *AnalyzeAPI) classify(c *gin.Context, content string) guardian.ClassificationResult {
	if api.Cache == nil {
		return api.Rules.Classify(content)
	}
	ctx := c.Request.Context()
	key := classificationKey(content)

	var cached guardian.ClassificationResult
	err := api.Cache.GetStruct(ctx, key, &cached)
	if err == nil {
		return cached
	}
	if !api.Cache.KeyNotFound(err) {
		// Tolerate cache failure.
		log.Warn(fmt.Sprintf("classification cache get for key %s failed, details: %v", key, err))
	}

	result := api.Rules.Classify(content)
	if err := api.Cache.SetStruct(ctx, key, &result, 0); err != nil {
		log.Warn(fmt.Sprintf("classification cache set for key %s failed, details: %v", key, err))
	}
	return result
}

func classificationKey(content string) string {
	h := sha256.Sum256([]byte(content))
	return "clsf:" + hex.EncodeToString(h[:])
}

// GetEvents godoc
// @Summary GetEvents returns recent moderation events of a monitored child
// @Schemes
// @Description GetEvents responds with the most recent moderation events recorded for the child, newest first.
// @Tags Moderation
// @Accept json
// @Produce json
// @Param childId path string true "child identifier"
// @Param limit query int false "maximum events to return"
// @Success 200 {object} []guardian.ModerationEvent
// @Failure 500 {object} map[string]any
// @Router /events/{childId} [get]
// @Security Bearer
func (api *AnalyzeAPI) GetEvents(c *gin.Context) {
	childID := c.Param("childId")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	events, err := api.Store.ListByChild(c.Request.Context(), childID, limit)
	if err != nil {
		log.Error(fmt.Sprintf("event list for child %s failed, details: %v", childID, err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// Ping godoc
// @Summary Health probe
// @Schemes
// @Description Reports service liveness and, when a cache is wired, cache connectivity.
// @Tags Moderation
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /ping [get]
func (api *AnalyzeAPI) Ping(c *gin.Context) {
	if api.Cache != nil {
		if err := api.Cache.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "details": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
