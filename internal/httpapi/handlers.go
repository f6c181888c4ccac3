package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cognicore/dxcore/internal/intake"
	"github.com/cognicore/dxcore/pkg/dxcore"
	"github.com/cognicore/dxcore/pkg/dxcore/analytics"
	"github.com/cognicore/dxcore/pkg/dxcore/patient"
	"github.com/cognicore/dxcore/pkg/dxcore/store"
)

type analyzeRequest struct {
	Text      string          `json:"text"`
	HTML      string          `json:"html"`
	Checklist []string        `json:"checklist"`
	Profile   *profilePayload `json:"profile"`
	Base      *basePayload    `json:"base"`
}

type profilePayload struct {
	Age        int      `json:"age"`
	Pregnant   bool     `json:"pregnant"`
	Conditions []string `json:"conditions"`
}

type basePayload struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

type matchPayload struct {
	Keyword    string  `json:"keyword"`
	Weight     float64 `json:"weight"`
	Diagnostic bool    `json:"diagnostic"`
}

type candidatePayload struct {
	Disease        string         `json:"disease"`
	Display        string         `json:"display"`
	Confidence     float64        `json:"confidence"`
	Label          string         `json:"label"`
	Base           float64        `json:"base"`
	Boosts         []string       `json:"boosts,omitempty"`
	Matches        []matchPayload `json:"matches,omitempty"`
	DiagnosticHits int            `json:"diagnostic_hits"`
	Explicit       bool           `json:"explicit,omitempty"`
}

type comorbidPayload struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
	Basis      string  `json:"basis"`
	Pattern    string  `json:"pattern,omitempty"`
}

type exclusionPayload struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

type factorPayload struct {
	Category string `json:"category"`
	Phrase   string `json:"phrase"`
	Weight   int    `json:"weight"`
}

type severityPayload struct {
	Score     int             `json:"score"`
	Level     string          `json:"level"`
	Emergency bool            `json:"emergency"`
	Factors   []factorPayload `json:"factors,omitempty"`
}

type advicePayload struct {
	Summary       string   `json:"summary"`
	Care          []string `json:"care"`
	Avoid         []string `json:"avoid,omitempty"`
	Seek          string   `json:"seek"`
	Source        string   `json:"source"`
	Deterministic bool     `json:"deterministic"`
}

type analyzeResponse struct {
	ID           string             `json:"id"`
	CreatedAt    time.Time          `json:"created_at"`
	Detected     string             `json:"detected"`
	Display      string             `json:"display"`
	Confidence   float64            `json:"confidence"`
	Label        string             `json:"label"`
	Source       string             `json:"source"`
	Guidance     string             `json:"guidance"`
	Volume       int                `json:"volume"`
	Insufficient bool               `json:"insufficient,omitempty"`
	Severity     severityPayload    `json:"severity"`
	Candidates   []candidatePayload `json:"candidates"`
	Comorbid     []comorbidPayload  `json:"comorbid,omitempty"`
	Excluded     []exclusionPayload `json:"excluded,omitempty"`
	Advice       advicePayload      `json:"advice"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var payload analyzeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	text := intake.Sanitize(payload.Text)
	if payload.HTML != "" {
		text = intake.Sanitize(payload.HTML)
	}
	checklist := intake.CleanList(payload.Checklist)
	if text == "" && len(checklist) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text, html or checklist required"})
		return
	}

	req := dxcore.Request{Text: text, Checklist: checklist}
	if payload.Profile != nil {
		prof := patient.Profile{Age: payload.Profile.Age, Pregnant: payload.Profile.Pregnant}
		for _, cond := range payload.Profile.Conditions {
			if id := s.engine.Registry().Resolve(cond); id != "" {
				prof.KnownConditions = append(prof.KnownConditions, id)
			}
		}
		req.Profile = prof
	}
	if payload.Base != nil && payload.Base.Label != "" {
		req.Base = &dxcore.BaseEstimate{
			Label:       payload.Base.Label,
			Probability: payload.Base.Probability,
		}
	}

	res, err := s.engine.Analyze(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}

	rec := s.engine.Report(req, res)
	if s.store != nil {
		if err := s.store.UpsertAssessment(c.Request.Context(), rec); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "persist assessment"})
			return
		}
	}

	c.JSON(http.StatusOK, toAnalyzeResponse(rec, res))
}

func toAnalyzeResponse(rec store.Assessment, res dxcore.Result) analyzeResponse {
	out := analyzeResponse{
		ID:           rec.ID,
		CreatedAt:    rec.CreatedAt,
		Detected:     string(res.Detected),
		Display:      res.Display,
		Confidence:   res.Confidence,
		Label:        res.Label,
		Source:       string(res.Source),
		Guidance:     string(res.Guidance),
		Volume:       res.Volume,
		Insufficient: res.Insufficient,
		Severity: severityPayload{
			Score:     res.Severity.Score,
			Level:     string(res.Severity.Level),
			Emergency: res.Severity.Emergency,
		},
		Candidates: make([]candidatePayload, 0, len(res.Candidates)),
		Advice: advicePayload{
			Summary:       res.Advice.Summary,
			Care:          res.Advice.Care,
			Avoid:         res.Advice.Avoid,
			Seek:          res.Advice.Seek,
			Source:        res.Advice.Source,
			Deterministic: res.Advice.Deterministic,
		},
	}

	for _, f := range res.Severity.Factors {
		out.Severity.Factors = append(out.Severity.Factors, factorPayload{
			Category: f.Category, Phrase: f.Phrase, Weight: f.Weight,
		})
	}
	for _, cand := range res.Candidates {
		cp := candidatePayload{
			Disease:        string(cand.Disease),
			Display:        cand.Display,
			Confidence:     cand.Confidence,
			Label:          cand.Label,
			Base:           cand.Base,
			Boosts:         cand.Boosts,
			DiagnosticHits: cand.DiagnosticHits,
			Explicit:       cand.Explicit,
		}
		for _, m := range cand.Matches {
			cp.Matches = append(cp.Matches, matchPayload{
				Keyword: m.Keyword, Weight: m.Weight, Diagnostic: m.Diagnostic,
			})
		}
		out.Candidates = append(out.Candidates, cp)
	}
	for _, co := range res.MultiDisease.Comorbid {
		out.Comorbid = append(out.Comorbid, comorbidPayload{
			Disease:    string(co.Candidate.Disease),
			Confidence: co.Candidate.Confidence,
			Basis:      string(co.Basis),
			Pattern:    co.Pattern,
		})
	}
	for _, ex := range res.MultiDisease.Excluded {
		out.Excluded = append(out.Excluded, exclusionPayload{
			Disease:    string(ex.Disease),
			Confidence: ex.Confidence,
			Reason:     string(ex.Reason),
		})
	}
	return out
}

type rankedPayload struct {
	Rank       int     `json:"rank"`
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
}

type assessmentPayload struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Input         string          `json:"input"`
	Checklist     []string        `json:"checklist,omitempty"`
	Disease       string          `json:"disease"`
	Display       string          `json:"display"`
	Confidence    float64         `json:"confidence"`
	Source        string          `json:"source"`
	SeverityScore int             `json:"severity_score"`
	SeverityLevel string          `json:"severity_level"`
	Emergency     bool            `json:"emergency"`
	Guidance      string          `json:"guidance"`
	Volume        int             `json:"volume"`
	Candidates    []rankedPayload `json:"candidates,omitempty"`
	Comorbid      []string        `json:"comorbid,omitempty"`
	Factors       []factorPayload `json:"factors,omitempty"`
}

func toAssessmentPayload(rec store.Assessment) assessmentPayload {
	out := assessmentPayload{
		ID:            rec.ID,
		CreatedAt:     rec.CreatedAt,
		Input:         rec.Input,
		Checklist:     rec.Checklist,
		Disease:       rec.Disease,
		Display:       rec.Display,
		Confidence:    rec.Confidence,
		Source:        rec.Source,
		SeverityScore: rec.SeverityScore,
		SeverityLevel: rec.SeverityLevel,
		Emergency:     rec.Emergency,
		Guidance:      rec.Guidance,
		Volume:        rec.Volume,
		Comorbid:      rec.Comorbid,
	}
	for _, cand := range rec.Candidates {
		out.Candidates = append(out.Candidates, rankedPayload{
			Rank: cand.Rank, Disease: cand.Disease, Confidence: cand.Confidence,
		})
	}
	for _, f := range rec.Factors {
		out.Factors = append(out.Factors, factorPayload{
			Category: f.Category, Phrase: f.Phrase, Weight: f.Weight,
		})
	}
	return out
}

func (s *Server) handleListAssessments(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history disabled"})
		return
	}
	q, err := s.parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recs, err := s.store.ListAssessments(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list assessments"})
		return
	}

	out := make([]assessmentPayload, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toAssessmentPayload(rec))
	}
	c.JSON(http.StatusOK, gin.H{"assessments": out, "count": len(out)})
}

func (s *Server) handleGetAssessment(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history disabled"})
		return
	}

	rec, ok, err := s.store.GetAssessment(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load assessment"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "assessment not found"})
		return
	}
	c.JSON(http.StatusOK, toAssessmentPayload(rec))
}

type diseaseHit struct {
	Disease    string  `json:"disease"`
	Display    string  `json:"display"`
	Weight     float64 `json:"weight"`
	Diagnostic bool    `json:"diagnostic"`
}

func (s *Server) handleDiseaseLookup(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword required"})
		return
	}

	entries := s.engine.Which(keyword)
	hits := make([]diseaseHit, 0, len(entries))
	for _, e := range entries {
		info, _ := s.engine.Registry().Info(e.Disease)
		hits = append(hits, diseaseHit{
			Disease:    string(e.Disease),
			Display:    info.Display,
			Weight:     e.Weight,
			Diagnostic: e.Diagnostic,
		})
	}
	c.JSON(http.StatusOK, gin.H{"keyword": keyword, "diseases": hits})
}

type diseaseCountPayload struct {
	Disease        string  `json:"disease"`
	Count          int64   `json:"count"`
	MeanConfidence float64 `json:"mean_confidence"`
}

type statsResponse struct {
	Total           int64                 `json:"total"`
	Undetermined    int64                 `json:"undetermined"`
	Emergencies     int64                 `json:"emergencies"`
	WithComorbidity int64                 `json:"with_comorbidity"`
	MeanConfidence  float64               `json:"mean_confidence"`
	Top             []diseaseCountPayload `json:"top"`
	Levels          map[string]int64      `json:"levels"`
	Sources         map[string]int64      `json:"sources"`
	Guidance        map[string]int64      `json:"guidance"`
}

func (s *Server) handleStats(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history disabled"})
		return
	}
	q, err := s.parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats, err := analytics.Collect(c.Request.Context(), s.store, q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "collect stats"})
		return
	}

	top := make([]diseaseCountPayload, 0)
	for _, d := range stats.TopDiseases(10) {
		top = append(top, diseaseCountPayload{
			Disease:        d.Disease,
			Count:          d.Count,
			MeanConfidence: d.MeanConfidence,
		})
	}
	c.JSON(http.StatusOK, statsResponse{
		Total:           stats.Total,
		Undetermined:    stats.Undetermined,
		Emergencies:     stats.Emergencies,
		WithComorbidity: stats.WithComorbidity,
		MeanConfidence:  stats.MeanConfidence,
		Top:             top,
		Levels:          stats.Levels,
		Sources:         stats.Sources,
		Guidance:        stats.Guidance,
	})
}

// parseQuery reads the shared history filters. Disease labels resolve
// through the registry so aliases filter correctly.
func (s *Server) parseQuery(c *gin.Context) (store.Query, error) {
	var q store.Query
	if d := strings.TrimSpace(c.Query("disease")); d != "" {
		q.Disease = string(s.engine.Registry().Resolve(d))
	}
	if raw := c.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, fmt.Errorf("since must be RFC3339")
		}
		q.Since = t
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return q, fmt.Errorf("limit must be a non-negative integer")
		}
		q.Limit = n
	}
	return q, nil
}
