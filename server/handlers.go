package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rushteam/stylekit/core"
	"github.com/rushteam/stylekit/learn"
	"github.com/rushteam/stylekit/pkg/conv"
	"github.com/rushteam/stylekit/recall"
)

// preferenceRequest 冷启动偏好构建请求。
type preferenceRequest struct {
	SessionID  string   `json:"session_id"`
	Gender     string   `json:"gender"`
	Country    string   `json:"country"`
	Categories []string `json:"categories"`
}

func (s *Server) handlePreference(w http.ResponseWriter, r *http.Request) {
	var req preferenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.SessionID == "" {
		writeError(w, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput,
			"session_id is required"))
		return
	}

	result, err := s.engine.Builder.Build(req.Gender, req.Country, req.Categories)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"preference_vector": result.Vector,
		"archetype":         result.Archetype,
		"summary":           result.Summary,
		"session_id":        req.SessionID,
		"categories":        req.Categories,
		"message":           fmt.Sprintf("constructed preference vector for %s from %s", req.Gender, req.Country),
	})
}

// recommendRequest 推荐请求；偏好向量由调用方往返。
type recommendRequest struct {
	SessionID        string    `json:"session_id"`
	Gender           string    `json:"gender"`
	Categories       []string  `json:"categories"`
	PreferenceVector []float64 `json:"preference_vector"`
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.SessionID == "" {
		writeError(w, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput,
			"session_id is required"))
		return
	}

	rctx := &core.RecommendContext{
		SessionID:  req.SessionID,
		Gender:     req.Gender,
		Categories: req.Categories,
		Preference: req.PreferenceVector,
	}
	result, err := s.engine.Retriever.Next(r.Context(), rctx)
	if err != nil {
		writeError(w, err)
		return
	}

	if result.Exhausted {
		s.metrics.ExhaustionsTotal.Inc()
	} else {
		s.metrics.RecommendationsServed.Inc()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"recommendation": recommendationBody(result),
		"session_id":     req.SessionID,
		"message":        "recommendation generated",
	})
}

// recommendationBody 把召回结果转换为线上响应形态。
// 耗尽时 item_id 为 null、catalog_exhausted 为 true，仍是成功响应。
func recommendationBody(result *recall.Result) map[string]any {
	if result.Exhausted {
		return map[string]any{
			"item_id":              nil,
			"item_vector":          nil,
			"similarity_score":     0.0,
			"image_paths":          []string{},
			"attributes":           []string{},
			"catalog_exhausted":    true,
			"total_items_seen":     result.SeenCount,
			"total_filtered_items": result.FilteredCount,
		}
	}
	return map[string]any{
		"item_id":              result.Item.ID,
		"item_vector":          result.Item.Vector,
		"similarity_score":     result.Similarity,
		"image_paths":          result.Item.Images,
		"attributes":           result.AttributeNames,
		"catalog_exhausted":    false,
		"total_items_seen":     result.SeenCount,
		"total_filtered_items": result.FilteredCount,
	}
}

// actionRequest 反馈请求；两个向量都由调用方提供。
type actionRequest struct {
	PreferenceVector []float64 `json:"preference_vector"`
	ItemVector       []float64 `json:"item_vector"`
	Action           string    `json:"action"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	action, err := learn.ParseAction(req.Action)
	if err != nil {
		writeError(w, err)
		return
	}
	updated, err := s.engine.Learner.ApplyAction(req.PreferenceVector, req.ItemVector, action)
	if err != nil {
		writeError(w, err)
		return
	}

	s.metrics.ActionsTotal.WithLabelValues(string(action)).Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":                   true,
		"updated_preference_vector": updated,
		"action":                    string(action),
		"message":                   fmt.Sprintf("updated preference vector with %s action", action),
	})
}

// handleSteerImage 图片引导。multipart 表单：
//   - image：图片文件
//   - session_id / gender / categories（逗号分隔）/ preference_vector（逗号分隔浮点）
func (s *Server) handleSteerImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxImageBytes); err != nil {
		writeError(w, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput,
			"parse multipart form: "+err.Error()))
		return
	}

	rctx, err := s.steerContext(r)
	if err != nil {
		writeError(w, err)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput,
			"image file is required"))
		return
	}
	defer file.Close()
	image, err := io.ReadAll(io.LimitReader(file, s.maxImageBytes))
	if err != nil {
		writeError(w, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput,
			"read image: "+err.Error()))
		return
	}

	result, err := s.engine.Steerer.SteerByImage(r.Context(), rctx, image)
	if err != nil {
		s.metrics.SteersTotal.WithLabelValues("image", "failure").Inc()
		writeError(w, err)
		return
	}

	s.metrics.SteersTotal.WithLabelValues("image", "success").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "image analyzed successfully",
		"match_result": map[string]any{
			"item_id":          result.MatchedItemID,
			"image_path":       result.MatchedImage,
			"similarity_score": result.VisualSimilarity,
		},
		"updated_preference_vector": result.Preference,
		"new_recommendation":        recommendationBody(result.Next),
	})
}

// steerContext 从 multipart 表单字段构建推荐上下文。
func (s *Server) steerContext(r *http.Request) (*core.RecommendContext, error) {
	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput,
			"session_id is required")
	}
	pref, err := conv.ParseFloats(r.FormValue("preference_vector"))
	if err != nil {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput,
			"parse preference_vector: "+err.Error())
	}

	var categories []string
	for _, c := range strings.Split(r.FormValue("categories"), ",") {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}
	return &core.RecommendContext{
		SessionID:  sessionID,
		Gender:     r.FormValue("gender"),
		Categories: categories,
		Preference: pref,
	}, nil
}

// steerTextRequest 文本引导请求。
type steerTextRequest struct {
	SessionID        string    `json:"session_id"`
	Gender           string    `json:"gender"`
	Categories       []string  `json:"categories"`
	PreferenceVector []float64 `json:"preference_vector"`
	Description      string    `json:"description"`
}

func (s *Server) handleSteerText(w http.ResponseWriter, r *http.Request) {
	var req steerTextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.SessionID == "" {
		writeError(w, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput,
			"session_id is required"))
		return
	}

	rctx := &core.RecommendContext{
		SessionID:  req.SessionID,
		Gender:     req.Gender,
		Categories: req.Categories,
		Preference: req.PreferenceVector,
	}
	result, err := s.engine.Steerer.SteerByText(r.Context(), rctx, req.Description)
	if err != nil {
		s.metrics.SteersTotal.WithLabelValues("text", "failure").Inc()
		writeError(w, err)
		return
	}

	s.metrics.SteersTotal.WithLabelValues("text", "success").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "style description analyzed successfully",
		"analysis_result": map[string]any{
			"matched_attributes": result.MatchedAttributes,
			"summary":            result.Summary,
		},
		"updated_preference_vector": result.Preference,
		"new_recommendation":        recommendationBody(result.Next),
	})
}

func (s *Server) handleSessionReset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if err := s.engine.Tracker.Reset(r.Context(), sessionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "reset seen items for session " + sessionID,
		"session_id": sessionID,
	})
}

// handleSessionSeen 查询会话状态。seen 条目超过 10 个时只返回计数。
func (s *Server) handleSessionSeen(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	status, err := s.engine.Tracker.Status(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	var seenItems any
	if status.SeenCount <= 10 {
		items, err := s.engine.Tracker.SeenItems(r.Context(), sessionID)
		if err != nil {
			writeError(w, err)
			return
		}
		if items == nil {
			items = []string{}
		}
		seenItems = items
	} else {
		seenItems = fmt.Sprintf("%d items (too many to list)", status.SeenCount)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"session_id":        sessionID,
		"total_items_seen":  status.SeenCount,
		"catalog_exhausted": status.Exhausted,
		"seen_items":        seenItems,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"loaded":      s.engine.Catalog.Len() > 0,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"total_items": s.engine.Catalog.Len(),
	})
}
