package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/rushteam/stylekit/core"
)

// errorBody 统一错误响应体。
type errorBody struct {
	Module  string `json:"module,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// writeJSON 序列化并写出响应。序列化失败时降级为 500 纯文本。
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "encode response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError 按错误分类映射状态码：
//   - 校验类错误（非法输入/维度不符/未知动作）→ 400
//   - 软失败（视觉资产缺失/文本零命中/上游不可用）→ 200 + success:false
//   - 未找到 → 404，其余 → 500
func writeError(w http.ResponseWriter, err error) {
	body := errorResponse{Error: errorBody{
		Code:    core.ErrorCodeInternalError,
		Message: err.Error(),
	}}
	var domainErr *core.DomainError
	if errors.As(err, &domainErr) {
		body.Error = errorBody{
			Module:  domainErr.Module,
			Code:    domainErr.Code,
			Message: domainErr.Message,
		}
	}

	status := http.StatusInternalServerError
	switch {
	case core.IsInvalidInput(err), core.IsDimensionMismatch(err), core.IsUnknownAction(err):
		status = http.StatusBadRequest
	case core.IsSoftFailure(err):
		status = http.StatusOK
	case core.IsNotFound(err):
		status = http.StatusNotFound
	}
	writeJSON(w, status, body)
}

// decodeJSON 读取并解析 JSON 请求体。
func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput,
			"read request body: "+err.Error())
	}
	if len(body) == 0 {
		return core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput,
			"request body is empty")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput,
			"parse request body: "+err.Error())
	}
	return nil
}
