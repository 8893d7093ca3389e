package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - 输入校验错误：INVALID_INPUT, DIMENSION_MISMATCH, UNKNOWN_ACTION
//   - 可选能力降级：NO_VISUAL_MATCH, NO_TEXT_MATCH
//   - 外部协作方错误：UPSTREAM_UNAVAILABLE
//   - 存储错误：NOT_FOUND
type DomainError struct {
	Code    string // 错误代码（如 "INVALID_INPUT", "DIMENSION_MISMATCH"）
	Message string // 错误消息
	Module  string // 模块名称（如 "catalog", "session", "steer"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeInvalidInput        = "INVALID_INPUT"        // 输入无效（性别/品类/枚举非法）
	ErrorCodeDimensionMismatch   = "DIMENSION_MISMATCH"   // 向量维度与属性空间不一致
	ErrorCodeUnknownAction       = "UNKNOWN_ACTION"       // 未知的反馈动作
	ErrorCodeNoVisualMatch       = "NO_VISUAL_MATCH"      // 视觉引导不可用（缺少视觉嵌入资产）
	ErrorCodeNoTextMatch         = "NO_TEXT_MATCH"        // 文本引导未命中任何属性维度
	ErrorCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE" // 外部协作方不可达或超时
	ErrorCodeNotFound            = "NOT_FOUND"            // 资源不存在
	ErrorCodeInternalError       = "INTERNAL_ERROR"       // 内部错误
)

// 模块名称常量
const (
	ModuleCatalog   = "catalog"   // 目录与资产模块
	ModuleColdstart = "coldstart" // 冷启动模块
	ModuleSession   = "session"   // 会话模块
	ModuleRecall    = "recall"    // 召回模块
	ModuleLearn     = "learn"     // 在线学习模块
	ModuleSteer     = "steer"     // 引导模块
	ModuleService   = "service"   // 外部服务模块
	ModuleStore     = "store"     // 存储模块
)

// 通用错误检查函数

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}

// IsDimensionMismatch 检查错误是否为 DIMENSION_MISMATCH
func IsDimensionMismatch(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeDimensionMismatch
	}
	return false
}

// IsUnknownAction 检查错误是否为 UNKNOWN_ACTION
func IsUnknownAction(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnknownAction
	}
	return false
}

// IsNoVisualMatch 检查错误是否为 NO_VISUAL_MATCH
func IsNoVisualMatch(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNoVisualMatch
	}
	return false
}

// IsNoTextMatch 检查错误是否为 NO_TEXT_MATCH
func IsNoTextMatch(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNoTextMatch
	}
	return false
}

// IsUpstreamUnavailable 检查错误是否为 UPSTREAM_UNAVAILABLE
func IsUpstreamUnavailable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUpstreamUnavailable
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsSoftFailure 判断错误是否为"软失败"：请求在 HTTP 层仍然成功，
// 仅以 success=false + 提示信息的形式透出给调用方。
// 可选能力降级（视觉/文本引导）与上游不可用都属于此类。
func IsSoftFailure(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		switch domainErr.Code {
		case ErrorCodeNoVisualMatch, ErrorCodeNoTextMatch, ErrorCodeUpstreamUnavailable:
			return true
		}
	}
	return false
}
