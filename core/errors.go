package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 注意：请求路径上的"查无此人/查无此物"不是错误，用空结果表达；
// DomainError 主要出现在产物加载与外部依赖（事件存储、远程模型）边界。
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "LOAD_FAILED"）
	Message string // 错误消息
	Module  string // 模块名称（如 "artifact", "events", "rank"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
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

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeLoadFailed    = "LOAD_FAILED"    // 产物加载失败（启动期致命）
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleArtifact = "artifact" // 离线产物模块
	ModuleEvents   = "events"   // 事件缓存模块
	ModuleRank     = "rank"     // 排序模块
	ModuleService  = "service"  // 服务模块
)

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsLoadFailed 检查错误是否为产物加载失败
func IsLoadFailed(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeLoadFailed
	}
	return false
}
