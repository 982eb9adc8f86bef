package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - errors.Is 按 Module + Code 匹配，Message 可携带具体 item 等上下文
//
// 使用场景：
//   - 排名错误：EMPTY_INPUT, EMPTY_PROPOSED_RANK, INCONSISTENT_ORDERING, INCONSISTENT_METRIC_ARITY
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
//   - 特征错误：INVALID_INPUT
type DomainError struct {
	Code    string // 错误代码（如 "EMPTY_INPUT", "NOT_FOUND"）
	Message string // 错误消息
	Module  string // 模块名称（如 "rank", "store", "feature"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is 让 errors.Is 可以用哨兵错误匹配同 Module、同 Code 的详细错误。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok || t == nil {
		return false
	}
	return e.Module == t.Module && e.Code == t.Code
}

// Wrapf 基于当前错误生成一条同 Code 的详细错误。
func (e *DomainError) Wrapf(format string, args ...any) *DomainError {
	return &DomainError{
		Module:  e.Module,
		Code:    e.Code,
		Message: e.Message + ": " + fmt.Sprintf(format, args...),
	}
}

// IsDomainError 检查错误链中是否有 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的 DomainError，如果没有则返回 nil
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
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
	ErrorCodeNotFound     = "NOT_FOUND"     // 资源不存在
	ErrorCodeInvalidInput = "INVALID_INPUT" // 输入无效

	ErrorCodeEmptyInput              = "EMPTY_INPUT"               // 分数表为空
	ErrorCodeEmptyProposedRank       = "EMPTY_PROPOSED_RANK"       // 候选排序为空
	ErrorCodeInconsistentOrdering    = "INCONSISTENT_ORDERING"     // 候选排序不是分数表 key 的排列
	ErrorCodeInconsistentMetricArity = "INCONSISTENT_METRIC_ARITY" // 各 item 的指标个数不一致
)

// 模块名称常量
const (
	ModuleRank    = "rank"    // 排名/距离计算
	ModuleStore   = "store"   // 存储模块
	ModuleFeature = "feature" // 特征（指标）抽取
)

// 排名模块错误
var (
	// ErrEmptyInput 表示分数表没有任何 item
	ErrEmptyInput = NewDomainError(ModuleRank, ErrorCodeEmptyInput, "rank: no scores are provided")

	// ErrEmptyProposedRank 表示候选排序为空
	ErrEmptyProposedRank = NewDomainError(ModuleRank, ErrorCodeEmptyProposedRank, "rank: proposed rank is not provided")

	// ErrInconsistentOrdering 表示候选排序包含重复、缺失或未知的 item
	ErrInconsistentOrdering = NewDomainError(ModuleRank, ErrorCodeInconsistentOrdering, "rank: proposed ordering is not a permutation of the scored items")

	// ErrInconsistentMetricArity 表示 ScoreVector 长度不一致（或为 0）
	ErrInconsistentMetricArity = NewDomainError(ModuleRank, ErrorCodeInconsistentMetricArity, "rank: inconsistent number of metrics")

	// ErrInvalidScore 表示分数无法比较（NaN）
	ErrInvalidScore = NewDomainError(ModuleRank, ErrorCodeInvalidInput, "rank: invalid score")
)

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
