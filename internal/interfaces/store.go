package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// StoreErrKind 持久层错误分类，超时必须与其他失败可区分（调用方据此做重试/熔断记账）
type StoreErrKind int

const (
	ErrKindInternal StoreErrKind = iota // 其他内部错误
	ErrKindTimeout                      // 读写超时（瞬态，记入错误计数）
	ErrKindNotFound                     // 集合不存在（首次运行属正常）
)

// StoreError 带分类的持久层错误
type StoreError struct {
	Kind StoreErrKind
	Coll string // 出错的集合名
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("集合%s操作失败(kind=%d): %v", e.Coll, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsStoreTimeout 判断是否为持久层超时错误
func IsStoreTimeout(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Kind == ErrKindTimeout
}

// IsStoreNotFound 判断是否为集合不存在
func IsStoreNotFound(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Kind == ErrKindNotFound
}

// DocStore 文档存储：每个命名集合对应恰好一份文档。
// Upsert 为字段级合并（$set语义），不整体替换，保证不同任务更新同一集合
// 的不相关字段时互不覆盖。所有实现必须对每次调用施加超时。
type DocStore interface {
	// Fetch 取整份文档（按顶层字段切分）
	Fetch(ctx context.Context, coll string) (map[string]json.RawMessage, error)
	// Upsert 合并部分字段进文档，集合不存在时创建
	Upsert(ctx context.Context, coll string, partial map[string]interface{}) error
}
