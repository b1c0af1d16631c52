package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"VTSync/internal/interfaces"
	"VTSync/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DocStore 基于vt_collections表的单文档集合存储，实现interfaces.DocStore。
// 所有读写共用一把粗粒度互斥锁：并发任务对同一连接的访问全部串行化，
// 这是刻意的简单换安全，不是性能优化。每次操作受OpTimeout约束，
// 超时以ErrKindTimeout上报并累计错误计数，由守护循环决定何时重置连接。
type DocStore struct {
	mu        sync.Mutex
	db        *gorm.DB
	opTimeout time.Duration
	maxIdle   int
	errCount  int64
	logger    *logrus.Logger
}

// NewDocStore opTimeout<=0 时默认15秒，maxIdle 用于连接重置后恢复空闲池大小
func NewDocStore(db *gorm.DB, opTimeout time.Duration, maxIdle int, logger *logrus.Logger) *DocStore {
	if opTimeout <= 0 {
		opTimeout = 15 * time.Second
	}
	if maxIdle <= 0 {
		maxIdle = 2
	}
	return &DocStore{
		db:        db,
		opTimeout: opTimeout,
		maxIdle:   maxIdle,
		logger:    logger,
	}
}

// Fetch 取整份文档，按顶层字段切分返回。集合不存在返回ErrKindNotFound。
func (s *DocStore) Fetch(ctx context.Context, coll string) (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	var row model.VTCollection
	err := s.db.WithContext(opCtx).Where("name = ?", coll).First(&row).Error
	if err != nil {
		return nil, s.classify(coll, err)
	}

	doc := make(map[string]json.RawMessage)
	if len(row.Doc) > 0 {
		if err := json.Unmarshal(row.Doc, &doc); err != nil {
			return nil, &interfaces.StoreError{Kind: interfaces.ErrKindInternal, Coll: coll,
				Err: fmt.Errorf("文档反序列化失败: %w", err)}
		}
	}
	return doc, nil
}

// Upsert 将partial的各字段合并进文档（$set语义），集合不存在则创建
func (s *DocStore) Upsert(ctx context.Context, coll string, partial map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	tx := s.db.WithContext(opCtx)
	var row model.VTCollection
	findErr := tx.Where("name = ?", coll).First(&row).Error
	if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return s.classify(coll, findErr)
	}

	merged, err := MergeDoc(row.Doc, partial)
	if err != nil {
		return &interfaces.StoreError{Kind: interfaces.ErrKindInternal, Coll: coll, Err: err}
	}

	if errors.Is(findErr, gorm.ErrRecordNotFound) {
		row = model.VTCollection{Name: coll, Doc: merged}
		if err := tx.Create(&row).Error; err != nil {
			return s.classify(coll, err)
		}
		return nil
	}
	if err := tx.Model(&model.VTCollection{}).Where("name = ?", coll).
		Updates(map[string]interface{}{"doc": merged, "updated_at": time.Now().UTC()}).Error; err != nil {
		return s.classify(coll, err)
	}
	return nil
}

// MergeDoc 字段级合并：partial 中的顶层字段覆盖进现有文档，其余字段原样保留
func MergeDoc(existing []byte, partial map[string]interface{}) ([]byte, error) {
	doc := make(map[string]json.RawMessage)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, fmt.Errorf("现有文档反序列化失败: %w", err)
		}
	}
	for key, val := range partial {
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("字段%s序列化失败: %w", key, err)
		}
		doc[key] = raw
	}
	return json.Marshal(doc)
}

// classify 错误分类：超时/未找到/其他，超时同时累计错误计数
func (s *DocStore) classify(coll string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		n := atomic.AddInt64(&s.errCount, 1)
		s.logger.WithField("coll", coll).WithField("err_count", n).
			Error("数据库操作超时")
		return &interfaces.StoreError{Kind: interfaces.ErrKindTimeout, Coll: coll, Err: err}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &interfaces.StoreError{Kind: interfaces.ErrKindNotFound, Coll: coll, Err: err}
	default:
		return &interfaces.StoreError{Kind: interfaces.ErrKindInternal, Coll: coll, Err: err}
	}
}

// ErrorCount 当前累计的超时次数（守护循环轮询用）
func (s *DocStore) ErrorCount() int64 {
	return atomic.LoadInt64(&s.errCount)
}

// ResetConnection 重置底层连接池并清零错误计数。
// 卡死的连接与缓慢的连接从外部无法区分，只能由守护循环强制重建。
func (s *DocStore) ResetConnection() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("获取底层连接失败: %w", err)
	}
	// 先收缩空闲连接迫使现有连接关闭，再恢复池大小；不整体Close以免打断在途语句
	sqlDB.SetMaxIdleConns(0)
	sqlDB.SetMaxIdleConns(s.maxIdle)
	if err := sqlDB.Ping(); err != nil {
		s.logger.WithError(err).Warn("连接重置后Ping失败")
	}
	atomic.StoreInt64(&s.errCount, 0)
	s.logger.Warn("数据库连接池已重置，错误计数清零")
	return nil
}
