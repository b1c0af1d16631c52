package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"VTSync/internal/interfaces"
)

// fakeStore 内存版DocStore，记录写入次数供断言
type fakeStore struct {
	mu      sync.Mutex
	docs    map[string]map[string]json.RawMessage
	upserts map[string]int
	failAll bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:    make(map[string]map[string]json.RawMessage),
		upserts: make(map[string]int),
	}
}

func (f *fakeStore) Fetch(_ context.Context, coll string) (map[string]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, &interfaces.StoreError{Kind: interfaces.ErrKindTimeout, Coll: coll, Err: errors.New("超时")}
	}
	doc, ok := f.docs[coll]
	if !ok {
		return nil, &interfaces.StoreError{Kind: interfaces.ErrKindNotFound, Coll: coll, Err: errors.New("集合不存在")}
	}
	out := make(map[string]json.RawMessage, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) Upsert(_ context.Context, coll string, partial map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return &interfaces.StoreError{Kind: interfaces.ErrKindTimeout, Coll: coll, Err: errors.New("超时")}
	}
	doc, ok := f.docs[coll]
	if !ok {
		doc = make(map[string]json.RawMessage)
		f.docs[coll] = doc
	}
	for field, value := range partial {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("序列化字段%s失败: %w", field, err)
		}
		doc[field] = raw
	}
	f.upserts[coll]++
	return nil
}

// field 取某集合某字段反序列化进out，字段不存在返回false
func (f *fakeStore) field(coll, field string, out interface{}) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[coll]
	if !ok {
		return false
	}
	raw, ok := doc[field]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}
