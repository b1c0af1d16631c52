package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"VTSync/internal/model"
)

// DatasetService 静态数据集加载（dataset目录下的JSON文件）。
// 数据集变动需要重启进程，运行期只读，不做热加载。
type DatasetService struct {
	dir string
}

func NewDatasetService(dir string) *DatasetService {
	return &DatasetService{dir: dir}
}

// PairingEntries 加载某配对的房间映射数据集
func (s *DatasetService) PairingEntries(file string) ([]model.DatasetEntry, error) {
	var entries []model.DatasetEntry
	if err := s.load(file, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// YTChannels 加载YouTube频道名单
func (s *DatasetService) YTChannels(file string) ([]model.YTChannel, error) {
	var channels []model.YTChannel
	if err := s.load(file, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// TrackedUsers 加载追踪名单（仅取id字段），返回用户/频道ID列表
func (s *DatasetService) TrackedUsers(file string) ([]string, error) {
	var users []model.TrackedUser
	if err := s.load(file, &users); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		if u.ID != "" {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (s *DatasetService) load(file string, out interface{}) error {
	path := filepath.Join(s.dir, file)
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取数据集%s失败: %w", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("解析数据集%s失败: %w", path, err)
	}
	return nil
}
