package cache

import (
	"context"
	"time"
)

const settingCacheTTL = 5 * time.Minute

func settingKey(key string) string {
	return "setting:" + key
}

// GetSetting 读取设置缓存
func (s *Store) GetSetting(ctx context.Context, key string, dest interface{}) (bool, error) {
	return s.GetJSON(ctx, settingKey(key), dest)
}

// SetSetting 写入设置缓存
func (s *Store) SetSetting(ctx context.Context, key string, value interface{}) error {
	return s.SetJSON(ctx, settingKey(key), value, settingCacheTTL)
}

// DelSetting 删除设置缓存
func (s *Store) DelSetting(ctx context.Context, key string) error {
	return s.Del(ctx, settingKey(key))
}
