package replay

import (
	"fmt"
	"strings"

	"github.com/quasilyte/gdata"
)

// Items 键值存储的最小接口；gdata.Manager 满足它
type Items interface {
	SaveItem(key string, data []byte) error
	LoadItem(key string) ([]byte, error)
}

// Store 按键保存/读取回放
type Store struct {
	items Items
}

// OpenStore 打开 appName 对应的本地数据目录
func OpenStore(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("replay: open store %q: %w", appName, err)
	}
	return NewStore(m), nil
}

func NewStore(items Items) *Store { return &Store{items: items} }

// SafeName 只保留字母、数字、'-' 与 '_'，其余字符替换为 '_'
func SafeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}

// Key 回放条目名
func Key(parts ...string) string {
	return "replay_" + SafeName(strings.Join(parts, "_"))
}

func (s *Store) Save(key string, r Replay) error {
	b, err := Encode(r)
	if err != nil {
		return err
	}
	if err := s.items.SaveItem(key, b); err != nil {
		return fmt.Errorf("replay: save %q: %w", key, err)
	}
	return nil
}

// Load 读取回放；条目不存在或为空时返回 ErrNotFound
func (s *Store) Load(key string) (Replay, error) {
	b, err := s.items.LoadItem(key)
	if err != nil {
		return Replay{}, fmt.Errorf("replay: load %q: %w", key, err)
	}
	if len(b) == 0 {
		return Replay{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return Decode(b)
}
