package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Loader 读取 yml 并在文件变更时热更新到 out。
// out 必须是指针；热更新期间持有写锁，读方通过 RLock/RUnlock 保护。
type Loader struct {
	sync.RWMutex
	v        *viper.Viper
	out      any
	onChange []func()
}

// Load 解析路径、读取并反序列化，同时开启 WatchConfig。
func Load(cfgName string, out any) (*Loader, error) {
	path, err := Resolve(cfgName)
	if err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(out); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}

	l := &Loader{v: v, out: out}
	v.OnConfigChange(func(e fsnotify.Event) {
		l.reload()
	})
	v.WatchConfig()
	return l, nil
}

// OnChange 注册热更新回调，回调在写锁释放后执行。
func (l *Loader) OnChange(fn func()) {
	l.Lock()
	defer l.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Viper 暴露底层实例，方便读取未映射到结构体的键。
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

func (l *Loader) reload() {
	l.Lock()
	// 反序列化失败时保留旧配置
	err := l.v.Unmarshal(l.out)
	callbacks := append([]func(){}, l.onChange...)
	l.Unlock()
	if err != nil {
		return
	}
	for _, fn := range callbacks {
		fn()
	}
}
