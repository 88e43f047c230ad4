package serverconfig

import (
	"os"
	"time"

	"VillageRaid/internal/shared/config"
)

const (
	StorageMemory     = "memory"
	StoragePersistent = "persistent"
)

var Conf Config

// Load 读取 configs/conf.yml 到 Conf 并补齐默认值。
func Load() error {
	loader, err := config.Load(config.DefaultPath, &Conf)
	if err != nil {
		return err
	}
	loader.OnChange(func() {
		loader.Lock()
		Conf.applyDefaults()
		loader.Unlock()
	})
	Conf.applyDefaults()
	// 环境变量优先，未设置时回填配置里的 jwt_secret，方便本地开发
	if os.Getenv("JWT_SECRET") == "" && Conf.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", Conf.JWTSecret)
	}
	return nil
}

func (c *Config) applyDefaults() {
	r := &c.Raid
	if r.GridSize <= 0 {
		r.GridSize = 24
	}
	if r.DeploySeconds <= 0 {
		r.DeploySeconds = 30
	}
	if r.MaxTicks <= 0 {
		r.MaxTicks = 2400
	}
	if r.HistoryLimit <= 0 {
		r.HistoryLimit = 20
	}
	if r.HousingCapacity <= 0 {
		r.HousingCapacity = 240
	}
	if r.AskTimeoutMS <= 0 {
		r.AskTimeoutMS = 3000
	}
	if r.CountdownPollMS <= 0 {
		r.CountdownPollMS = 250
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageMemory
	}
}

func (r RaidConfig) DeployBudget() time.Duration {
	return time.Duration(r.DeploySeconds) * time.Second
}

func (r RaidConfig) AskTimeout() time.Duration {
	return time.Duration(r.AskTimeoutMS) * time.Millisecond
}

func (r RaidConfig) CountdownPoll() time.Duration {
	return time.Duration(r.CountdownPollMS) * time.Millisecond
}
