package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPath 是相对工作目录的默认配置路径。
const DefaultPath = "configs/conf.yml"

// Resolve 把配置名解析成绝对路径：
// 显式给出的路径直接使用，否则从工作目录向上查找 configs/conf.yml。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" && cfgName != DefaultPath {
		if !filepath.IsAbs(cfgName) {
			cfgName = filepath.Join(curDir, cfgName)
		}
		if !fileExist(cfgName) {
			return "", fmt.Errorf("config file not exist, path=%s", cfgName)
		}
		return cfgName, nil
	}
	return findUpward(curDir)
}

func findUpward(startDir string) (string, error) {
	for dir := startDir; ; {
		candidate := filepath.Join(dir, DefaultPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("config file not exist, searched %s upward from %s", DefaultPath, startDir)
		}
		dir = parent
	}
}

func fileExist(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
