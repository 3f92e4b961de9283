package path

import (
	"os"
	"path/filepath"
	"runtime"
)

// RootEnv 部署時可直接指定設定檔所在的根目錄
const RootEnv = "PROFILE_ROOT"

// RootPath 傳回專案根目錄：PROFILE_ROOT > 含 conf/ 的工作目錄 > 原始碼位置
func RootPath() string {
	if root := os.Getenv(RootEnv); root != "" {
		return filepath.Clean(root)
	}
	if wd, err := os.Getwd(); err == nil {
		if ok, _ := Exists(filepath.Join(wd, "conf")); ok {
			return wd
		}
	}
	// /project/utils/path/path.go → /project
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("❌ 無法取得 caller 位置")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}

// Exists 路径是否存在
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
