package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Source 設定來源；EnvFile 與 YamlFile 同時指定時以 EnvFile 優先
type Source struct {
	RootPath string
	EnvFile  string
	YamlFile string
	// 設定檔變更時呼叫，env-only 模式不會觸發
	OnChange func(*Configuration)
}

// Load 讀取設定檔（若有）並以環境變數覆寫，key 以 "__" 分層，例如 BRIDGE__TIMEOUT_MS
func Load(src Source) (*Configuration, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter("__"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	file, fileType := "", ""
	switch {
	case src.EnvFile != "":
		file, fileType = resolve(src.RootPath, src.EnvFile), "env"
	case src.YamlFile != "":
		file, fileType = resolve(filepath.Join(src.RootPath, "conf"), src.YamlFile), "yaml"
	}

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType(fileType)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
		if src.OnChange != nil {
			v.OnConfigChange(func(in fsnotify.Event) {
				var changed Configuration
				if err := v.Unmarshal(&changed); err != nil {
					fmt.Println("unmarshal on change failed:", in.Name, err)
					return
				}
				src.OnChange(&changed)
			})
			v.WatchConfig()
		}
	}

	bindEnvs(v, reflect.TypeOf(Configuration{}))

	conf := &Configuration{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	return conf, nil
}

func resolve(base, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}

// bindEnvs 依 mapstructure tag 綁定所有葉節點，讓 Unmarshal 看得到只存在於環境變數的 key
func bindEnvs(v *viper.Viper, t reflect.Type, path ...string) {
	// 若遇到指標，取其 Elem
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			tag = field.Name
		}
		newPath := append(append([]string(nil), path...), tag)
		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			bindEnvs(v, ft, newPath...)
			continue
		}
		_ = v.BindEnv(strings.Join(newPath, "__"))
	}
}
