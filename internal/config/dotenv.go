package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv はカレントディレクトリの.envファイルを読み込む。
// 優先順位は .env.local > .env で、godotenv.Loadは設定済みの環境変数を上書きしないため
// OSの環境変数が常に優先される。実際に読み込んだファイルの一覧を返す。
func LoadDotEnv() []string {
	return loadDotEnvFrom("")
}

func loadDotEnvFrom(dir string) []string {
	candidates := []string{".env.local", ".env"}
	var loaded []string
	for _, f := range candidates {
		path := f
		if dir != "" {
			path = dir + string(os.PathSeparator) + f
		}
		if _, err := os.Stat(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}
