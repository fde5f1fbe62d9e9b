package app

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はHTMLサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandHome は最新ニュース一覧をターミナルに表示することを示す。
	CommandHome Command = "home"
	// CommandSearch はニュースを検索してターミナルに表示することを示す。
	CommandSearch Command = "search"
	// CommandAbout はAbout画面の本文をターミナルに表示することを示す。
	CommandAbout Command = "about"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandServeを返す。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "serve":
		return CommandServe
	case "home":
		return CommandHome
	case "search":
		return CommandSearch
	case "about":
		return CommandAbout
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}

// commandArgs はサブコマンド名を除いたフラグ引数を返す。
func commandArgs(args []string) []string {
	if len(args) <= 1 {
		return nil
	}
	return args[1:]
}
