// ユーザー管理サービスのエントリポイント。
// ユーザー登録・ログイン・トークン再発行、プロフィール管理、
// 住所のCRUD、管理者向けのユーザー管理を担当する。
package main

import (
	"log"
	"os"

	"github.com/nao1215/shophub/internal/user"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8001"
	}

	server, err := user.NewServer(port)
	if err != nil {
		log.Fatalf("ユーザーサーバーの初期化に失敗: %v", err)
	}

	log.Printf("ユーザーサービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("ユーザーサービスの起動に失敗: %v", err)
	}
}
