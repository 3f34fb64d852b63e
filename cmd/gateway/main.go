// API Gatewayサービスのエントリポイント。
// 外部からアクセス可能な唯一のサービスであり、リクエストを
// バックエンドサービスへ転送するルーティングを担当する。
package main

import (
	"log"
	"os"

	"github.com/nao1215/shophub/internal/gateway"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server, err := gateway.NewServer(port)
	if err != nil {
		log.Fatalf("Gatewayサーバーの初期化に失敗: %v", err)
	}

	log.Printf("Gatewayサービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("Gatewayサービスの起動に失敗: %v", err)
	}
}
