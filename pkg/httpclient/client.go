package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultTimeout はバックエンドサービスへの接続・応答待ちの上限。
const defaultTimeout = 30 * time.Second

// Client はgatewayがバックエンドサービスへリクエストを転送するためのHTTPクライアント。
// タイムアウト設定を持ち、リダイレクトは追跡せずそのまま呼び出し元へ返す。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
}

// New は転送用HTTPクライアントを生成する。
func New() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Forward はメソッド・ヘッダー・ボディをそのままバックエンドへ転送する。
// レスポンスは加工せずに返すため、クローズは呼び出し側の責任となる。
// バックエンドへの接続失敗はエラーとして返り、呼び出し側で503に変換される。
func (c *Client) Forward(ctx context.Context, method, url string, header http.Header, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("転送リクエストの作成に失敗: %w", err)
	}

	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("バックエンドサービスへの転送に失敗: %w", err)
	}
	return resp, nil
}
