// Package httpclient はgatewayからバックエンドサービスへの
// リクエスト転送を行うHTTPクライアントを提供する。
//
// 転送時にメソッド・ヘッダー・ボディ・クエリを加工しないことを保証し、
// バックエンドの応答をそのまま呼び出し元へ返す。
package httpclient
