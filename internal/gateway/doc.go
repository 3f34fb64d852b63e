// Package gateway はAPI Gatewayサービスの内部実装を提供する。
//
// 外部からアクセス可能な唯一のサービスであり、/{service}/{sub_service}形式の
// リクエストをルーティングテーブルに従ってバックエンドサービスへ転送する。
// 認証の検証はバックエンド側が行い、gatewayはヘッダー・ボディ・クエリを
// 加工せずに通過させる。
package gateway
