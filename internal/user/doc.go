// Package user はユーザー管理サービスの内部実装を提供する。
//
// ユーザー登録・ログイン・トークン再発行、プロフィールの取得と更新、
// 管理者向けのユーザー管理、住所のCRUDを担当する。保護された操作は
// Bearerトークンの検証と本人解決を通過した後にのみ実行され、
// 変更系の操作はリクエスト専属のトランザクション境界の中で行われる。
package user
