// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/acadman/internal/middleware"
	"github.com/hitoshi/acadman/internal/model"
)

// respondJSON はJSONレスポンスを書き込む。
func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// decodeJSON はリクエストボディをデコードする。
// 解析に失敗した場合はバリデーションエラーを書き込み、falseを返す。
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "No se pudo interpretar el cuerpo de la solicitud.",
			Category: "validation",
			Action:   "Envía un JSON válido.",
		})
		return false
	}
	return true
}

// decodeBodyQuietly はボディのデコードを試み、失敗しても無視する。
// ボディが任意のエンドポイントで使う。
func decodeBodyQuietly(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

// idParam はURLパラメータからIDを取り出す。
// 数値でない場合は0とfalseを返す。
func idParam(r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeInvalidIDResponse はIDパラメータ不正のレスポンスを書き込む。
func writeInvalidIDResponse(w http.ResponseWriter) {
	middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "El identificador no es válido.",
		Category: "validation",
		Action:   "Verifica el identificador e inténtalo de nuevo.",
	})
}

// selectedAcademyID はコンテキストから現在のアカデミーIDを取得する。
// 未選択の場合はエラーレスポンスを書き込み、falseを返す。
func selectedAcademyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	academyID, err := middleware.SelectedAcademyFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return 0, false
	}
	return academyID, true
}
