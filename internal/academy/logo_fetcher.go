package academy

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// SSRFValidator はSSRF検証のインターフェース。
// security.SSRFGuardServiceを抽象化してテスタビリティを向上させる。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// LogoFetcherService はアカデミーロゴ取得のインターフェース。
// プロフィールにwebsiteが設定されている場合、サイトのHTMLから
// アイコンリンクを探してロゴ候補を取得する。
type LogoFetcherService interface {
	// FetchLogoForSite はサイトURLからロゴを検出して取得する。
	// HTMLのlink rel="icon"系を優先し、見つからなければ/favicon.icoを試す。
	// 取得結果はdata URL形式で返す。取得失敗時は空文字列を返す（エラーは返さない）。
	FetchLogoForSite(ctx context.Context, siteURL string) (string, error)
}

// LogoFetcherConfig はロゴ取得の設定。
type LogoFetcherConfig struct {
	Timeout time.Duration
	MaxSize int64
}

// LogoFetcher はLogoFetcherServiceの実装。
type LogoFetcher struct {
	ssrfGuard SSRFValidator
	config    LogoFetcherConfig
}

// NewLogoFetcher はLogoFetcherを生成する。
func NewLogoFetcher(ssrfGuard SSRFValidator, config LogoFetcherConfig) *LogoFetcher {
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if config.MaxSize == 0 {
		config.MaxSize = 2 * 1024 * 1024
	}
	return &LogoFetcher{
		ssrfGuard: ssrfGuard,
		config:    config,
	}
}

// FetchLogoForSite はサイトURLからロゴを検出して取得する。
// 取得はベストエフォートで、どの段階の失敗も空文字列で返す。
// プロフィール保存自体をロゴ取得の失敗で止めないため。
func (f *LogoFetcher) FetchLogoForSite(ctx context.Context, siteURL string) (string, error) {
	if siteURL == "" {
		return "", nil
	}

	if f.ssrfGuard != nil {
		if err := f.ssrfGuard.ValidateURL(siteURL); err != nil {
			slog.Warn("ロゴ取得: SSRFブロック", "url", siteURL, "error", err)
			return "", nil
		}
	}

	// 1. サイトのHTMLからアイコンリンクを探す
	candidates := f.discoverIconURLs(ctx, siteURL)

	// 2. /favicon.ico をフォールバック候補に追加
	if fallback := guessDefaultIconURL(siteURL); fallback != "" {
		candidates = append(candidates, fallback)
	}

	// 3. 候補を順に試し、最初に取得できた画像をdata URLにする
	for _, iconURL := range candidates {
		data, mimeType := f.fetchImage(ctx, iconURL)
		if len(data) > 0 {
			return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
		}
	}

	return "", nil
}

// discoverIconURLs はサイトのHTMLを取得し、headのlink rel="icon"系のURLを返す。
func (f *LogoFetcher) discoverIconURLs(ctx context.Context, siteURL string) []string {
	client := f.httpClient()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", "Acadman/1.0")
	req.Header.Set("Accept", "text/html, */*")

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("ロゴ取得: サイト取得失敗", "url", siteURL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxSize))
	if err != nil {
		return nil
	}

	return parseIconLinks(body, siteURL)
}

// fetchImage は指定URLから画像を取得する。画像でない場合はnilを返す。
func (f *LogoFetcher) fetchImage(ctx context.Context, imageURL string) ([]byte, string) {
	if f.ssrfGuard != nil {
		if err := f.ssrfGuard.ValidateURL(imageURL); err != nil {
			slog.Warn("ロゴ取得: SSRFブロック", "url", imageURL, "error", err)
			return nil, ""
		}
	}

	client := f.httpClient()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, ""
	}
	req.Header.Set("User-Agent", "Acadman/1.0")

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("ロゴ取得: HTTPリクエスト失敗", "url", imageURL, "error", err)
		return nil, ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxSize+1))
	if err != nil {
		return nil, ""
	}
	if int64(len(body)) > f.config.MaxSize {
		slog.Warn("ロゴ取得: サイズ超過", "url", imageURL, "size", len(body))
		return nil, ""
	}

	mimeType := extractMimeType(resp.Header.Get("Content-Type"))
	if !isImageMime(mimeType) {
		return nil, ""
	}

	return body, mimeType
}

// httpClient はHTTPクライアントを取得する。
func (f *LogoFetcher) httpClient() *http.Client {
	if f.ssrfGuard != nil {
		return f.ssrfGuard.NewSafeClient(f.config.Timeout, f.config.MaxSize)
	}
	return &http.Client{Timeout: f.config.Timeout}
}

// iconRels はロゴ候補として扱うlink rel値。先に現れたものを優先する。
var iconRels = map[string]bool{
	"icon":             true,
	"shortcut icon":    true,
	"apple-touch-icon": true,
}

// parseIconLinks はHTMLのheadタグからアイコンリンクを解析する。
// 相対URLはbaseURLを基準に絶対URLに解決される。
func parseIconLinks(htmlBody []byte, baseURL string) []string {
	var icons []string

	baseU, err := url.Parse(baseURL)
	if err != nil {
		return icons
	}

	tokenizer := html.NewTokenizer(bytes.NewReader(htmlBody))
	inHead := false

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return icons

		case html.StartTagToken, html.SelfClosingTagToken:
			tn, hasAttr := tokenizer.TagName()
			tagName := string(tn)

			if tagName == "head" {
				inHead = true
				continue
			}

			if tagName == "body" {
				// bodyに入ったらheadの解析を終了
				return icons
			}

			if !inHead || tagName != "link" || !hasAttr {
				continue
			}

			var rel, href string
			for {
				key, val, more := tokenizer.TagAttr()
				k := strings.ToLower(string(key))
				v := string(val)
				switch k {
				case "rel":
					rel = strings.ToLower(v)
				case "href":
					href = v
				}
				if !more {
					break
				}
			}

			if !iconRels[rel] || href == "" {
				continue
			}

			resolved := resolveURL(baseU, href)
			if resolved != "" {
				icons = append(icons, resolved)
			}

		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "head" {
				return icons
			}
		}
	}
}

// resolveURL は相対URLをベースURLを基準に絶対URLに解決する。
func resolveURL(base *url.URL, rawRef string) string {
	ref, err := url.Parse(rawRef)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// guessDefaultIconURL はサイトURLからデフォルトのfavicon URLを推測する。
func guessDefaultIconURL(siteURL string) string {
	u, err := url.Parse(siteURL)
	if err != nil {
		return ""
	}

	u.Path = "/favicon.ico"
	u.RawQuery = ""
	u.Fragment = ""

	return u.String()
}

// extractMimeType はContent-Typeヘッダーからメディアタイプを抽出する。
func extractMimeType(contentType string) string {
	if contentType == "" {
		return ""
	}
	parts := strings.SplitN(contentType, ";", 2)
	return strings.TrimSpace(strings.ToLower(parts[0]))
}

// isImageMime はMIMEタイプが画像かどうかを判定する。
func isImageMime(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// compile-time interface check
var _ LogoFetcherService = (*LogoFetcher)(nil)
