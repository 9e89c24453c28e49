package client

import "strings"

// Route はガード対象の画面を表す。パスの{id}セグメントは任意の
// 空でない値にマッチする。
type Route struct {
	Path         string
	RequiresAuth bool
}

// Decision はガードの判定結果を表す。
type Decision struct {
	Allow      bool
	RedirectTo string
}

// loginPath は未認証アクセスのリダイレクト先。
const loginPath = "/login"

// defaultRoutes はアプリの全画面。ここにないパスは認証必須として扱う。
var defaultRoutes = []Route{
	{Path: "/", RequiresAuth: false},
	{Path: "/login", RequiresAuth: false},
	{Path: "/auth/callback", RequiresAuth: false},
	{Path: "/dashboard", RequiresAuth: true},
	{Path: "/setup", RequiresAuth: true},
	{Path: "/portal", RequiresAuth: true},
	{Path: "/athletes", RequiresAuth: true},
	{Path: "/athletes/new", RequiresAuth: true},
	{Path: "/athletes/{id}", RequiresAuth: true},
	{Path: "/athletes/{id}/edit", RequiresAuth: true},
	{Path: "/coaches", RequiresAuth: true},
	{Path: "/coaches/new", RequiresAuth: true},
	{Path: "/coaches/{id}", RequiresAuth: true},
	{Path: "/coaches/{id}/edit", RequiresAuth: true},
	{Path: "/plans", RequiresAuth: true},
	{Path: "/plans/new", RequiresAuth: true},
	{Path: "/plans/{id}", RequiresAuth: true},
	{Path: "/plans/{id}/edit", RequiresAuth: true},
	{Path: "/enrollments", RequiresAuth: true},
	{Path: "/enrollments/new", RequiresAuth: true},
	{Path: "/enrollments/{id}", RequiresAuth: true},
	{Path: "/enrollments/{id}/edit", RequiresAuth: true},
	{Path: "/academy", RequiresAuth: true},
}

// Guard は画面遷移のたびに認証状態とルート定義を突き合わせる。
// ルート定義はコンストラクタで固定され、以後変更されない。
type Guard struct {
	routes []Route
}

// NewGuard は既定のルート表でガードを生成する。
func NewGuard() *Guard {
	return &Guard{routes: defaultRoutes}
}

// NewGuardWithRoutes は任意のルート表でガードを生成する。
func NewGuardWithRoutes(routes []Route) *Guard {
	return &Guard{routes: routes}
}

// Decide はパスとセッション状態から遷移可否を判定する。
// 認証必須のルートに未認証でアクセスした場合はログイン画面へ誘導する。
// ルート表にないパスは認証必須として扱う。
func (g *Guard) Decide(path string, state SessionState) Decision {
	requiresAuth := true
	for _, route := range g.routes {
		if matchRoute(route.Path, path) {
			requiresAuth = route.RequiresAuth
			break
		}
	}

	if requiresAuth && state != SessionAuthenticated {
		return Decision{Allow: false, RedirectTo: loginPath}
	}
	return Decision{Allow: true}
}

// matchRoute はパターンとパスをセグメント単位で比較する。
// {id}のようなプレースホルダは空でない任意のセグメントにマッチする。
func matchRoute(pattern, path string) bool {
	pp := splitPath(pattern)
	ps := splitPath(path)
	if len(pp) != len(ps) {
		return false
	}
	for i := range pp {
		if strings.HasPrefix(pp[i], "{") && strings.HasSuffix(pp[i], "}") {
			if ps[i] == "" {
				return false
			}
			continue
		}
		if pp[i] != ps[i] {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
