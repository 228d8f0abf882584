package gate

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ariefcatur/go-storefront/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	CookieName   = "site_auth"
	cookieValue  = "authenticated"
	cookieMaxAge = 60 * 60 * 24 * 7

	PasswordPath = "/password"
	AuthPath     = "/api/auth/password"
)

// Paths that stay reachable without the auth cookie.
var openPaths = map[string]bool{
	PasswordPath: true,
	AuthPath:     true,
	"/healthz":   true,
	"/metrics":   true,
}

type Options struct {
	// Secure marks the auth cookie Secure. Set in production.
	Secure bool
	// Every is the refill interval of each client's attempt budget; Burst its size.
	Every time.Duration
	Burst int
}

// Gate guards the whole site behind one shared password.
type Gate struct {
	secret   secret
	secure   bool
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
	limiters *cache.Cache
	log      logrus.FieldLogger
}

func New(password string, opts Options, log logrus.FieldLogger) (*Gate, error) {
	s, err := newSecret(password)
	if err != nil {
		return nil, err
	}
	if opts.Every <= 0 {
		opts.Every = 12 * time.Second
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	idle := opts.Every * time.Duration(opts.Burst)
	return &Gate{
		secret:   s,
		secure:   opts.Secure,
		limit:    rate.Every(opts.Every),
		burst:    opts.Burst,
		limiters: cache.New(idle, 2*idle),
		log:      log,
	}, nil
}

func (g *Gate) Register(r chi.Router) {
	r.Get(PasswordPath, g.page)
	r.Post(AuthPath, g.login)
}

type loginReq struct {
	Password string `json:"password"`
}

func (g *Gate) login(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if !g.limiter(ip).Allow() {
		metrics.GateAttempts.WithLabelValues("throttled").Inc()
		g.log.WithField("ip", ip).Warn("password attempts throttled")
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Too many attempts"})
		return
	}

	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.GateAttempts.WithLabelValues("malformed").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}
	if !g.secret.matches(req.Password) {
		metrics.GateAttempts.WithLabelValues("rejected").Inc()
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid password"})
		return
	}

	metrics.GateAttempts.WithLabelValues("accepted").Inc()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    cookieValue,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (g *Gate) limiter(ip string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()
	if v, ok := g.limiters.Get(ip); ok {
		return v.(*rate.Limiter)
	}
	l := rate.NewLimiter(g.limit, g.burst)
	g.limiters.SetDefault(ip, l)
	return l
}

// Authenticated reports whether r carries the auth cookie.
func Authenticated(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	return err == nil && c.Value == cookieValue
}

// Middleware sends unauthenticated page requests to the password page and rejects
// unauthenticated API requests with 401.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if openPaths[r.URL.Path] || Authenticated(r) {
			next.ServeHTTP(w, r)
			return
		}
		if wantsJSON(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		target := PasswordPath + "?" + url.Values{"redirect": {r.URL.Path}}.Encode()
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	})
}

func wantsJSON(r *http.Request) bool {
	p := r.URL.Path
	return strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/admin/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// clientIP expects middleware.RealIP to have run; RemoteAddr may or may not carry a port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
