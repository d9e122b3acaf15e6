package adapthttp

import (
	"net/http"
	"net/netip"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"fooddiary/internal/app"
	"fooddiary/internal/domain"
)

// OIDCConfig holds the single sign-on provider. SSO routes answer 404 while
// Enabled is false.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// ForwardAuthConfig controls trust in the Remote-User header set by an
// authenticating reverse proxy. The header is ignored while Enabled is false.
// With TrustedProxies set, only peers inside one of the prefixes may send it.
type ForwardAuthConfig struct {
	Enabled        bool
	TrustedProxies []netip.Prefix
}

// trusts reports whether r may identify its user through Remote-User.
func (c ForwardAuthConfig) trusts(r *http.Request) bool {
	if !c.Enabled {
		return false
	}
	if len(c.TrustedProxies) == 0 {
		return true
	}
	peer, err := netip.ParseAddrPort(r.RemoteAddr)
	if err != nil {
		return false
	}
	addr := peer.Addr().Unmap()
	for _, p := range c.TrustedProxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Services bundles the application services the adapter drives.
type Services struct {
	Diary    *app.DiaryService
	Summary  *app.SummaryService
	Food     *app.FoodService
	Goals    *app.GoalService
	Weight   *app.WeightService
	Water    *app.WaterService
	Progress *app.ProgressService
	Auth     *app.AuthService
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	diary    *app.DiaryService
	summary  *app.SummaryService
	food     *app.FoodService
	goals    *app.GoalService
	weight   *app.WeightService
	water    *app.WaterService
	progress *app.ProgressService
	authSvc  *app.AuthService

	resolver    domain.DayResolver
	oidcConfig  OIDCConfig
	forwardAuth ForwardAuthConfig
	disableAuth bool
	localUser   *domain.User
}

// New creates a Server wired to the given application services.
func New(svc Services, resolver domain.DayResolver, oidcConfig OIDCConfig) *Server {
	return &Server{
		diary:      svc.Diary,
		summary:    svc.Summary,
		food:       svc.Food,
		goals:      svc.Goals,
		weight:     svc.Weight,
		water:      svc.Water,
		progress:   svc.Progress,
		authSvc:    svc.Auth,
		resolver:   resolver,
		oidcConfig: oidcConfig,
	}
}

// WithForwardAuth lets a reverse proxy authenticate requests through the
// Remote-User header.
func (s *Server) WithForwardAuth(cfg ForwardAuthConfig) *Server {
	s.forwardAuth = cfg
	return s
}

// WithoutAuth disables authentication. Every request acts as user.
func (s *Server) WithoutAuth(user *domain.User) *Server {
	s.disableAuth = true
	s.localUser = user
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/setup", s.handleSetupUser)
	api.HandleFunc("/auth/config", s.handleConfig)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	protected := http.NewServeMux()
	protected.HandleFunc("/diary/summary", s.handleDiarySummary)
	protected.HandleFunc("/diary/entries", s.handleDiaryEntries)
	protected.HandleFunc("/diary/entries/{id}", s.handleDiaryEntry)
	protected.HandleFunc("/diary/recent", s.handleDiaryRecent)
	protected.HandleFunc("/diary/count", s.handleDiaryCount)
	protected.HandleFunc("/diary/calories", s.handleDiaryCalories)
	protected.HandleFunc("/meal-categories", s.handleMealCategories)

	protected.HandleFunc("/foods", s.handleFoods)
	protected.HandleFunc("/foods/barcode", s.handleFoodBarcode)
	protected.HandleFunc("/foods/{id}", s.handleFood)

	protected.HandleFunc("/water", s.handleWater)
	protected.HandleFunc("/water/{id}", s.handleWaterEntry)
	protected.HandleFunc("/water/undo-last", s.handleWaterUndoLast)

	protected.HandleFunc("/weight/current", s.handleWeightCurrent)
	protected.HandleFunc("/weight/history", s.handleWeightHistory)

	protected.HandleFunc("/goals", s.handleGoals)
	protected.HandleFunc("/progress/daily", s.handleProgressDaily)
	protected.HandleFunc("/profile", s.handleProfile)

	api.Handle("/", s.authMiddleware(protected))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	return s.loggingMiddleware(withNoCache(root))
}
