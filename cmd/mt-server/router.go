package main

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/goliatone/go-modeltranslation/components/langoptions"
	"github.com/goliatone/go-modeltranslation/components/translations"
	"github.com/goliatone/go-modeltranslation/internal/app"
)

// Staff token carriers when MT_STAFF_TOKEN is set. Browsers open any page
// once with ?staff_token=... which stores the cookie; API clients send the
// header.
const (
	StaffHeader = "X-Staff-Token"
	StaffCookie = "mt_staff_token"
	StaffQuery  = "staff_token"
)

func newRouter(a *app.App, logger *slog.Logger) (*gin.Engine, error) {
	cfg := a.Config
	opts := []translations.OptionFn{
		translations.WithRoutePrefix(cfg.RoutePrefix),
		translations.WithLogger(logger),
		translations.WithGuard(staffGuard(cfg.StaffToken)),
	}
	if cfg.WriteRate > 0 {
		opts = append(opts, translations.WithWriteRateLimit(rate.Limit(cfg.WriteRate), cfg.WriteBurst))
	}
	if cfg.Theme != "" {
		themes, err := builtinThemes()
		if err != nil {
			return nil, err
		}
		opts = append(opts, translations.WithTheme(themes, cfg.Theme, cfg.Variant))
	}
	component, err := translations.New(a.Services, opts...)
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	if cfg.StaffToken != "" {
		router.Use(staffLogin(cfg.StaffToken))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	routes := component.Routes()
	router.GET("/routes", func(c *gin.Context) {
		out := make([]gin.H, 0, len(routes))
		for _, route := range routes {
			out = append(out, gin.H{"name": route.Name, "method": route.Method, "path": route.Path})
		}
		c.JSON(http.StatusOK, gin.H{"data": out})
	})

	langs := langoptions.NewHandler(
		langoptions.WithLanguages(a.Languages),
		langoptions.WithGuard(langoptions.GuardFunc(staffGuard(cfg.StaffToken))),
	)
	router.GET(langoptions.MountPath(""), gin.WrapH(langs))

	panel := gin.WrapH(a.Languages.Middleware(component.Handler()))
	prefix := strings.TrimRight(translations.ModelPath(cfg.RoutePrefix, "", ""), "/")
	if prefix == "" {
		router.NoRoute(panel)
	} else {
		router.Any(prefix+"/*path", panel)
	}
	return router, nil
}

func staffGuard(token string) translations.GuardFunc {
	if token == "" {
		return nil
	}
	return func(r *http.Request) error {
		got := r.Header.Get(StaffHeader)
		if got == "" {
			if cookie, err := r.Cookie(StaffCookie); err == nil {
				got = cookie.Value
			}
		}
		if validToken(got, token) {
			return nil
		}
		return translations.StatusError{Code: http.StatusUnauthorized, Err: errors.New("staff token required")}
	}
}

// staffLogin trades a valid ?staff_token= for a cookie and redirects to the
// same URL without the token.
func staffLogin(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Request.URL.Query()
		got := query.Get(StaffQuery)
		if c.Request.Method != http.MethodGet || got == "" {
			c.Next()
			return
		}
		if !validToken(got, token) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(StaffCookie, got, 0, "/", "", c.Request.TLS != nil, true)

		query.Del(StaffQuery)
		target := *c.Request.URL
		target.RawQuery = query.Encode()
		c.Redirect(http.StatusSeeOther, target.RequestURI())
		c.Abort()
	}
}

func validToken(got, token string) bool {
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
