package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ehc32/Cotizador-V1/internal/catalog"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ratesRequest struct {
	DesignRate       float64 `json:"designRate"`
	ConstructionRate float64 `json:"constructionRate"`
}

type areaRequest struct {
	Area float64 `json:"area"`
}

type adminCatalogResponse struct {
	Source     string             `json:"source"`
	Persistent bool               `json:"persistent"`
	Catalog    catalog.Definition `json:"catalog"`
}

type adminKey struct{}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if !s.decodeJSON(w, r, &body) {
		return
	}

	valid, err := s.auth.validateCredentials(r.Context(), body.Email, body.Password)
	if err != nil {
		s.logger.Error("authentication error", zap.String("op", "admin.login"), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "InternalError", msgInternal, "")
		return
	}
	if !valid {
		s.logger.Warn("invalid credentials", zap.String("op", "admin.login"), zap.String("email", body.Email))
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Credenciales inválidas. Intenta de nuevo.", "")
		return
	}

	s.auth.setSessionCookie(w, body.Email)
	writeJSON(w, http.StatusOK, map[string]string{"email": body.Email})
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := s.auth.sessionEmail(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized", "Inicia sesión para continuar.", "")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminKey{}, email)))
	})
}

func adminEmail(ctx context.Context) string {
	email, _ := ctx.Value(adminKey{}).(string)
	return email
}

func (s *server) handleAdminCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, adminCatalogResponse{
		Source:     s.source,
		Persistent: s.store != nil,
		Catalog:    s.catalog.Current().Definition(),
	})
}

func (s *server) handleAdminRates(w http.ResponseWriter, r *http.Request) {
	var body ratesRequest
	if !s.decodeJSON(w, r, &body) {
		return
	}
	s.applyCatalogChange(w, r, "admin.rates", func(c *catalog.Catalog) (*catalog.Catalog, error) {
		return c.WithRates(body.DesignRate, body.ConstructionRate)
	})
}

func (s *server) handleAdminBaseArea(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var body areaRequest
	if !s.decodeJSON(w, r, &body) {
		return
	}
	s.applyCatalogChange(w, r, "admin.base-area", func(c *catalog.Catalog) (*catalog.Catalog, error) {
		return c.WithBaseArea(name, body.Area)
	})
}

func (s *server) handleAdminBedType(w http.ResponseWriter, r *http.Request) {
	id := catalog.BedType(chi.URLParam(r, "id"))
	var body areaRequest
	if !s.decodeJSON(w, r, &body) {
		return
	}
	s.applyCatalogChange(w, r, "admin.bed-type", func(c *catalog.Catalog) (*catalog.Catalog, error) {
		return c.WithBedArea(id, body.Area)
	})
}

func (s *server) handleAdminSpace(w http.ResponseWriter, r *http.Request) {
	id := catalog.SpaceID(chi.URLParam(r, "id"))
	var body areaRequest
	if !s.decodeJSON(w, r, &body) {
		return
	}
	s.applyCatalogChange(w, r, "admin.space", func(c *catalog.Catalog) (*catalog.Catalog, error) {
		return c.WithSpaceArea(id, body.Area)
	})
}

func (s *server) applyCatalogChange(w http.ResponseWriter, r *http.Request, op string, change func(*catalog.Catalog) (*catalog.Catalog, error)) {
	next, err := s.updateCatalog(r.Context(), change)
	s.metrics.CatalogUpdated(err == nil)
	if err != nil {
		s.writeCatalogError(w, op, err)
		return
	}
	s.logger.Info("catalog updated",
		zap.String("op", op),
		zap.String("admin", adminEmail(r.Context())),
		zap.Bool("persistent", s.store != nil),
	)
	writeJSON(w, http.StatusOK, next.Definition())
}

// updateCatalog derives a new catalog from the current one, persists it when
// a store is configured and only then publishes it to readers.
func (s *server) updateCatalog(ctx context.Context, change func(*catalog.Catalog) (*catalog.Catalog, error)) (*catalog.Catalog, error) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	next, err := change(s.catalog.Current())
	if err != nil {
		return nil, err
	}
	if s.store != nil {
		if err := s.store.Save(ctx, next); err != nil {
			return nil, fmt.Errorf("persist catalog: %w", err)
		}
	}
	s.catalog.Swap(next)
	return next, nil
}
