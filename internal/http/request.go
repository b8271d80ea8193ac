package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/http/apierr"
	"github.com/tuanvumaihuynh/retail-pos/internal/service"
	"github.com/tuanvumaihuynh/retail-pos/pkg/ptr"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}

// decodeBody reads a JSON body into dst and validates it.
func (s *Service) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.ValidationErr.WithMsg("request body too large").WrapParent(err)
		}
		return apperr.ValidationErr.WithMsg("invalid request body: " + err.Error()).WrapParent(err)
	}

	return s.validator.Validate(dst)
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id uuid.UUID
	if err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		}); err != nil {
		return uuid.Nil, &apierr.ParamError{Name: name, Err: err}
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return 0, &apierr.ParamError{Name: name, Err: err}
	}
	return ptr.Deref(v, def), nil
}

func bindQuery(r *http.Request, name string, dst any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dst); err != nil {
		return &apierr.ParamError{Name: name, Err: err}
	}
	return nil
}

func queryString(r *http.Request, name string, required bool) (string, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, required, name, r.URL.Query(), &v); err != nil {
		return "", &apierr.ParamError{Name: name, Err: err}
	}
	return ptr.Deref(v, ""), nil
}

func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	var v *uuid.UUID
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return nil, &apierr.ParamError{Name: name, Err: err}
	}
	return v, nil
}

func sessionOf(r *http.Request) (service.Session, error) {
	session, ok := service.SessionFromContext(r.Context())
	if !ok {
		return service.Session{}, apperr.ErrSessionRequired
	}
	return session, nil
}
