// Package bind decodes and validates inbound payloads, every failure is INVALID_INPUT
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "mixtape/internal/platform/errors"
	"mixtape/internal/platform/logger"
	ptime "mixtape/internal/platform/time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

// MaxBody caps a JSON body, larger bodies fail to decode
const MaxBody = 1 << 20

var (
	once  sync.Once
	valid *validator.Validate
	trans ut.Translator
)

func engine() (*validator.Validate, ut.Translator) {
	once.Do(func() {
		loc := en.New()
		trans, _ = ut.New(loc, loc).GetTranslator("en")

		valid = validator.New(validator.WithRequiredStructEnabled())
		valid.RegisterTagNameFunc(jsonName)
		_ = entrans.RegisterDefaultTranslations(valid, trans)
		_ = valid.RegisterValidation("isodate", isoDate)

		translate("min", "{0} must be at least {1}")
		translate("max", "{0} must be at most {1}")
		translate("isodate", "{0} must be an ISO date like 2006-01-02 or an RFC3339 timestamp")
	})
	return valid, trans
}

// jsonName reports fields by their wire name
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func translate(tag, text string) {
	_ = valid.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// isoDate passes empty so omitempty composes
func isoDate(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	if s == "" {
		return true
	}
	_, ok = ptime.ParseISO(s)
	return ok
}

// ParseJSON strictly decodes a single JSON value from the body into T then validates it
// unknown fields, trailing data and an empty body on a non GET request are rejected
func ParseJSON[T any](r *http.Request) (T, error) {
	var zero, dst T
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Debug().Err(err).Msg("bind: closing request body")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBody+1))
	if err != nil {
		return zero, perr.Wrap(err, perr.ErrorCodeInvalidInput, "unreadable body")
	}
	if len(body) > MaxBody {
		return zero, perr.InvalidInputf("body larger than %d bytes", MaxBody)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			return zero, nil
		}
		return zero, perr.InvalidInputf("empty body")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.InvalidInputf("invalid JSON: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return zero, perr.InvalidInputf("unexpected trailing data")
	}
	if err := Validate(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

// Validate runs struct tags on v, the first failure comes back with its wire field name
func Validate(v any) error {
	val, tr := engine()
	err := val.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		logger.Get().Error().Err(err).Msg("bind: validator misuse")
		return perr.InvalidInputf("validation error")
	}
	fe := verrs[0]
	return perr.WithField(perr.InvalidInputf("%s", fe.Translate(tr)), fe.Field())
}
