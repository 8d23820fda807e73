package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"exostandards/application"
	"exostandards/domain/standards"
)

// maxSettingsBody bounds a settings request body.
const maxSettingsBody = 64 << 10

// tenantParam returns the trimmed {tenant} route parameter.
func tenantParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "tenant"))
}

// limitParam reads ?limit=, returning 0 when absent or malformed.
func limitParam(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}

// decodeRawSettings reads settings from a JSON body or a form post.
func decodeRawSettings(w http.ResponseWriter, r *http.Request) (standards.RawSettings, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSettingsBody)

	if IsJSONRequest(r) {
		var raw standards.RawSettings
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return standards.RawSettings{}, fmt.Errorf("decode settings: %w", err)
		}
		return raw, nil
	}

	if err := r.ParseForm(); err != nil {
		return standards.RawSettings{}, fmt.Errorf("parse form: %w", err)
	}
	return application.BuildRawSettingsFromFormData(r.PostForm), nil
}
