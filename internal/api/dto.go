package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/portfolioservice"
)

const maxBodyBytes = 1 << 20

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionInfo describes the caller's session on the dashboard.
type SessionInfo struct {
	Subject   string    `json:"subject"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DashboardResponse is the body of GET /dashboard.
type DashboardResponse struct {
	Session SessionInfo             `json:"session"`
	Stats   *portfolioservice.Stats `json:"stats"`
	Locales []string                `json:"locales"`
}

// LoginPage is the body of GET /login.
type LoginPage struct {
	Action string   `json:"action"`
	Fields []string `json:"fields"`
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// decodeBody reads a JSON body into T, or builds T from form values with
// fromForm for urlencoded and multipart submissions.
func decodeBody[T any](w http.ResponseWriter, r *http.Request, fromForm func(url.Values) (T, error)) (T, error) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			return v, fmt.Errorf("%w: invalid JSON body: %v", apperr.ErrValidation, err)
		}
		return v, nil
	}
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return v, fmt.Errorf("%w: invalid form body: %v", apperr.ErrValidation, err)
	}
	return fromForm(r.Form)
}

func loginFromForm(f url.Values) (LoginRequest, error) {
	return LoginRequest{Username: f.Get("username"), Password: f.Get("password")}, nil
}

func personalInfoFromForm(f url.Values) (models.PersonalInfo, error) {
	return models.PersonalInfo{
		Name:         f.Get("name"),
		Title:        f.Get("title"),
		Description:  f.Get("description"),
		Location:     f.Get("location"),
		Email:        f.Get("email"),
		Phone:        f.Get("phone"),
		GitHub:       f.Get("github"),
		LinkedIn:     f.Get("linkedin"),
		Availability: f.Get("availability"),
	}, nil
}

func skillFromForm(f url.Values) (models.Skill, error) {
	return models.Skill{
		Name:       f.Get("name"),
		Category:   f.Get("category"),
		Experience: f.Get("experience"),
		Projects:   f.Get("projects"),
		Icon:       f.Get("icon"),
	}, nil
}

// projectFromForm splits tech on commas and reads metrics either as a JSON
// array in "metrics" or as metricN_label/value/icon field triples.
func projectFromForm(f url.Values) (models.Project, error) {
	p := models.Project{
		Title:       f.Get("title"),
		Description: f.Get("description"),
		Tech:        splitTrim(f.Get("tech"), ","),
		GitHub:      f.Get("github"),
		Demo:        f.Get("demo"),
		Gradient:    f.Get("gradient"),
		Metrics:     []models.Metric{},
	}
	if raw := strings.TrimSpace(f.Get("metrics")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &p.Metrics); err != nil {
			return p, fmt.Errorf("%w: metrics is not a JSON array: %v", apperr.ErrValidation, err)
		}
		return p, nil
	}
	for i := 1; ; i++ {
		prefix := fmt.Sprintf("metric%d_", i)
		if _, ok := f[prefix+"label"]; !ok {
			break
		}
		m := models.Metric{Label: f.Get(prefix + "label"), Value: f.Get(prefix + "value"), Icon: f.Get(prefix + "icon")}
		if m.Label == "" && m.Value == "" {
			continue
		}
		p.Metrics = append(p.Metrics, m)
	}
	return p, nil
}

// experienceFromForm splits achievements on newlines, dropping blank lines.
func experienceFromForm(f url.Values) (models.Experience, error) {
	return models.Experience{
		Title:        f.Get("title"),
		Company:      f.Get("company"),
		Period:       f.Get("period"),
		Location:     f.Get("location"),
		Achievements: splitTrim(strings.ReplaceAll(f.Get("achievements"), "\r\n", "\n"), "\n"),
		Color:        f.Get("color"),
	}, nil
}

func splitTrim(s, sep string) []string {
	out := []string{}
	for part := range strings.SplitSeq(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
