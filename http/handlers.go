package http

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"riskscreen/db"
	"riskscreen/monitoring"
	"riskscreen/risk"
)

// FieldSpec describes one form control on the assessment screen.
type FieldSpec struct {
	ID     string
	Label  string
	Min    float64
	Max    float64
	Step   string
	Binary bool
}

// knownFields carries the enumerated ranges for the questionnaire
// columns. Features without an entry fall back to a generic numeric
// control.
var knownFields = map[string]FieldSpec{
	"Age":                             {Min: 13, Max: 80, Step: "1"},
	"Number of sexual partners":       {Min: 1, Max: 30, Step: "1"},
	"First sexual intercourse":        {Min: 10, Max: 35, Step: "1"},
	"Num of pregnancies":              {Min: 0, Max: 15, Step: "1"},
	"Smokes":                          {Binary: true},
	"Smokes (years)":                  {Min: 0, Max: 40, Step: "1"},
	"Smokes (packs/year)":             {Min: 0, Max: 40, Step: "0.5"},
	"Hormonal Contraceptives":         {Binary: true},
	"Hormonal Contraceptives (years)": {Min: 0, Max: 30, Step: "1"},
	"IUD":                             {Binary: true},
	"IUD (years)":                     {Min: 0, Max: 20, Step: "1"},
	"STDs":                            {Binary: true},
	"STDs (number)":                   {Min: 0, Max: 10, Step: "1"},
	"STDs: Number of diagnosis":       {Min: 0, Max: 10, Step: "1"},
}

// fieldsFor builds the form layout for the deployed feature set, in
// training column order.
func fieldsFor(features []string) []FieldSpec {
	fields := make([]FieldSpec, len(features))
	for i, name := range features {
		spec, ok := knownFields[name]
		if !ok {
			if strings.HasPrefix(name, "STDs:") || strings.HasPrefix(name, "Dx") {
				spec = FieldSpec{Binary: true}
			} else {
				spec = FieldSpec{Min: 0, Max: 100, Step: "1"}
			}
		}
		spec.ID = fieldID(name)
		spec.Label = name
		if spec.Binary {
			spec.Min, spec.Max, spec.Step = 0, 1, "1"
		}
		fields[i] = spec
	}
	return fields
}

func fieldID(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

// app bundles the shared read-only model state and per-request
// services, injected once at startup.
type app struct {
	scorer   *risk.Scorer
	fields   []FieldSpec
	sessions *SessionStore
	hub      *monitoring.ActivityHub
	logger   *zap.Logger
	persist  bool
}

func (a *app) registerPages(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", a.handleHome)
	mux.HandleFunc("GET /assessment", a.handleAssessmentPage)
	mux.HandleFunc("POST /assessment", a.handleSubmit)
	mux.HandleFunc("GET /results", a.handleResults)
	mux.HandleFunc("POST /back", a.handleBack)
}

type pageData struct {
	Fields     []FieldSpec
	AdviceHTML template.HTML
	Error      string
}

func (a *app) handleHome(w http.ResponseWriter, r *http.Request) {
	session := a.sessions.Get(w, r)
	if session.Screen == ScreenResults {
		_ = session.Apply(EventBack, nil)
	} else if session.Screen != ScreenHome {
		// Abandoned mid-assessment; restart the flow.
		session.Screen = ScreenHome
		session.LastResult = nil
	}
	a.render(w, "home", pageData{})
}

func (a *app) handleAssessmentPage(w http.ResponseWriter, r *http.Request) {
	session := a.sessions.Get(w, r)
	if session.Screen != ScreenAssessment {
		if err := session.Apply(EventStart, nil); err != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}
	a.render(w, "assessment", pageData{Fields: a.fields})
}

func (a *app) handleSubmit(w http.ResponseWriter, r *http.Request) {
	session := a.sessions.Get(w, r)
	if session.Screen != ScreenAssessment {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		a.render(w, "assessment", pageData{Fields: a.fields, Error: "could not read form"})
		return
	}

	vector, err := a.parseVector(r)
	if err != nil {
		a.render(w, "assessment", pageData{Fields: a.fields, Error: err.Error()})
		return
	}

	result, err := a.scorer.Assess(vector)
	if err != nil {
		a.logger.Error("assessment failed", zap.Error(err))
		a.render(w, "assessment", pageData{Fields: a.fields, Error: "assessment failed, please try again"})
		return
	}
	if err := session.Apply(EventSubmit, result); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	a.recordAssessment(result, vector)
	http.Redirect(w, r, "/results", http.StatusSeeOther)
}

func (a *app) handleResults(w http.ResponseWriter, r *http.Request) {
	session := a.sessions.Get(w, r)
	if session.Screen != ScreenResults || session.LastResult == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	a.render(w, "results", pageData{AdviceHTML: template.HTML(session.LastResult.AdviceHTML)})
}

func (a *app) handleBack(w http.ResponseWriter, r *http.Request) {
	session := a.sessions.Get(w, r)
	_ = session.Apply(EventBack, nil)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// parseVector reads one value per field, in training column order, and
// enforces the enumerated ranges.
func (a *app) parseVector(r *http.Request) ([]float64, error) {
	vector := make([]float64, len(a.fields))
	for i, field := range a.fields {
		raw := strings.TrimSpace(r.PostFormValue(field.ID))
		if raw == "" {
			return nil, fmt.Errorf("%s is required", field.Label)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", field.Label)
		}
		if value < field.Min || value > field.Max {
			return nil, fmt.Errorf("%s must be between %g and %g", field.Label, field.Min, field.Max)
		}
		vector[i] = value
	}
	return vector, nil
}

func (a *app) recordAssessment(result *risk.Assessment, vector []float64) {
	monitoring.AssessmentsTotal.WithLabelValues(string(result.Tier)).Inc()
	if a.hub != nil {
		a.hub.Publish(monitoring.ActivityEvent{
			Type:       "assessment",
			Tier:       string(result.Tier),
			Percentage: result.Percentage,
		})
	}
	if a.persist {
		if err := db.SaveAssessment(result, vector); err != nil {
			a.logger.Warn("saving assessment", zap.Error(err))
		}
	}
}

func (a *app) render(w http.ResponseWriter, page string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, page, data); err != nil {
		a.logger.Error("rendering page", zap.String("page", page), zap.Error(err))
	}
}
