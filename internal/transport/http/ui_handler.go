package http

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"quiz-ladders/internal/domain"
	"quiz-ladders/internal/ui"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	cookieName  = "quiz-ladders"
	clientIDKey = "client"
)

// UIHandler serves the server-rendered pages. Every browser is bound to one ui.Store
// through a signed cookie holding its client ID.
type UIHandler struct {
	clients ui.Registry
	cookies *sessions.CookieStore
	pages   map[ui.View]*template.Template
}

func NewUIHandler(clients ui.Registry, cookieSecret []byte) (*UIHandler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	cookies := sessions.NewCookieStore(cookieSecret)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &UIHandler{clients: clients, cookies: cookies, pages: pages}, nil
}

func parsePages() (map[ui.View]*template.Template, error) {
	funcs := template.FuncMap{
		"inc":   func(i int) int { return i + 1 },
		"upper": strings.ToUpper,
		"dotOffset": func(v float64) float64 {
			return math.Max(0, v-6)
		},
	}
	pages := make(map[ui.View]*template.Template)
	for view, file := range map[ui.View]string{
		ui.ViewHome:   "templates/home.html",
		ui.ViewCreate: "templates/create.html",
		ui.ViewPlay:   "templates/play.html",
	} {
		t, err := template.New(string(view)).Funcs(funcs).ParseFS(templateFS, "templates/base.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		pages[view] = t
	}
	return pages, nil
}

// Register mounts the page routes on mux.
func (h *UIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("POST /nav", h.navigate)
	mux.HandleFunc("POST /tests/{id}/start", h.startTest)
	mux.HandleFunc("POST /play/select", h.selectOption)
	mux.HandleFunc("POST /play/{action}", h.play)
	mux.HandleFunc("POST /create/draft", h.draft)
	mux.HandleFunc("POST /create/questions/{index}/edit", h.editQuestion)
}

// Client returns the store bound to the request's cookie, issuing a new client ID when
// the browser has none.
func (h *UIHandler) Client(w http.ResponseWriter, r *http.Request) *ui.Store {
	session, err := h.cookies.Get(r, cookieName)
	if err != nil {
		// tampered or rotated key: start over with a fresh identity
		log.Printf("ui: discarding unreadable cookie: %v", err)
	}
	id, _ := session.Values[clientIDKey].(string)
	if id == "" {
		id = uuid.NewString()
		session.Values[clientIDKey] = id
		if err := session.Save(r, w); err != nil {
			log.Printf("ui: save cookie: %v", err)
		}
	}
	return h.clients.GetOrCreate(id)
}

func (h *UIHandler) index(w http.ResponseWriter, r *http.Request) {
	store := h.Client(w, r)
	snap := store.Snapshot()

	page, ok := h.pages[snap.View]
	if !ok {
		page = h.pages[ui.ViewHome]
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.ExecuteTemplate(w, "base.html", snap); err != nil {
		log.Printf("Template error in %s: %v", snap.View, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func (h *UIHandler) navigate(w http.ResponseWriter, r *http.Request) {
	store := h.Client(w, r)
	store.Navigate(ui.View(r.FormValue("view")))
	redirectHome(w, r)
}

func (h *UIHandler) startTest(w http.ResponseWriter, r *http.Request) {
	store := h.Client(w, r)
	id := r.PathValue("id")
	if !domain.ValidTestID(id) {
		http.NotFound(w, r)
		return
	}
	store.StartTest(id)
	redirectHome(w, r)
}

func (h *UIHandler) selectOption(w http.ResponseWriter, r *http.Request) {
	store := h.Client(w, r)
	if err := store.Select(r.FormValue("option")); err != nil {
		log.Printf("client %s: select: %v", store.ID(), err)
	}
	redirectHome(w, r)
}

func (h *UIHandler) play(w http.ResponseWriter, r *http.Request) {
	store := h.Client(w, r)
	err := store.Play(ui.PlayAction(r.PathValue("action")))
	if errors.Is(err, domain.ErrNotLoaded) {
		log.Printf("client %s: play %s: %v", store.ID(), r.PathValue("action"), err)
	}
	redirectHome(w, r)
}

func (h *UIHandler) draft(w http.ResponseWriter, r *http.Request) {
	store := h.Client(w, r)
	in, err := parseDraft(r)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	action := ui.DraftAction(r.FormValue("action"))
	index := 0
	if raw := r.FormValue("remove"); raw != "" {
		action = ui.DraftRemoveOption
		index, _ = strconv.Atoi(raw)
	}
	if action == "" {
		action = ui.DraftUpdate
	}
	// validation failures surface as the form's inline message
	_ = store.EditDraft(r.Context(), in, action, index)
	redirectHome(w, r)
}

func (h *UIHandler) editQuestion(w http.ResponseWriter, r *http.Request) {
	store := h.Client(w, r)
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if in, err := parseDraft(r); err == nil {
		_ = store.EditDraft(r.Context(), in, ui.DraftUpdate, 0)
	}
	if err := store.EditQuestion(index); err != nil {
		log.Printf("client %s: edit question %d: %v", store.ID(), index, err)
	}
	redirectHome(w, r)
}

// parseDraft reads the Create form. Points that are not whole numbers read as 0 and are
// rejected by draft validation.
func parseDraft(r *http.Request) (ui.DraftInput, error) {
	if err := r.ParseForm(); err != nil {
		return ui.DraftInput{}, err
	}
	in := ui.DraftInput{
		TestID: r.PostFormValue("test_id"),
		Title:  r.PostFormValue("title"),
		Prompt: r.PostFormValue("prompt"),
		Type:   domain.QuestionType(r.PostFormValue("type")),
	}
	count, _ := strconv.Atoi(r.PostFormValue("option_count"))
	for i := 0; i < count; i++ {
		suffix := strconv.Itoa(i)
		points, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("option_points_" + suffix)))
		if err != nil {
			points = 0
		}
		in.Options = append(in.Options, ui.OptionInput{
			Text:      r.PostFormValue("option_text_" + suffix),
			Points:    points,
			IsCorrect: r.PostFormValue("option_correct_"+suffix) != "",
		})
	}
	return in, nil
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
