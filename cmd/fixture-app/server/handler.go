package server

import (
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Submission is the public, anonymized view of a lead.
type Submission struct {
	ID        string `json:"id"`
	NomeAnon  string `json:"nomeAnon"`
	EmailAnon string `json:"emailAnon"`
	Mensagem  string `json:"mensagem"`
	Data      string `json:"data"`
}

// SubmissionsResponse is the body of GET /api/submissions.
type SubmissionsResponse struct {
	Submissions []Submission `json:"submissions"`
	Total       int          `json:"total"`
}

// LeadRequest is the body of POST /api/leads.
type LeadRequest struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// field returns the string stored under key, or "" when it is missing or
// holds another JSON type.
func (r LeadRequest) field(key string) string {
	v, _ := r.Data[key].(string)
	return v
}

// LeadResponse is the body of a successful POST /api/leads.
type LeadResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

const maxSubmissions = 1000

type store struct {
	mu          sync.Mutex
	submissions []Submission // newest first
	total       int
}

func newStore() *store {
	return &store{
		submissions: []Submission{{
			ID:        "sub_backend_seed",
			NomeAnon:  "Mari...",
			EmailAnon: "mar***@exa***",
			Mensagem:  "Mensagem real do backend",
			Data:      "2024-01-15T09:30:00Z",
		}},
		total: 1,
	}
}

func (s *store) add(sub Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append([]Submission{sub}, s.submissions...)
	if len(s.submissions) > maxSubmissions {
		s.submissions = s.submissions[:maxSubmissions]
	}
	s.total++
}

func (s *store) list(limit int) SubmissionsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := min(limit, len(s.submissions))
	out := make([]Submission, n)
	copy(out, s.submissions[:n])
	return SubmissionsResponse{Submissions: out, Total: s.total}
}

type hitCounter struct {
	mu   sync.Mutex
	hits map[string]int
}

func newHitCounter() *hitCounter {
	return &hitCounter{hits: make(map[string]int)}
}

func (c *hitCounter) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.hits[r.URL.Path]++
		c.mu.Unlock()
		next(w, r)
	}
}

func (c *hitCounter) get(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits[path]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleSubmissions returns the latest 100 public submissions.
func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.store.list(100))
}

// handleLeads records a contact or newsletter lead and publishes its
// anonymized submission.
func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req LeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Failed to decode lead: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if req.Type == "" || req.Data == nil {
		writeError(w, http.StatusBadRequest, "Missing type or data")
		return
	}

	id := "sub_" + uuid.NewString()
	sub := Submission{
		ID:        id,
		EmailAnon: anonymizeEmail(req.field("email")),
		Data:      time.Now().UTC().Format(time.RFC3339),
	}
	switch req.Type {
	case "contact":
		sub.NomeAnon = anonymizeName(firstNonEmpty(req.field("name"), req.field("nome")))
		sub.Mensagem = firstNonEmpty(req.field("needs"), req.field("mensagem"))
	case "newsletter":
		sub.NomeAnon = "Newsletter"
		sub.Mensagem = "Inscreveu-se na newsletter"
	default:
		writeError(w, http.StatusBadRequest, `Invalid type. Must be "contact" or "newsletter"`)
		return
	}

	s.store.add(sub)
	log.Printf("Lead stored: type=%s id=%s", req.Type, id)
	writeJSON(w, http.StatusOK, LeadResponse{Success: true, ID: id})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func anonymizeName(name string) string {
	r := []rune(name)
	switch {
	case len(r) == 0:
		return "Anônimo"
	case len(r) > 4:
		return string(r[:4]) + "..."
	default:
		return name
	}
}

var emailPattern = regexp.MustCompile(`^(.{1,3}).+@(.{1,3}).+$`)

func anonymizeEmail(email string) string {
	if email == "" {
		return "***@***"
	}
	if !emailPattern.MatchString(email) {
		return email
	}
	return emailPattern.ReplaceAllString(email, "${1}***@${2}***")
}
