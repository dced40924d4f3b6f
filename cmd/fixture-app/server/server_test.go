package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func startServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	if _, err := srv.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})
	return srv
}

func getDoc(t *testing.T, url string) *goquery.Document {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status = %d, want %d", url, resp.StatusCode, http.StatusOK)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatalf("parse %s: %v", url, err)
	}
	return doc
}

func headings(doc *goquery.Document) []string {
	var out []string
	doc.Find("h1,h2,h3").Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func TestServerStartStop(t *testing.T) {
	srv, err := NewServer(DefaultConfig())
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}

	addr, err := srv.Start()
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// Verify we got a real address (not :0)
	if addr == "" || addr == ":0" {
		t.Errorf("Start() returned invalid address: %q", addr)
	}
	if got := srv.Addr(); got != addr {
		t.Errorf("Addr() = %q, want %q", got, addr)
	}
	if !strings.HasPrefix(srv.URL(), "http://localhost:") {
		t.Errorf("URL() = %q, want http://localhost:<port>", srv.URL())
	}

	url := srv.URL() + "/dashboard"
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("HTTP GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /dashboard status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}

	// Verify server is stopped (should fail to connect)
	if _, err := http.Get(url); err == nil {
		t.Error("Expected connection error after shutdown, but request succeeded")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Addr != ":0" {
		t.Errorf("DefaultConfig().Addr = %q, want %q", cfg.Addr, ":0")
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("DefaultConfig().ReadTimeout = %v, want %v", cfg.ReadTimeout, 30*time.Second)
	}
	if cfg.SeedAgents {
		t.Error("DefaultConfig().SeedAgents = true, want empty agents list")
	}
}

func TestServerDoubleStart(t *testing.T) {
	srv := startServer(t, DefaultConfig())

	addr1 := srv.Addr()
	addr2, err := srv.Start()
	if err != nil {
		t.Fatalf("Second Start() failed: %v", err)
	}
	if addr1 != addr2 {
		t.Errorf("Second Start() returned different address: %q vs %q", addr1, addr2)
	}
}

func TestDashboardPage(t *testing.T) {
	srv := startServer(t, DefaultConfig())
	doc := getDoc(t, srv.URL()+"/dashboard")

	got := strings.Join(headings(doc), "|")
	want := "Área Logada|Agentes|Relatórios|Projetos|Configurações"
	if got != want {
		t.Errorf("dashboard headings = %q, want %q", got, want)
	}
	if onclick, _ := doc.Find("h2").First().Attr("onclick"); !strings.Contains(onclick, "/agents") {
		t.Errorf("Agentes heading onclick = %q, want navigation to /agents", onclick)
	}
}

func TestAgentsPageVariants(t *testing.T) {
	tests := []struct {
		name       string
		seed       bool
		empty      bool
		wantButton []string
	}{
		{"empty state", false, false, []string{"Criar Primeiro Agente"}},
		{"populated list", true, false, []string{"Novo Agente"}},
		{"both controls", true, true, []string{"Novo Agente", "Criar Primeiro Agente"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.SeedAgents = tt.seed
			cfg.EmptyState = tt.empty
			srv := startServer(t, cfg)
			doc := getDoc(t, srv.URL()+"/agents")

			var got []string
			doc.Find("#list-view button").Each(func(_ int, b *goquery.Selection) {
				got = append(got, strings.TrimSpace(b.Text()))
			})
			if strings.Join(got, "|") != strings.Join(tt.wantButton, "|") {
				t.Errorf("list view buttons = %q, want %q", got, tt.wantButton)
			}
			if doc.Find(`#modal input[placeholder="Ex: Consultor de Vendas"]`).Length() != 1 {
				t.Error("modal missing agent name input")
			}
			if doc.Find(`#modal option[value="new_project"]`).Length() != 1 {
				t.Error("modal missing new_project option")
			}
			if doc.Find(`#chat input[placeholder="Digite sua mensagem..."]`).Length() != 1 {
				t.Error("chat view missing message input")
			}
		})
	}
}

func TestContactPageHasTwoForms(t *testing.T) {
	srv := startServer(t, DefaultConfig())
	doc := getDoc(t, srv.URL()+"/contact")

	forms := doc.Find("form")
	if forms.Length() != 2 {
		t.Fatalf("contact page has %d forms, want 2", forms.Length())
	}
	contact := forms.First()
	for _, ph := range []string{"Nome", "E-mail", "Telefone"} {
		if contact.Find(`input[placeholder="`+ph+`"]`).Length() != 1 {
			t.Errorf("contact form missing %q input", ph)
		}
	}
	if contact.Find(`option[value="retail"]`).Length() != 1 {
		t.Error("contact form missing retail segment")
	}
	if contact.Find("textarea").Length() != 1 || contact.Find("input[type=checkbox][required]").Length() != 1 {
		t.Error("contact form missing textarea or required checkbox")
	}
}

func TestTitles(t *testing.T) {
	srv := startServer(t, DefaultConfig())
	for path, want := range map[string]string{
		"/transparencia": "Transparência Xperience",
		"/leads":         "Gerenciador de Submissões",
	} {
		doc := getDoc(t, srv.URL()+path)
		if got := strings.TrimSpace(doc.Find("h1").Text()); got != want {
			t.Errorf("GET %s h1 = %q, want %q", path, got, want)
		}
	}
}

func postLead(t *testing.T, srv *Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL()+"/api/leads", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/leads failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestLeadsAPI(t *testing.T) {
	srv := startServer(t, DefaultConfig())

	resp := postLead(t, srv, `{"type":"contact","data":{"name":"John Doe","email":"john@example.com","needs":"I need help with AI."}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /api/leads status = %d, want 200", resp.StatusCode)
	}
	var lead LeadResponse
	if err := json.NewDecoder(resp.Body).Decode(&lead); err != nil {
		t.Fatalf("decode lead response: %v", err)
	}
	if !lead.Success || !strings.HasPrefix(lead.ID, "sub_") {
		t.Errorf("lead response = %+v, want success with sub_ id", lead)
	}

	sresp, err := http.Get(srv.URL() + "/api/submissions")
	if err != nil {
		t.Fatalf("GET /api/submissions failed: %v", err)
	}
	defer sresp.Body.Close()
	var subs SubmissionsResponse
	if err := json.NewDecoder(sresp.Body).Decode(&subs); err != nil {
		t.Fatalf("decode submissions: %v", err)
	}
	if subs.Total != 2 || len(subs.Submissions) != 2 {
		t.Fatalf("submissions total=%d len=%d, want 2/2", subs.Total, len(subs.Submissions))
	}
	got := subs.Submissions[0]
	if got.ID != lead.ID || got.NomeAnon != "John..." || got.EmailAnon != "joh***@exa***" || got.Mensagem != "I need help with AI." {
		t.Errorf("newest submission = %+v", got)
	}

	if n := srv.Hits("/api/leads"); n != 1 {
		t.Errorf("Hits(/api/leads) = %d, want 1", n)
	}
	if n := srv.Hits("/api/submissions"); n != 1 {
		t.Errorf("Hits(/api/submissions) = %d, want 1", n)
	}
}

func TestLeadsAPIAcceptsMixedDataTypes(t *testing.T) {
	srv := startServer(t, DefaultConfig())

	resp := postLead(t, srv, `{"type":"contact","data":{"name":"Maria Silva","email":"maria@example.com","needs":"Quero um orçamento.","terms":true,"employees":12,"segment":"retail"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /api/leads status = %d, want 200", resp.StatusCode)
	}

	subs := srv.store.list(1)
	if len(subs.Submissions) != 1 {
		t.Fatalf("store has %d submissions, want 1", len(subs.Submissions))
	}
	if got := subs.Submissions[0]; got.NomeAnon != "Mari..." || got.Mensagem != "Quero um orçamento." {
		t.Errorf("stored submission = %+v", got)
	}

	resp = postLead(t, srv, `{"type":"contact","data":{"name":42,"email":false}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /api/leads with non-string fields status = %d, want 200", resp.StatusCode)
	}
	if got := srv.store.list(1).Submissions[0]; got.NomeAnon != "Anônimo" || got.EmailAnon != "***@***" {
		t.Errorf("non-string name/email not treated as absent: %+v", got)
	}
}

func TestLeadsAPIRejects(t *testing.T) {
	srv := startServer(t, DefaultConfig())

	for name, body := range map[string]string{
		"missing data":   `{"type":"contact"}`,
		"missing type":   `{"data":{"email":"a@b.c"}}`,
		"unknown type":   `{"type":"sales","data":{"email":"a@b.c"}}`,
		"malformed json": `{"type":`,
	} {
		if resp := postLead(t, srv, body); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, resp.StatusCode)
		}
	}

	resp, err := http.Get(srv.URL() + "/api/leads")
	if err != nil {
		t.Fatalf("GET /api/leads failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/leads status = %d, want 405", resp.StatusCode)
	}
}

func TestAnonymize(t *testing.T) {
	names := map[string]string{"": "Anônimo", "Ana": "Ana", "João Silva": "João..."}
	for in, want := range names {
		if got := anonymizeName(in); got != want {
			t.Errorf("anonymizeName(%q) = %q, want %q", in, got, want)
		}
	}
	emails := map[string]string{"": "***@***", "john@example.com": "joh***@exa***"}
	for in, want := range emails {
		if got := anonymizeEmail(in); got != want {
			t.Errorf("anonymizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}
