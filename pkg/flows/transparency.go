package flows

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/thesyncim/flowcheck/pkg/flow"
)

//go:embed mocks.yaml
var defaultMocks []byte

// Mocked API endpoints.
const (
	SubmissionsPattern = "**/api/submissions"
	LeadsPattern       = "**/api/leads"
)

// ContactForm is the literal contact form submission.
var ContactForm = struct {
	Name, Email, Phone, Segment, Needs string
}{
	Name:    "John Doe",
	Email:   "john@example.com",
	Phone:   "1234567890",
	Segment: "retail",
	Needs:   "I need help with AI.",
}

// DefaultMocks returns the embedded transparency mocks.
func DefaultMocks() ([]flow.MockResponse, error) {
	return flow.LoadMocks(bytes.NewReader(defaultMocks))
}

type submissionsBody struct {
	Submissions []struct {
		ID       string `json:"id"`
		Mensagem string `json:"mensagem"`
	} `json:"submissions"`
}

type leadBody struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// expectations pulls the values the pages must echo out of the mock bodies.
func expectations(mocks []flow.MockResponse) (message, submissionID, leadID string, err error) {
	subs, ok := flow.FindMock(mocks, "/api/submissions")
	if !ok {
		return "", "", "", errors.New("missing mock for /api/submissions")
	}
	leads, ok := flow.FindMock(mocks, "/api/leads")
	if !ok {
		return "", "", "", errors.New("missing mock for /api/leads")
	}

	var sb submissionsBody
	if err := json.Unmarshal([]byte(subs.Body), &sb); err != nil {
		return "", "", "", fmt.Errorf("decode submissions mock: %w", err)
	}
	if len(sb.Submissions) == 0 {
		return "", "", "", errors.New("submissions mock has no submissions")
	}
	var lb leadBody
	if err := json.Unmarshal([]byte(leads.Body), &lb); err != nil {
		return "", "", "", fmt.Errorf("decode leads mock: %w", err)
	}
	if lb.ID == "" {
		return "", "", "", errors.New("leads mock has no id")
	}
	first := sb.Submissions[0]
	return first.Mensagem, first.ID, lb.ID, nil
}

// DefaultTransparency is Transparency with the embedded mocks.
func DefaultTransparency() (flow.Flow, error) {
	mocks, err := DefaultMocks()
	if err != nil {
		return flow.Flow{}, err
	}
	return Transparency(mocks)
}

// Transparency intercepts the submissions and leads APIs, then walks the
// public transparency page, the contact form and the leads manager,
// checking that the mocked data surfaces on each.
func Transparency(mocks []flow.MockResponse) (flow.Flow, error) {
	message, submissionID, leadID, err := expectations(mocks)
	if err != nil {
		return flow.Flow{}, fmt.Errorf("transparency flow: %w", err)
	}

	// The footer carries a newsletter form; the contact form is the first.
	const form = "form"
	steps := []flow.Step{
		flow.Navigate("/transparencia"),
		flow.ExpectWithin(flow.Text("Transparência Xperience"), 10*time.Second),
		flow.Expect(flow.Text(message).ExactMatch()),
		flow.Capture("transparency_page.png"),

		flow.Navigate("/contact"),
	}
	steps = append(steps, flow.FillAll(
		flow.FormInput{Field: flow.Placeholder("Nome").Within(form), Value: ContactForm.Name},
		flow.FormInput{Field: flow.Placeholder("E-mail").Within(form), Value: ContactForm.Email},
		flow.FormInput{Field: flow.Placeholder("Telefone").Within(form), Value: ContactForm.Phone},
	)...)
	steps = append(steps,
		flow.Select(flow.CSS("select").Within(form), ContactForm.Segment),
		flow.Fill(flow.FormInput{Field: flow.CSS("textarea").Within(form), Value: ContactForm.Needs}),
		flow.Check(flow.Checkbox().Within(form)),
		flow.Click(flow.Button("Enviar mensagem").Within(form)),
		flow.ExpectAll(
			flow.Text("Mensagem enviada com sucesso!"),
			flow.Text("ID Público: "+leadID).ExactMatch(),
		),
		flow.Capture("contact_success.png"),

		flow.Navigate("/leads"),
		flow.ExpectAll(
			flow.Text("Gerenciador de Submissões"),
			flow.Text(submissionID),
		),
		flow.Capture("leads_manager.png"),
	)

	return flow.Flow{
		Name:        TransparencyName,
		Description: "mocked submissions surface on the public, contact and leads pages",
		Mocks:       mocks,
		Steps:       steps,
		FailureShot: "error.png",
	}, nil
}
