package flows

import "github.com/thesyncim/flowcheck/pkg/flow"

// Literal values typed into the agent creation form.
const (
	AgentName       = "Playwright Bot"
	AgentRole       = "Tester"
	AgentCommand    = "new_project"
	ChatPlaceholder = "Digite sua mensagem..."
)

// Agents opens the agent creation dialog from whichever entry control the
// list shows, creates an agent and checks the chat view. onEntry receives
// the entry variant the page presented; it may be nil.
func Agents(onEntry func(flow.EntryVariant)) flow.Flow {
	steps := []flow.Step{
		flow.Navigate("/agents"),
		flow.Expect(flow.Text("Meus Agentes")),
		flow.ChooseEntry(onEntry,
			flow.Entry{Variant: flow.PopulatedList, Locator: flow.Button("Novo Agente")},
			flow.Entry{Variant: flow.EmptyState, Locator: flow.Text("Criar Primeiro Agente")},
		),
		flow.Expect(flow.Text("Criar Novo Agente")),
	}
	steps = append(steps, flow.FillAll(
		flow.FormInput{Field: flow.Placeholder("Ex: Consultor de Vendas"), Value: AgentName},
		flow.FormInput{Field: flow.Placeholder("Ex: Especialista em Marketing"), Value: AgentRole},
	)...)
	steps = append(steps,
		flow.Select(flow.CSS("select"), AgentCommand),
		flow.Click(flow.Button("Criar Agente")),
		flow.ExpectAll(
			flow.Heading(AgentName).ExactMatch(),
			flow.Placeholder(ChatPlaceholder),
		),
		flow.Capture("agents_flow.png"),
	)
	return flow.Flow{
		Name:        AgentsName,
		Description: "create an agent and land in its chat",
		Steps:       steps,
		FailureShot: "agents_error.png",
	}
}
