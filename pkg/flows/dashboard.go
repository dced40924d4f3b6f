package flows

import "github.com/thesyncim/flowcheck/pkg/flow"

// DashboardSections are the section headings of the logged-in dashboard.
var DashboardSections = []string{"Área Logada", "Agentes", "Relatórios", "Projetos", "Configurações"}

// Dashboard loads the dashboard with authentication bypassed, checks every
// section heading and follows the "Agentes" section.
func Dashboard() flow.Flow {
	headings := make([]flow.Locator, len(DashboardSections))
	for i, s := range DashboardSections {
		headings[i] = flow.Heading(s)
	}
	return flow.Flow{
		Name:        DashboardName,
		Description: "dashboard sections render and link to the agents page",
		Steps: []flow.Step{
			flow.Navigate("/dashboard"),
			flow.WaitNetworkIdle(),
			flow.ExpectAll(headings...),
			flow.Capture("dashboard_restored.png"),
			flow.Click(flow.Heading("Agentes")),
			flow.WaitNetworkIdle(),
			flow.Expect(flow.Heading("Meus Agentes de IA")),
		},
		FailureShot: "dashboard_error.png",
	}
}
