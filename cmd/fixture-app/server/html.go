package server

const pageStyle = `
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            max-width: 900px;
            margin: 40px auto;
            padding: 20px;
            background: #f5f5f5;
        }
        .card {
            background: white;
            padding: 20px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            margin-bottom: 16px;
        }
        .grid { display: grid; grid-template-columns: repeat(2, 1fr); gap: 16px; }
        .section { cursor: pointer; }
        button {
            background: #4285f4;
            color: white;
            border: none;
            padding: 10px 20px;
            border-radius: 4px;
            cursor: pointer;
            font-size: 15px;
        }
        input, select, textarea { display: block; margin: 8px 0; padding: 8px; width: 100%; box-sizing: border-box; }
        input[type=checkbox] { display: inline; width: auto; }
        .hidden { display: none; }
        .success { background: #d4edda; color: #155724; padding: 15px; border-radius: 4px; }
        table { width: 100%; border-collapse: collapse; }
        td, th { border-bottom: 1px solid #ddd; padding: 8px; text-align: left; }
        footer { margin-top: 40px; }
    </style>`

// DashboardPage is the logged-in area with one card per section.
const DashboardPage = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Área Logada</title>` + pageStyle + `
</head>
<body>
    <h1>Área Logada</h1>
    <div class="grid">
        <div class="card section"><h2 onclick="location.href='/agents'">Agentes</h2><p>Crie e converse com agentes de IA.</p></div>
        <div class="card section"><h2>Relatórios</h2><p>Relatórios gerados por IA.</p></div>
        <div class="card section"><h2>Projetos</h2><p>Acompanhe seus projetos.</p></div>
        <div class="card section"><h2>Configurações</h2><p>Preferências da conta.</p></div>
    </div>
</body>
</html>`

// AgentsPage is a template. .Seeded renders the populated list with its
// "Novo Agente" button and .EmptyState the first-agent call to action; both
// may be set at once.
const AgentsPage = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Agentes</title>` + pageStyle + `
</head>
<body>
    <div id="list-view">
        <div class="card">
            <h1>Meus Agentes de IA</h1>
            {{if .Seeded}}<button id="new-agent" type="button">Novo Agente</button>{{end}}
        </div>
        {{if .Seeded}}
        <ul class="card" id="agent-list">
            <li>Assistente de Vendas</li>
        </ul>
        {{end}}
        {{if .EmptyState}}
        <div class="card" id="empty-state">
            <p>Você ainda não tem agentes.</p>
            <button id="first-agent" type="button">Criar Primeiro Agente</button>
        </div>
        {{end}}
    </div>

    <div id="modal" class="card hidden" role="dialog">
        <h2>Criar Novo Agente</h2>
        <input id="agent-name" type="text" placeholder="Ex: Consultor de Vendas">
        <input id="agent-role" type="text" placeholder="Ex: Especialista em Marketing">
        <select id="agent-command">
            <option value="">Selecione um comando</option>
            <option value="new_project">Novo projeto</option>
            <option value="report">Gerar relatório</option>
        </select>
        <button id="create-agent" type="button">Criar Agente</button>
    </div>

    <div id="chat" class="card hidden">
        <h2 id="chat-title"></h2>
        <div id="messages"></div>
        <input id="chat-input" type="text" placeholder="Digite sua mensagem...">
    </div>

    <script>
        const openModal = () => document.getElementById('modal').classList.remove('hidden');
        document.querySelectorAll('#new-agent, #first-agent').forEach((b) => b.addEventListener('click', openModal));
        document.getElementById('create-agent').addEventListener('click', () => {
            const name = document.getElementById('agent-name').value.trim();
            const role = document.getElementById('agent-role').value.trim();
            const command = document.getElementById('agent-command').value;
            if (!name || !role || !command) {
                return;
            }
            document.getElementById('list-view').classList.add('hidden');
            document.getElementById('modal').classList.add('hidden');
            document.getElementById('chat-title').textContent = name;
            document.getElementById('chat').classList.remove('hidden');
        });
    </script>
</body>
</html>`

// TransparencyPage lists the public anonymized submissions.
const TransparencyPage = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Transparência</title>` + pageStyle + `
</head>
<body>
    <h1>Transparência Xperience</h1>
    <p>Mensagens recebidas, com dados pessoais anonimizados.</p>
    <div id="total"></div>
    <div id="submissions"></div>
    <script>
        fetch('/api/submissions')
            .then((r) => r.json())
            .then((body) => {
                document.getElementById('total').textContent = 'Total: ' + body.total;
                const list = document.getElementById('submissions');
                for (const s of body.submissions) {
                    const card = document.createElement('div');
                    card.className = 'card';
                    const who = document.createElement('small');
                    who.textContent = s.nomeAnon + ' (' + s.emailAnon + ')';
                    const msg = document.createElement('p');
                    msg.textContent = s.mensagem;
                    card.append(who, msg);
                    list.append(card);
                }
            });
    </script>
</body>
</html>`

// ContactPage holds the contact form followed by a newsletter form in the
// footer.
const ContactPage = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Contato</title>` + pageStyle + `
</head>
<body>
    <h1>Fale Conosco</h1>
    <form id="contact" class="card">
        <input name="name" type="text" placeholder="Nome" required>
        <input name="email" type="email" placeholder="E-mail" required>
        <input name="phone" type="tel" placeholder="Telefone" required>
        <select name="segment" required>
            <option value="">Segmento</option>
            <option value="retail">Varejo</option>
            <option value="industry">Indústria</option>
            <option value="services">Serviços</option>
        </select>
        <textarea name="needs" rows="4" required></textarea>
        <label><input name="terms" type="checkbox" required> Aceito os termos</label>
        <button type="submit">Enviar mensagem</button>
    </form>
    <div id="result" class="hidden success">
        <p>Mensagem enviada com sucesso!</p>
        <p id="public-id"></p>
    </div>

    <footer class="card">
        <form id="newsletter">
            <input name="email" type="email" placeholder="E-mail para newsletter">
            <button type="submit">Assinar</button>
        </form>
    </footer>

    <script>
        const send = (type, data) => fetch('/api/leads', {
            method: 'POST',
            headers: { 'Content-Type': 'application/json' },
            body: JSON.stringify({ type, data }),
        }).then((r) => r.json());

        document.getElementById('contact').addEventListener('submit', (e) => {
            e.preventDefault();
            const data = Object.fromEntries(new FormData(e.target));
            delete data.terms;
            send('contact', data).then((body) => {
                if (!body.success) {
                    return;
                }
                document.getElementById('public-id').textContent = 'ID Público: ' + body.id;
                document.getElementById('result').classList.remove('hidden');
            });
        });
        document.getElementById('newsletter').addEventListener('submit', (e) => {
            e.preventDefault();
            send('newsletter', Object.fromEntries(new FormData(e.target)));
        });
    </script>
</body>
</html>`

// LeadsPage is the internal submissions manager.
const LeadsPage = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Leads</title>` + pageStyle + `
</head>
<body>
    <h1>Gerenciador de Submissões</h1>
    <table class="card">
        <thead><tr><th>ID</th><th>Nome</th><th>E-mail</th><th>Mensagem</th><th>Data</th></tr></thead>
        <tbody id="rows"></tbody>
    </table>
    <script>
        fetch('/api/submissions')
            .then((r) => r.json())
            .then((body) => {
                const rows = document.getElementById('rows');
                for (const s of body.submissions) {
                    const tr = document.createElement('tr');
                    for (const v of [s.id, s.nomeAnon, s.emailAnon, s.mensagem, s.data]) {
                        const td = document.createElement('td');
                        td.textContent = v;
                        tr.append(td);
                    }
                    rows.append(tr);
                }
            });
    </script>
</body>
</html>`
