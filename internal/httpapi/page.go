package httpapi

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>hubble</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 40rem; margin: 3rem auto; }
input { width: 100%; padding: 0.5rem; font-size: 1rem; }
ul { list-style: none; padding: 0; }
li { padding: 0.5rem 0; border-bottom: 1px solid #ddd; }
.rank { color: #888; font-size: 0.85em; }
</style>
</head>
<body>
<h1>hubble</h1>
<input id="q" type="search" placeholder="Search titles&hellip;" autofocus>
<ul id="results"></ul>
<script>
const input = document.getElementById('q');
const results = document.getElementById('results');
let timer = null;

input.addEventListener('input', () => {
	clearTimeout(timer);
	timer = setTimeout(runQuery, 150);
});

async function runQuery() {
	const query = input.value.trim();
	if (!query) {
		results.innerHTML = '';
		return;
	}
	const resp = await fetch('/', {
		method: 'POST',
		headers: { 'Content-Type': 'application/json' },
		body: JSON.stringify({ query, limit: 20 }),
	});
	if (!resp.ok) {
		results.innerHTML = '<li>search failed</li>';
		return;
	}
	const titles = await resp.json();
	results.innerHTML = titles.map(t =>
		'<li>' + t.primaryTitle + ' <span class="rank">(' + t.kind + (t.startYear ? ', ' + t.startYear : '') + ')</span></li>'
	).join('');
}
</script>
</body>
</html>
`
