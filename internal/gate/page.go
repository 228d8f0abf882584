package gate

import (
	"html/template"
	"net/http"
	"strings"
)

const wrongPassword = "Incorrect password. Please try again."

var pageTmpl = template.Must(template.New("password").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Password Required</title></head>
<body>
<main>
  <h1>Password Required</h1>
  <p>Enter the password to access this site.</p>
  <form id="gate">
    <input type="password" name="password" placeholder="Enter password" required autofocus>
    <button type="submit">Enter Site</button>
    <p id="error" role="alert" hidden>{{.Error}}</p>
  </form>
</main>
<script>
document.getElementById('gate').addEventListener('submit', async function (e) {
  e.preventDefault();
  const res = await fetch({{.AuthPath}}, {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({password: this.password.value})
  });
  if (res.ok) {
    window.location.assign({{.Redirect}});
    return;
  }
  document.getElementById('error').hidden = false;
});
</script>
</body>
</html>
`))

type pageData struct {
	Error    string
	AuthPath string
	Redirect string
}

func (g *Gate) page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := pageData{Error: wrongPassword, AuthPath: AuthPath, Redirect: safeRedirect(r.URL.Query().Get("redirect"))}
	if err := pageTmpl.Execute(w, data); err != nil {
		g.log.WithError(err).Error("render password page")
	}
}

// safeRedirect keeps the post-login destination on this site.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}
