package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

var welcomeHTML = template.Must(template.New("welcome").Parse(`
<html>
<body>
  <h2>Welcome, {{.Username}}!</h2>
  <p>Your account on {{.AppName}} is ready. Log in and start posting.</p>
</body>
</html>
`))

// Render builds subject, text and html bodies for the named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case "welcome":
		var buf bytes.Buffer
		if err = welcomeHTML.Execute(&buf, map[string]any{
			"Username": data["username"],
			"AppName":  data["app_name"],
		}); err != nil {
			return "", "", "", err
		}
		subject = fmt.Sprintf("Welcome to %v", data["app_name"])
		text = fmt.Sprintf("Welcome, %v! Your account is ready.", data["username"])
		return subject, text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}
