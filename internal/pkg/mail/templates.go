package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

const verifyEmailTpl = `<!DOCTYPE html>
<html>
<body style="font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">Welcome{{if .Name}}, {{.Name}}{{end}}!</h2>
  <p>Thanks for signing up. Please confirm your email address to activate your account:</p>
  <p style="margin-top:24px">
    <a href="{{.VerifyURL}}" style="background:#4f46e5;color:#fff;padding:10px 20px;text-decoration:none;border-radius:4px">Verify email</a>
  </p>
  <p style="color:#999;font-size:12px">This link expires in 24 hours. If you did not create an account, you can safely ignore this email.</p>
  <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:26px 0" />
  <p style="font-size:10px;line-height:24px;text-align:center;color:rgb(156,163,175)">This email was sent automatically, please do not reply.<br />&copy;{{year}} {{.SiteName}}</p>
</div>
</body>
</html>`

// VerificationData is the data for account verification emails.
type VerificationData struct {
	Name      string
	VerifyURL string
	SiteName  string
}

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
	}).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendVerification sends an account verification email.
func (s *Sender) SendVerification(to string, data VerificationData) error {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = "Inkverse"
	}
	html, err := renderTemplate(verifyEmailTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] Verify your email address", data.SiteName),
		HTML:    html,
	})
}
