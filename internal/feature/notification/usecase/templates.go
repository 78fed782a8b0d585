package usecase

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// WelcomeSubject is the subject of the post-signup email.
const WelcomeSubject = "Welcome to Paisable!"

var welcomeHTML = htmltemplate.Must(htmltemplate.New("welcome.html").Parse(`
    <div style="font-family: Arial, sans-serif; line-height:1.4; color:#333;">
      <h2>Welcome to Paisable{{if .Name}}, {{.Name}}{{end}}!</h2>
      <p>Thank you for creating an account. We're excited to have you on board.</p>
      <p>Here are a few things to get started:</p>
      <ul>
        <li>Log in and complete your profile</li>
        <li>Explore transactions and receipts</li>
        <li>Contact support if you need help</li>
      </ul>
      <p>Cheers,<br/>The Paisable Team</p>
    </div>
`))

var welcomeText = texttemplate.Must(texttemplate.New("welcome.txt").Parse(
	"Hi {{.Name}}\n\n" +
		"Welcome to Paisable! Your account has been created.\n\n" +
		"- Log in and complete your profile\n" +
		"- Explore transactions and receipts\n" +
		"- Contact support if you need help\n\n" +
		"Cheers,\nThe Paisable Team"))

// RenderWelcome returns the HTML and plain-text bodies of the welcome email.
// name may be empty; the HTML version escapes it.
func RenderWelcome(name string) (html, text string, err error) {
	data := struct{ Name string }{Name: name}

	var hb, tb bytes.Buffer
	if err := welcomeHTML.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err := welcomeText.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}
