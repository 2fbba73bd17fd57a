package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"os"
	"regexp"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/k3a/html2text"
)

// Kind is the decision a notification announces.
type Kind string

const (
	KindApproval Kind = "approval"
	KindDecline  Kind = "decline"
)

// ParseKind maps a requested mail kind to a Kind. Blank and "approve" select an
// approval; anything else is a decline.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "approve", "approval":
		return KindApproval
	default:
		return KindDecline
	}
}

// FooterContentID is the Content-ID of the inline footer image.
const FooterContentID = "footerImage"

// InlineFile is a file embedded in an HTML message and referenced as cid:ContentID.
type InlineFile struct {
	ContentID string
	Path      string
}

// Message is a rendered notification, ready for a Transport.
// HTML is empty in simple mode.
type Message struct {
	Kind    Kind
	To      string
	Subject string
	Text    string
	HTML    string
	Inline  []InlineFile
}

// RenderOptions control message rendering.
type RenderOptions struct {
	SimpleMode  bool
	EmbedFooter bool
	FooterImage string
	Signature   string
}

type kindTemplate struct {
	subject string
	title   string
	text    *texttemplate.Template
	body    *htmltemplate.Template
}

var layout = htmltemplate.Must(htmltemplate.New("layout").Parse(`<div style="font-family:Arial,Helvetica,sans-serif;background-color:#f7f9fb;padding:24px;">
<div style="max-width:640px;margin:0 auto;background:#ffffff;border-radius:10px;border:1px solid #e5eaf0;overflow:hidden;">
<div style="padding:24px 24px 8px 24px;border-bottom:1px solid #eef2f7;">
<h2 style="margin:0;color:#046241;">{{.Title}}</h2>
</div>
<div style="padding:24px;color:#243b4a;line-height:1.6;font-size:14px;">
{{.Body}}
<p style="margin-top:24px;color:#506575;font-size:12px">If you have any questions, simply reply to this email and we'll be happy to help.</p>
<p style="margin:0;color:#506575;font-size:12px">Warm regards,<br/><strong>{{.Signature}}</strong></p>
{{if .Footer}}<img src="cid:footerImage" alt="Footer" style="max-width:100%;height:auto;display:block;margin-top:16px;"/>{{end}}
</div>
</div>
<p style="text-align:center;color:#90a4ae;font-size:11px;margin-top:16px">&copy; {{.Year}} Applicant System Management</p>
</div>`))

var templates = map[Kind]kindTemplate{
	KindApproval: {
		subject: "Your Application Has Been Approved",
		title:   "Application Approved",
		text: texttemplate.Must(texttemplate.New("approval.txt").Parse(`Dear {{.Name}},

Congratulations! Your application has been approved.
We will contact you shortly with the next steps.

Warm regards,
{{.Signature}}`)),
		body: htmltemplate.Must(htmltemplate.New("approval.html").Parse(`<p>Dear {{.Name}},</p>
<p>Congratulations! We're pleased to inform you that your application has been <strong>approved</strong>.</p>
<p>Our team will reach out with the next steps shortly. In the meantime, feel free to reply if you have any questions.</p>
<p style="margin:16px 0;padding:12px;background:#eaf6ee;border-left:4px solid #2e7d32;color:#1b5e20">You've done great, keep the momentum going! We look forward to working with you.</p>`)),
	},
	KindDecline: {
		subject: "Regarding Your Application",
		title:   "Application Update",
		text: texttemplate.Must(texttemplate.New("decline.txt").Parse(`Dear {{.Name}},

Thank you for the time and effort you invested in your application.
After careful consideration, we will not be moving forward at this time.

We encourage you to stay connected and consider applying again in the future.

Warm regards,
{{.Signature}}`)),
		body: htmltemplate.Must(htmltemplate.New("decline.html").Parse(`<p>Dear {{.Name}},</p>
<p>Thank you sincerely for the time and effort you invested in your application. After careful consideration, we will not be moving forward at this time.</p>
<p>Please know this decision does not diminish your potential. We encourage you to stay connected and consider applying again in the future as opportunities evolve.</p>
<p style="margin:16px 0;padding:12px;background:#fff3f3;border-left:4px solid #c62828;color:#7f1d1d">We appreciate your interest and wish you every success on your journey.</p>`)),
	},
}

// Renderer turns a decision into a Message.
type Renderer struct {
	opts RenderOptions
	now  func() time.Time
}

func NewRenderer(opts RenderOptions) *Renderer {
	if strings.TrimSpace(opts.Signature) == "" {
		opts.Signature = "Recruitment Team"
	}
	return &Renderer{opts: opts, now: time.Now}
}

// Render builds the message for kind addressed to to. name is untrusted user input.
func (r *Renderer) Render(kind Kind, to, name string) (Message, error) {
	tpl, ok := templates[kind]
	if !ok {
		return Message{}, fmt.Errorf("unknown notification kind %q", kind)
	}
	data := struct {
		Name      string
		Signature string
	}{Name: name, Signature: r.opts.Signature}

	msg := Message{Kind: kind, To: to, Subject: tpl.subject}

	if r.opts.SimpleMode {
		var buf bytes.Buffer
		if err := tpl.text.Execute(&buf, data); err != nil {
			return Message{}, fmt.Errorf("render %s text: %w", kind, err)
		}
		msg.Text = buf.String()
		return msg, nil
	}

	var body bytes.Buffer
	if err := tpl.body.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("render %s body: %w", kind, err)
	}

	footer := r.footerPath()
	var doc bytes.Buffer
	err := layout.Execute(&doc, map[string]any{
		"Title":     tpl.title,
		"Body":      htmltemplate.HTML(body.String()),
		"Signature": r.opts.Signature,
		"Footer":    footer != "",
		"Year":      r.now().Year(),
	})
	if err != nil {
		return Message{}, fmt.Errorf("render %s layout: %w", kind, err)
	}

	msg.HTML = doc.String()
	msg.Text = HTMLToText(msg.HTML)
	if footer != "" {
		msg.Inline = []InlineFile{{ContentID: FooterContentID, Path: footer}}
	}
	return msg, nil
}

// footerPath returns the footer image path when embedding is enabled and the file exists.
func (r *Renderer) footerPath() string {
	p := strings.TrimSpace(r.opts.FooterImage)
	if !r.opts.EmbedFooter || p == "" {
		return ""
	}
	if st, err := os.Stat(p); err != nil || st.IsDir() {
		return ""
	}
	return p
}

var reBlankLines = regexp.MustCompile(`\n{3,}`)

// HTMLToText derives a plain-text alternative from an HTML body.
func HTMLToText(s string) string {
	text := html2text.HTML2TextWithOptions(s, html2text.WithUnixLineBreaks())

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	text = reBlankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}
