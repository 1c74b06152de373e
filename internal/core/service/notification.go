package service

import (
	"bytes"
	"html/template"
	"time"

	"github.com/yuin/goldmark"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
)

var newTicketTmpl = template.Must(template.New("new_ticket").Parse(`<div style="font-family: Arial, sans-serif; color: #333; max-width: 600px;">
  <h2 style="color: #0F52BA;">Olá, {{.Assignee}}!</h2>
  <p>Um novo chamado foi atribuído a você por <strong>{{.Requester}}</strong>.</p>
  <div style="background: #f8f9fa; padding: 15px; border-left: 4px solid #F4B400; margin: 20px 0;">
    <p style="margin: 5px 0;"><strong>Assunto:</strong> {{.Title}}</p>
    <p style="margin: 5px 0;"><strong>Prioridade:</strong> {{.Priority}}</p>
    <div style="margin: 5px 0;"><strong>Descrição:</strong>{{.Description}}</div>
  </div>
  <p>Acesse o <a href="{{.AppURL}}" style="color: #0F52BA; font-weight: bold;">Delta Help Desk</a> para responder.</p>
</div>`))

var recoveryTmpl = template.Must(template.New("recovery").Parse(`<div style="font-family: Arial, sans-serif; color: #333; max-width: 600px;">
  <h2 style="color: #0F52BA;">Redefinição de senha</h2>
  <p>Recebemos um pedido para redefinir sua senha no Delta Help Desk.</p>
  <p><a href="{{.}}" style="color: #0F52BA; font-weight: bold;">Clique aqui para escolher uma nova senha</a>.</p>
  <p>Se você não fez este pedido, ignore este e-mail.</p>
</div>`))

// markdown renders ticket descriptions. Raw HTML in the source is dropped.
var markdown = goldmark.New()

// NewTicketNotification builds the assignee notification for a freshly
// created ticket.
func NewTicketNotification(ticketID string, draft domain.NewTicket, requester, assignee *domain.User, appURL string) (domain.Notification, error) {
	var desc bytes.Buffer
	if err := markdown.Convert([]byte(draft.Description), &desc); err != nil {
		return domain.Notification{}, err
	}

	var body bytes.Buffer
	err := newTicketTmpl.Execute(&body, struct {
		Assignee, Requester, Title, Priority, AppURL string
		Description                                   template.HTML
	}{
		Assignee:    assignee.Name,
		Requester:   requester.Name,
		Title:       draft.Title,
		Priority:    string(draft.Priority),
		AppURL:      appURL,
		Description: template.HTML(desc.String()),
	})
	if err != nil {
		return domain.Notification{}, err
	}

	return domain.Notification{
		Key:      "ticket:" + ticketID + ":" + assignee.Email,
		TicketID: ticketID,
		Email: domain.Email{
			To:      assignee.Email,
			Subject: domain.NewTicketSubjectPrefix + draft.Title,
			HTML:    body.String(),
		},
		QueuedAt: time.Now().UTC(),
	}, nil
}

// RenderRecoveryEmail returns the HTML body of a password recovery email.
func RenderRecoveryEmail(link string) string {
	var body bytes.Buffer
	if err := recoveryTmpl.Execute(&body, link); err != nil {
		return link
	}
	return body.String()
}
