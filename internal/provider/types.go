package provider

import (
	"encoding/json"

	"github.com/burnbox/burnbox/internal/model"
)

// Provider API function names, selected with the "f" query parameter.
const (
	fnCreateMailbox = "get_email_address"
	fnListMessages  = "get_email_list"
	fnFetchMessage  = "fetch_email"
	fnRenameMailbox = "set_email_user"
	fnForgetMailbox = "forget_me"
)

// addressResponse is the payload of get_email_address.
type addressResponse struct {
	EmailAddr      string      `json:"email_addr"`
	SidToken       string      `json:"sid_token"`
	EmailTimestamp json.Number `json:"email_timestamp"`
}

// listResponse is the payload of get_email_list.
type listResponse struct {
	List []wireMessage `json:"list"`
}

// wireMessage is one message as the provider serializes it. Numeric
// fields arrive as either numbers or quoted strings depending on the
// provider version, so they are decoded through json.Number.
type wireMessage struct {
	MailID        string      `json:"mail_id"`
	MailFrom      string      `json:"mail_from"`
	MailSubject   string      `json:"mail_subject"`
	MailExcerpt   string      `json:"mail_excerpt"`
	MailTimestamp json.Number `json:"mail_timestamp"`
	MailRead      json.Number `json:"mail_read"`
	MailBody      string      `json:"mail_body"`
}

// toMessage converts a wire message to the domain summary type.
func (w wireMessage) toMessage() model.Message {
	ts, _ := w.MailTimestamp.Int64()
	read, _ := w.MailRead.Int64()
	return model.Message{
		ID:         w.MailID,
		From:       w.MailFrom,
		Subject:    w.MailSubject,
		Excerpt:    w.MailExcerpt,
		ReceivedAt: ts,
		Read:       read != 0,
	}
}

// toDetail converts a wire message to the domain detail type.
func (w wireMessage) toDetail() model.MessageDetail {
	return model.MessageDetail{
		Message: w.toMessage(),
		Body:    w.MailBody,
	}
}
