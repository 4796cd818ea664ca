package email

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
	"github.com/mailjet/mailjet-apiv3-go/resources"

	"github.com/gatekeeper-page/newsletter-backend/util"
)

// Config stores the variables needed to talk to the transactional-email
// provider: credentials, the sender identity, the confirmation-email
// template and the contact list to upsert confirmed subscribers into.
type Config struct {
	client     *mailjet.Client
	sender     string
	templateID int64
	listID     int64
}

// MakeConfigFromEnv initializes our email config object with
// environment variables.
func MakeConfigFromEnv() (Config, error) {
	varErrs := util.Errors{}
	publicKey := util.RequireEnv("MAILJET_API_KEY", &varErrs)
	privateKey := util.RequireEnv("MAILJET_SECRET_KEY", &varErrs)
	c := Config{
		sender:     util.RequireEnv("EMAIL_FROM_ADDRESS", &varErrs),
		templateID: requireIntEnv("EMAIL_TEMPLATE_ID", &varErrs),
		listID:     requireIntEnv("CONTACT_LIST_ID", &varErrs),
	}
	if len(varErrs) > 0 {
		return c, varErrs
	}
	c.client = mailjet.NewMailjetClient(publicKey, privateKey)
	return c, nil
}

func requireIntEnv(varName string, varErrs *util.Errors) int64 {
	envVar := util.RequireEnv(varName, varErrs)
	if envVar == "" {
		return 0
	}
	n, err := strconv.ParseInt(envVar, 10, 64)
	if err != nil {
		varErrs.Add(fmt.Errorf("environment variable %s must be numeric: %v", varName, err))
	}
	return n
}

// SendConfirmation sends the double opt-in confirmation email to
// address, with confirmLink filled into the template. The recipient
// address is used exactly as received.
func (c Config) SendConfirmation(address string, confirmLink string) error {
	if c.client == nil {
		log.Println("Warning: email provider not configured, not sending email")
		log.Printf("To: %s Link: %s", address, confirmLink)
		return nil
	}
	messages := mailjet.MessagesV31{
		Info: []mailjet.InfoMessagesV31{{
			From: &mailjet.RecipientV31{Email: c.sender},
			To: &mailjet.RecipientsV31{
				mailjet.RecipientV31{Email: address},
			},
			TemplateID:       c.templateID,
			TemplateLanguage: true,
			Variables: map[string]interface{}{
				"confirm_link": confirmLink,
			},
		}},
	}
	if _, err := c.client.SendMailV31(&messages); err != nil {
		return fmt.Errorf("could not send confirmation mail: %v", err)
	}
	return nil
}

// UpsertContact adds address to the configured contact list. This is
// the one place the address is lower-cased: the provider keys its
// contacts case-insensitively.
func (c Config) UpsertContact(address string) error {
	if c.client == nil {
		log.Println("Warning: email provider not configured, not upserting contact")
		return nil
	}
	request := &mailjet.FullRequest{
		Info: &mailjet.Request{
			Resource: "contactslist",
			ID:       c.listID,
			Action:   "managecontact",
		},
		Payload: resources.ContactslistManageContact{
			Email:  strings.ToLower(address),
			Action: "addnoforce",
		},
	}
	var res []resources.ContactslistManageContact
	if err := c.client.Post(request, &res); err != nil {
		return fmt.Errorf("could not upsert contact: %v", err)
	}
	return nil
}
