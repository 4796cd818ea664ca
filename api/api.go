package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	raven "github.com/getsentry/raven-go"

	"github.com/gatekeeper-page/newsletter-backend/db"
	"github.com/gatekeeper-page/newsletter-backend/models"
)

////////////////////////////////
//  *****   REST API   *****  //
////////////////////////////////

// Error codes reported in failure bodies.
const (
	errNoEmail           = "NO_EMAIL_PROVIDED"
	errAlreadySubscribed = "ALREADY_SUBSCRIBED"
	errInvalidCode       = "INVALID_CODE"
	errDeliveryFailed    = "DELIVERY_FAILED"
	errInternal          = "INTERNAL_ERROR"
	errMethodNotAllowed  = "METHOD_NOT_ALLOWED"
)

// API is the HTTP API that this service provides. All requests respond
// with a JSON body of the form
// {
//     success // Whether the operation succeeded.
//     error   // Error code accompanying a failure. Omitted on success.
// }
// except for a successful confirmation, which redirects to the
// configured success page.
type API struct {
	Database db.Database
	Emailer  EmailSender
	Signer   *models.Signer
	// RedirectURL is where a subscriber lands after confirming.
	RedirectURL string
}

// EmailSender interface wraps the transactional-email provider.
type EmailSender interface {
	// SendConfirmation sends a double opt-in confirmation e-mail
	// with the given confirm link.
	SendConfirmation(address string, confirmLink string) error
	// UpsertContact adds an address to the configured contact list.
	UpsertContact(address string) error
}

type response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	statusCode int
	redirect   string
	err        error // underlying failure, for logs and sentry
}

type apiHandler func(r *http.Request) response

func (api *API) wrapper(handler apiHandler) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		response := handler(r)
		if response.statusCode == http.StatusInternalServerError {
			log.Print(response.err)
			packet := raven.NewPacket(response.err.Error(), raven.NewHttp(r))
			raven.Capture(packet, nil)
		}
		if response.redirect != "" {
			http.Redirect(w, r, response.redirect, response.statusCode)
			return
		}
		writeJSON(w, response)
	}
}

func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, "Not found")
}

// RegisterHandlers binds API functions to the given http server,
// and returns the resulting handler.
func (api *API) RegisterHandlers(mux *http.ServeMux) http.Handler {
	mux.HandleFunc("/subscribe", api.wrapper(api.subscribe))
	mux.HandleFunc("/confirm", api.wrapper(api.confirm))
	mux.HandleFunc("/ping", pingHandler)
	mux.HandleFunc("/", notFoundHandler)
	return middleware(mux)
}

// Subscribe is the handler for /subscribe.
//   GET /subscribe?email=<email>
//        email: Address to start the double opt-in for, exactly as
//        given -- addresses are case-sensitive keys here.
// Signs a confirmation code, mails the confirm link and records the
// subscriber as not_confirmed.
func (api API) subscribe(r *http.Request) response {
	if r.Method != http.MethodGet {
		return response{statusCode: http.StatusMethodNotAllowed, Error: errMethodNotAllowed}
	}
	// Deliberately not getParam: the address must not be lower-cased.
	email := r.FormValue("email")
	err := models.RequestSubscription(email, r.Host, api.Database, api.Emailer, api.Signer)
	switch err := err.(type) {
	case nil:
		return response{statusCode: http.StatusOK, Success: true}
	case models.DeliveryError:
		return response{statusCode: http.StatusInternalServerError, Error: errDeliveryFailed, err: err}
	default:
		switch err {
		case models.ErrNoEmail:
			return response{statusCode: http.StatusBadRequest, Error: errNoEmail}
		case models.ErrAlreadySubscribed:
			// The original reported this conflict with a 200; the body
			// carries the failure.
			return response{statusCode: http.StatusOK, Error: errAlreadySubscribed}
		default:
			return response{statusCode: http.StatusInternalServerError, Error: errInternal, err: err}
		}
	}
}

// Confirm is the handler for /confirm.
//   GET /confirm?email=<email>&code=<code>
//        email: Address from the confirmation link.
//        code:  Signed confirmation code from the link.
// On a valid code, upserts the provider contact, marks the subscriber
// confirmed and redirects to the success page. Missing or malformed
// parameters verify as an invalid code.
func (api API) confirm(r *http.Request) response {
	if r.Method != http.MethodGet {
		return response{statusCode: http.StatusMethodNotAllowed, Error: errMethodNotAllowed}
	}
	email := r.FormValue("email")
	code := r.FormValue("code")
	err := models.ConfirmSubscription(email, code, api.Database, api.Emailer, api.Signer)
	switch err := err.(type) {
	case nil:
		return response{statusCode: http.StatusTemporaryRedirect, redirect: api.RedirectURL}
	case models.DeliveryError:
		return response{statusCode: http.StatusInternalServerError, Error: errDeliveryFailed, err: err}
	default:
		if err == models.ErrInvalidCode {
			return response{statusCode: http.StatusOK, Error: errInvalidCode}
		}
		return response{statusCode: http.StatusInternalServerError, Error: errInternal, err: err}
	}
}

// Writes the response as a compact JSON object to http.ResponseWriter
// `w`. If an error occurs, writes `http.StatusInternalServerError` to
// `w`.
func writeJSON(w http.ResponseWriter, apiResponse response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	b, err := json.Marshal(apiResponse)
	if err != nil {
		msg := fmt.Sprintf("Internal error: could not format JSON. (%s)\n", err)
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(apiResponse.statusCode)
	fmt.Fprintf(w, "%s\n", b)
}
