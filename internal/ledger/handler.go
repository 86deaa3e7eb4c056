package ledger

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sohaibsultan43/pos-software/internal/customers"
	"github.com/sohaibsultan43/pos-software/internal/shared"
	"github.com/sohaibsultan43/pos-software/internal/view"
)

// Handler wires HTTP endpoints for the ledger screen.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	customers *customers.Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs ledger handler.
func NewHandler(logger *slog.Logger, service *Service, customerSvc *customers.Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, customers: customerSvc, templates: templates, csrf: csrf}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showLedger)
	r.Post("/", h.handleRecord)
}

type entryForm struct {
	Type        string
	Amount      string
	Description string
}

type ledgerPageData struct {
	Customers  []customers.Ref
	CustomerID int64
	Entries    []Entry
	Balance    float64
	Form       entryForm
	Errors     map[string]string
}

// showLedger renders the customer picker; entries and the entry form
// appear only once a customer is selected.
func (h *Handler) showLedger(w http.ResponseWriter, r *http.Request) {
	data := ledgerPageData{Errors: map[string]string{}}

	refs, err := h.customers.ListRefs(r.Context())
	if err != nil {
		h.logger.Error("list customer refs", slog.Any("error", err))
		data.Errors["general"] = shared.UserSafeMessage(err)
	}
	data.Customers = refs

	if idStr := r.URL.Query().Get("customer_id"); idStr != "" {
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil && id > 0 {
			data.CustomerID = id
			// Switching customers replaces the list entirely.
			entries, err := h.service.ListByCustomer(r.Context(), id)
			if err != nil {
				h.logger.Error("list ledger entries", slog.Any("error", err), slog.Int64("customer_id", id))
				data.Errors["general"] = shared.UserSafeMessage(err)
			}
			data.Entries = entries
			data.Balance = Balance(entries)
		}
	}

	h.render(w, r, data, http.StatusOK)
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := entryForm{
		Type:        r.PostFormValue("type"),
		Amount:      r.PostFormValue("amount"),
		Description: r.PostFormValue("description"),
	}
	customerID, _ := strconv.ParseInt(r.PostFormValue("customer_id"), 10, 64)

	errs := map[string]string{}
	amount, err := strconv.ParseFloat(form.Amount, 64)
	if err != nil {
		errs["Amount"] = "Jumlah tidak valid"
	}

	if len(errs) == 0 {
		input := EntryInput{
			CustomerID:  customerID,
			Type:        EntryType(form.Type),
			Amount:      amount,
			Description: form.Description,
		}
		if _, err := h.service.Record(r.Context(), input); err != nil {
			switch {
			case errors.Is(err, ErrCustomerRequired):
				errs["CustomerID"] = "Pelanggan wajib dipilih"
			case errors.Is(err, ErrInvalidType):
				errs["Type"] = "Tipe entri tidak valid"
			case errors.Is(err, ErrInvalidAmount):
				errs["Amount"] = "Jumlah tidak boleh negatif"
			default:
				h.logger.Error("record ledger entry", slog.Any("error", err), slog.Int64("customer_id", customerID))
				errs["general"] = "Gagal menyimpan entri"
			}
		}
	}

	if len(errs) > 0 {
		data := ledgerPageData{CustomerID: customerID, Form: form, Errors: errs}
		if refs, listErr := h.customers.ListRefs(r.Context()); listErr == nil {
			data.Customers = refs
		}
		if customerID > 0 {
			if entries, listErr := h.service.ListByCustomer(r.Context(), customerID); listErr == nil {
				data.Entries = entries
				data.Balance = Balance(entries)
			}
		}
		h.render(w, r, data, http.StatusBadRequest)
		return
	}

	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Entri buku besar dicatat"})
	}
	http.Redirect(w, r, "/ledger?customer_id="+strconv.FormatInt(customerID, 10), http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data ledgerPageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Buku Besar",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		LoggedIn:    true,
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, "pages/ledger.html", viewData); err != nil {
		h.logger.Error("render ledger page", slog.Any("error", err))
	}
}
