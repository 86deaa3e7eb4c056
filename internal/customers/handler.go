package customers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sohaibsultan43/pos-software/internal/shared"
	"github.com/sohaibsultan43/pos-software/internal/view"
)

// Handler wires HTTP endpoints for the customers screen.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs customers handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf}
}

// MountRoutes registers customer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showList)
	r.Post("/", h.handleSubmit)
}

type customerForm struct {
	Name    string
	Contact string
}

type listPageData struct {
	Customers []Customer
	Form      customerForm
	EditID    int64
	Errors    map[string]string
}

func (h *Handler) showList(w http.ResponseWriter, r *http.Request) {
	data := listPageData{Errors: map[string]string{}}

	rows, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		data.Errors["general"] = shared.UserSafeMessage(err)
	}
	data.Customers = rows

	// ?edit=<id> switches the form into update mode, pre-filled from the row.
	if editStr := r.URL.Query().Get("edit"); editStr != "" {
		if id, err := strconv.ParseInt(editStr, 10, 64); err == nil {
			if row, err := h.service.Get(r.Context(), id); err == nil {
				data.EditID = row.ID
				data.Form.Name = row.Name
				if row.Contact != nil {
					data.Form.Contact = *row.Contact
				}
			} else if !errors.Is(err, shared.ErrNotFound) {
				h.logger.Error("load customer for edit", slog.Any("error", err))
				data.Errors["general"] = shared.UserSafeMessage(err)
			}
		}
	}

	h.render(w, r, data, http.StatusOK)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := customerForm{
		Name:    r.PostFormValue("name"),
		Contact: r.PostFormValue("contact"),
	}
	var editID int64
	if idStr := r.PostFormValue("id"); idStr != "" {
		editID, _ = strconv.ParseInt(idStr, 10, 64)
	}

	input := CustomerInput{Name: form.Name, Contact: form.Contact}
	var err error
	if editID != 0 {
		err = h.service.Update(r.Context(), editID, input)
	} else {
		_, err = h.service.Create(r.Context(), input)
	}

	if err != nil {
		errs := map[string]string{}
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNameRequired) {
			errs["Name"] = "Nama wajib diisi"
			status = http.StatusBadRequest
		} else {
			h.logger.Error("save customer", slog.Any("error", err), slog.Int64("edit_id", editID))
			errs["general"] = "Gagal menyimpan pelanggan"
		}

		data := listPageData{Form: form, EditID: editID, Errors: errs}
		if rows, listErr := h.service.List(r.Context()); listErr == nil {
			data.Customers = rows
		}
		h.render(w, r, data, status)
		return
	}

	message := "Pelanggan ditambahkan"
	if editID != 0 {
		message = "Pelanggan diperbarui"
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: message})
	}
	http.Redirect(w, r, "/customers", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data listPageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Pelanggan",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		LoggedIn:    true,
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, "pages/customers.html", viewData); err != nil {
		h.logger.Error("render customers", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
