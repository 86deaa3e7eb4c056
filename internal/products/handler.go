package products

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sohaibsultan43/pos-software/internal/shared"
	"github.com/sohaibsultan43/pos-software/internal/view"
)

// Handler wires HTTP endpoints for the products screen.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs products handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf}
}

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showList)
	r.Post("/", h.handleSubmit)
}

type productForm struct {
	Name        string
	Description string
	Price       string
	Stock       string
}

type listPageData struct {
	Products []Product
	Form     productForm
	EditID   int64
	Errors   map[string]string
}

func (h *Handler) showList(w http.ResponseWriter, r *http.Request) {
	data := listPageData{Errors: map[string]string{}}

	rows, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		data.Errors["general"] = shared.UserSafeMessage(err)
	}
	data.Products = rows

	if editStr := r.URL.Query().Get("edit"); editStr != "" {
		if id, err := strconv.ParseInt(editStr, 10, 64); err == nil {
			if row, err := h.service.Get(r.Context(), id); err == nil {
				data.EditID = row.ID
				data.Form.Name = row.Name
				if row.Description != nil {
					data.Form.Description = *row.Description
				}
				data.Form.Price = strconv.FormatFloat(row.Price, 'f', 2, 64)
				data.Form.Stock = strconv.Itoa(row.Stock)
			} else if !errors.Is(err, shared.ErrNotFound) {
				h.logger.Error("load product for edit", slog.Any("error", err))
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

	form := productForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		Price:       r.PostFormValue("price"),
		Stock:       r.PostFormValue("stock"),
	}
	var editID int64
	if idStr := r.PostFormValue("id"); idStr != "" {
		editID, _ = strconv.ParseInt(idStr, 10, 64)
	}

	errs := map[string]string{}
	price, err := strconv.ParseFloat(form.Price, 64)
	if err != nil {
		errs["Price"] = "Harga tidak valid"
	}
	stock, err := strconv.Atoi(form.Stock)
	if err != nil {
		errs["Stock"] = "Stok tidak valid"
	}

	if len(errs) == 0 {
		input := ProductInput{Name: form.Name, Description: form.Description, Price: price, Stock: stock}
		var err error
		if editID != 0 {
			err = h.service.Update(r.Context(), editID, input)
		} else {
			_, err = h.service.Create(r.Context(), input)
		}
		switch {
		case err == nil:
			message := "Produk ditambahkan"
			if editID != 0 {
				message = "Produk diperbarui"
			}
			if sess := shared.SessionFromContext(r.Context()); sess != nil {
				sess.AddFlash(shared.FlashMessage{Kind: "success", Message: message})
			}
			http.Redirect(w, r, "/products", http.StatusSeeOther)
			return
		case errors.Is(err, ErrNameRequired):
			errs["Name"] = "Nama wajib diisi"
		case errors.Is(err, ErrInvalidPrice):
			errs["Price"] = "Harga tidak boleh negatif"
		case errors.Is(err, ErrInvalidStock):
			errs["Stock"] = "Stok tidak boleh negatif"
		default:
			h.logger.Error("save product", slog.Any("error", err), slog.Int64("edit_id", editID))
			errs["general"] = "Gagal menyimpan produk"
		}
	}

	status := http.StatusBadRequest
	if errs["general"] != "" {
		status = http.StatusInternalServerError
	}
	data := listPageData{Form: form, EditID: editID, Errors: errs}
	if rows, listErr := h.service.List(r.Context()); listErr == nil {
		data.Products = rows
	}
	h.render(w, r, data, status)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data listPageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Produk",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		LoggedIn:    true,
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, "pages/products.html", viewData); err != nil {
		h.logger.Error("render products", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
