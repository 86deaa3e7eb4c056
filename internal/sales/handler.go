package sales

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/sohaibsultan43/pos-software/internal/customers"
	"github.com/sohaibsultan43/pos-software/internal/observability"
	"github.com/sohaibsultan43/pos-software/internal/products"
	"github.com/sohaibsultan43/pos-software/internal/shared"
	"github.com/sohaibsultan43/pos-software/internal/view"
)

// Handler wires HTTP endpoints for the sales screen.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	customers *customers.Service
	products  *products.Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	metrics   *observability.Metrics
}

// NewHandler constructs sales handler.
func NewHandler(logger *slog.Logger, service *Service, customerSvc *customers.Service, productSvc *products.Service, templates *view.Engine, csrf *shared.CSRFManager, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		customers: customerSvc,
		products:  productSvc,
		templates: templates,
		csrf:      csrf,
		metrics:   metrics,
	}
}

// MountRoutes registers sales routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showList)
	r.Post("/", h.handleRecord)
}

type saleForm struct {
	CustomerID string
	ProductID  string
	Quantity   string
}

type listPageData struct {
	Sales     []Sale
	Customers []customers.Ref
	Products  []products.Product
	Form      saleForm
	Errors    map[string]string
}

// fetchPageData loads the three lists the page needs in parallel.
func (h *Handler) fetchPageData(r *http.Request, data *listPageData) {
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		rows, err := h.service.List(ctx)
		if err != nil {
			return err
		}
		data.Sales = rows
		return nil
	})
	g.Go(func() error {
		refs, err := h.customers.ListRefs(ctx)
		if err != nil {
			return err
		}
		data.Customers = refs
		return nil
	})
	g.Go(func() error {
		rows, err := h.products.List(ctx)
		if err != nil {
			return err
		}
		data.Products = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("load sales page", slog.Any("error", err))
		data.Errors["general"] = shared.UserSafeMessage(err)
	}
}

func (h *Handler) showList(w http.ResponseWriter, r *http.Request) {
	data := listPageData{Form: saleForm{Quantity: "1"}, Errors: map[string]string{}}
	h.fetchPageData(r, &data)
	h.render(w, r, data, http.StatusOK)
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := saleForm{
		CustomerID: r.PostFormValue("customer_id"),
		ProductID:  r.PostFormValue("product_id"),
		Quantity:   r.PostFormValue("quantity"),
	}
	customerID, _ := strconv.ParseInt(form.CustomerID, 10, 64)
	productID, _ := strconv.ParseInt(form.ProductID, 10, 64)
	quantity, _ := strconv.Atoi(form.Quantity)

	sale, err := h.service.RecordSale(r.Context(), RecordSaleInput{
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   quantity,
	})
	if err != nil {
		errs := map[string]string{}
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, ErrCustomerRequired):
			errs["CustomerID"] = "Pelanggan wajib dipilih"
		case errors.Is(err, ErrInvalidQuantity):
			errs["Quantity"] = "Jumlah minimal 1"
		case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrInsufficientStock):
			errs["general"] = "Stok tidak cukup atau produk tidak valid"
		default:
			h.logger.Error("record sale", slog.Any("error", err))
			errs["general"] = "Gagal mencatat penjualan"
			status = http.StatusInternalServerError
		}

		data := listPageData{Form: form, Errors: errs}
		h.fetchPageData(r, &data)
		h.render(w, r, data, status)
		return
	}

	h.metrics.IncSaleRecorded()
	h.logger.Info("sale recorded",
		slog.Int64("sale_id", sale.ID),
		slog.String("product", sale.Product),
		slog.Int("quantity", sale.Quantity))
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Penjualan dicatat"})
	}
	http.Redirect(w, r, "/sales", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data listPageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Penjualan",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		LoggedIn:    true,
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, "pages/sales.html", viewData); err != nil {
		h.logger.Error("render sales", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
