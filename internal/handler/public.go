package handler

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lukavran/winelabel/internal/model"
	"github.com/lukavran/winelabel/internal/qr"
	"github.com/lukavran/winelabel/internal/repository"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// PublicHandler serves the unauthenticated label surface: the rendered label
// page, its JSON twin and the QR image proxy. Products are fetched by id
// alone here; labels are meant to be scanned by anyone.
type PublicHandler struct {
	Products *repository.ProductRepo
	QR       *qr.Client
	BaseURL  string // external base URL encoded into QR codes
	tmpl     *template.Template
}

// NewPublicHandler parses the embedded templates and wires the handler.
func NewPublicHandler(products *repository.ProductRepo, qrClient *qr.Client, baseURL string) *PublicHandler {
	if products == nil || qrClient == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{
		Products: products,
		QR:       qrClient,
		BaseURL:  baseURL,
		tmpl:     template.Must(template.ParseFS(templateFS, "templates/*.gohtml")),
	}
}

// labelView is the public projection of a product: everything a label shows,
// nothing about who owns it or when it was edited.
type labelView struct {
	ID              uint64 `json:"id"`
	Name            string `json:"name"`
	Brand           string `json:"brand"`
	NetVolume       string `json:"netVolume"`
	Vintage         string `json:"vintage"`
	WineType        string `json:"wineType"`
	SugarContent    string `json:"sugarContent"`
	Appellation     string `json:"appellation"`
	AlcoholContent  string `json:"alcoholContent"`
	PackagingGases  string `json:"packagingGases"`
	PortionSize     string `json:"portionSize"`
	Kcal            string `json:"kcal"`
	Kj              string `json:"kj"`
	Fat             string `json:"fat"`
	Carbohydrates   string `json:"carbohydrates"`
	Organic         bool   `json:"organic"`
	Vegetarian      bool   `json:"vegetarian"`
	Vegan           bool   `json:"vegan"`
	OperatorType    string `json:"operatorType"`
	OperatorName    string `json:"operatorName"`
	OperatorAddress string `json:"operatorAddress"`
	OperatorInfo    string `json:"operatorInfo"`
	CountryOfOrigin string `json:"countryOfOrigin"`
	Sku             string `json:"sku"`
	Ean             string `json:"ean"`
	ExternalLink    string `json:"externalLink"`
	RedirectLink    string `json:"redirectLink"`
	ImageURL        string `json:"imageUrl"`
}

func toLabelView(p *model.Product) labelView {
	return labelView{
		ID: p.ID, Name: p.Name, Brand: p.Brand, NetVolume: p.NetVolume,
		Vintage: p.Vintage, WineType: p.WineType, SugarContent: p.SugarContent,
		Appellation: p.Appellation, AlcoholContent: p.AlcoholContent,
		PackagingGases: p.PackagingGases, PortionSize: p.PortionSize,
		Kcal: p.Kcal, Kj: p.Kj, Fat: p.Fat, Carbohydrates: p.Carbohydrates,
		Organic: p.Organic, Vegetarian: p.Vegetarian, Vegan: p.Vegan,
		OperatorType: p.OperatorType, OperatorName: p.OperatorName,
		OperatorAddress: p.OperatorAddress, OperatorInfo: p.OperatorInfo,
		CountryOfOrigin: p.CountryOfOrigin, Sku: p.Sku, Ean: p.Ean,
		ExternalLink: p.ExternalLink, RedirectLink: p.RedirectLink,
		ImageURL: p.ImageURL,
	}
}

// render executes a named template into the response.
func (h *PublicHandler) render(c echo.Context, status int, name string, data any) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return h.tmpl.ExecuteTemplate(c.Response(), name, data)
}

// notFoundPage renders the generic not-found presentation. Invalid ids,
// missing rows and store failures all look the same out here.
func (h *PublicHandler) notFoundPage(c echo.Context) error {
	return h.render(c, http.StatusNotFound, "notfound.gohtml", nil)
}

// LabelPage handles GET /public/product/:id — the page behind the QR code.
func (h *PublicHandler) LabelPage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.notFoundPage(c)
	}
	p, err := h.Products.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.notFoundPage(c)
	}
	return h.render(c, http.StatusOK, "label.gohtml", toLabelView(p))
}

// GetProduct handles GET /api/public/products/:id, the JSON variant of the
// label page.
func (h *PublicHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.Products.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch product"})
	}
	return c.JSON(http.StatusOK, toLabelView(p))
}

// QRImage handles GET /public/product/:id/qr.png and proxies the external
// QR renderer so printed labels never embed the upstream service URL.
// ?size=N controls the square edge length, capped at 1000.
func (h *PublicHandler) QRImage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Products.GetByID(c.Request().Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch product"})
	}

	size := 200
	if s := c.QueryParam("size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 1000 {
			size = n
		}
	}
	labelURL := h.BaseURL + "/public/product/" + strconv.FormatUint(id, 10)
	img, contentType, err := h.QR.Fetch(c.Request().Context(), labelURL, size)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "qr renderer unavailable"})
	}
	return c.Blob(http.StatusOK, contentType, img)
}
