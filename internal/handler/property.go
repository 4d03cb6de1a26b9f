package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/model"
	"github.com/iliyamo/property-rental/internal/repository"
)

// PropertyHandler exposes property listings.  Browsing, search and
// availability checks are public; mutations require the authenticated
// owner.
type PropertyHandler struct {
	Properties   *repository.PropertyRepo
	Reservations *repository.ReservationRepo
}

func NewPropertyHandler(properties *repository.PropertyRepo, reservations *repository.ReservationRepo) *PropertyHandler {
	if properties == nil || reservations == nil {
		panic("nil repository passed to NewPropertyHandler")
	}
	return &PropertyHandler{Properties: properties, Reservations: reservations}
}

type propertyReq struct {
	Title        string `json:"title"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Province     string `json:"province"`
	PostalCode   string `json:"postal_code"`
	Price        int64  `json:"price"`
	PropertyType string `json:"property_type"`
	NumBedrooms  int    `json:"num_bedrooms"`
	Sqft         int    `json:"sqft"`
	Amenities    string `json:"amenities"`
}

type propertyView struct {
	ID           uint64    `json:"id"`
	OwnerID      uint64    `json:"owner_id"`
	Title        string    `json:"title"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Province     string    `json:"province"`
	PostalCode   string    `json:"postal_code"`
	Price        int64     `json:"price"`
	PropertyType string    `json:"property_type"`
	NumBedrooms  int       `json:"num_bedrooms"`
	Sqft         int       `json:"sqft"`
	Amenities    string    `json:"amenities"`
	Rating       float64   `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toPropertyView(p model.Property) propertyView {
	return propertyView{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		Title:        p.Title,
		Address:      p.Address,
		City:         p.City,
		Province:     p.Province,
		PostalCode:   p.PostalCode,
		Price:        p.Price,
		PropertyType: p.PropertyType,
		NumBedrooms:  p.NumBedrooms,
		Sqft:         p.Sqft,
		Amenities:    p.Amenities,
		Rating:       p.Rating,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (r propertyReq) validate() string {
	if strings.TrimSpace(r.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(r.City) == "" {
		return "city is required"
	}
	if r.Price <= 0 {
		return "price must be positive"
	}
	return ""
}

// Create handles POST /v1/properties.
func (h *PropertyHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	p := model.Property{
		OwnerID:      userID,
		Title:        req.Title,
		Address:      req.Address,
		City:         req.City,
		Province:     req.Province,
		PostalCode:   req.PostalCode,
		Price:        req.Price,
		PropertyType: req.PropertyType,
		NumBedrooms:  req.NumBedrooms,
		Sqft:         req.Sqft,
		Amenities:    req.Amenities,
	}
	if err := h.Properties.Create(c.Request().Context(), &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create property failed"})
	}
	return c.JSON(http.StatusCreated, toPropertyView(p))
}

// Update handles PUT /v1/properties/:id (owner only).
func (h *PropertyHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	existing, err := h.Properties.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if existing.OwnerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	p := model.Property{
		ID:           id,
		OwnerID:      existing.OwnerID,
		Title:        req.Title,
		Address:      req.Address,
		City:         req.City,
		Province:     req.Province,
		PostalCode:   req.PostalCode,
		Price:        req.Price,
		PropertyType: req.PropertyType,
		NumBedrooms:  req.NumBedrooms,
		Sqft:         req.Sqft,
		Amenities:    req.Amenities,
	}
	if err := h.Properties.Update(ctx, &p); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toPropertyView(p))
}

// Delete handles DELETE /v1/properties/:id (owner only).
func (h *PropertyHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}

	ctx := c.Request().Context()
	owner, err := h.Properties.OwnerOf(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if owner != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Properties.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/properties/:id (public).
func (h *PropertyHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}
	p, err := h.Properties.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toPropertyView(*p))
}

// ListMine handles GET /v1/properties/mine.
func (h *PropertyHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Properties.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	views := make([]propertyView, 0, len(list))
	for _, p := range list {
		views = append(views, toPropertyView(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"properties": views})
}

// Availability handles GET /v1/properties/:id/availability (public).
// Reports whether the inclusive check_in..check_out window is free of
// pending and approved reservations.
func (h *PropertyHandler) Availability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}
	in, err := parseDate(c.QueryParam("check_in"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in, want YYYY-MM-DD"})
	}
	out, err := parseDate(c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out, want YYYY-MM-DD"})
	}
	if out.Before(in) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out precedes check_in"})
	}

	ctx := c.Request().Context()
	ok, err := h.Properties.Exists(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
	}
	conflict, err := h.Reservations.HasConflict(ctx, id, in, out, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"property_id": id, "available": !conflict})
}

// Search handles GET /v1/properties (public).  Filters: city, province,
// type, price_min, price_max; check_in/check_out exclude properties with
// an active reservation overlapping the window; sort is price_asc,
// price_desc or rating (default).
func (h *PropertyHandler) Search(c echo.Context) error {
	q := repository.PropertySearchQuery{
		City:         c.QueryParam("city"),
		Province:     c.QueryParam("province"),
		PropertyType: c.QueryParam("type"),
		Sort:         c.QueryParam("sort"),
		Page:         1,
		PageSize:     20,
	}
	if v := c.QueryParam("price_min"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			q.PriceMin = n
		}
	}
	if v := c.QueryParam("price_max"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			q.PriceMax = n
		}
	}
	checkIn, checkOut := c.QueryParam("check_in"), c.QueryParam("check_out")
	if (checkIn == "") != (checkOut == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in and check_out must be given together"})
	}
	if checkIn != "" {
		in, err := parseDate(checkIn)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in, want YYYY-MM-DD"})
		}
		out, err := parseDate(checkOut)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out, want YYYY-MM-DD"})
		}
		if out.Before(in) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out precedes check_in"})
		}
		q.CheckIn, q.CheckOut = in, out
	}
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.Page = n
		}
	}
	if v := c.QueryParam("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			q.PageSize = n
		}
	}

	list, total, err := h.Properties.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	views := make([]propertyView, 0, len(list))
	for _, p := range list {
		views = append(views, toPropertyView(p))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"properties": views,
		"total":      total,
		"page":       q.Page,
		"page_size":  q.PageSize,
	})
}
