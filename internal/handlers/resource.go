package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"kindergarten/internal/listing"
	"kindergarten/internal/models"
	"kindergarten/internal/service"
	"kindergarten/internal/validation"
)

// entityService is the CRUD and listing surface a resource drives
type entityService[T models.Entity] interface {
	Kind() *listing.Kind
	List(ctx context.Context, page int, sort listing.SortKey, filter listing.Filter) (*listing.Bundle[T], error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, entity *T) (int64, error)
	Update(ctx context.Context, routeID int64, entity *T) error
	Delete(ctx context.Context, id int64) error
}

// filterStore keeps list filters per session
type filterStore interface {
	Resolve(ctx context.Context, sessionID string, kind *listing.Kind) (listing.Filter, error)
	Set(ctx context.Context, sessionID string, kind *listing.Kind, f listing.Filter) error
	Clear(ctx context.Context, sessionID string, kind *listing.Kind) error
}

// Column is one list column; Sort names the sort column, empty when not sortable
type Column[T any] struct {
	Label string
	Sort  string
	Value func(T) string
}

// FieldSpec describes one form input; Options names the select option set
type FieldSpec struct {
	Name     string
	Label    string
	Type     string
	Required bool
	Options  string
}

// Entity is the presentation definition of one entity type
type Entity[T models.Entity] struct {
	Path     string
	Title    string
	Singular string
	Columns  []Column[T]
	// Details are shown on the detail page after the list columns
	Details []Column[T]
	Fields  []FieldSpec
	Values  func(T) map[string]string
	// Bind always returns an entity, together with any parse errors
	Bind     func(form url.Values) (*T, validation.Errors)
	Options  func(ctx context.Context) (map[string][]SelectOption, error)
	Describe func(T) string
}

// Layout carries what every authenticated page needs
type Layout struct {
	Renderer   Renderer
	Middleware *Middleware
	Menu       []MenuItem
	Logger     *zap.Logger
}

func (l *Layout) page(r *http.Request, title, path string) PageData {
	user := GetUserFromContext(r.Context())
	menu := make([]MenuItem, 0, len(l.Menu))
	for _, item := range l.Menu {
		if item.AdminOnly && (user == nil || !user.IsAdmin()) {
			continue
		}
		item.Active = item.Path == path
		menu = append(menu, item)
	}
	return PageData{
		Title:     title + " - " + appName,
		User:      user,
		CSRFToken: l.Middleware.CSRFToken(r),
		Menu:      menu,
	}
}

// Resource serves list, detail, create, edit and delete pages for one entity type
type Resource[T models.Entity] struct {
	def     Entity[T]
	svc     entityService[T]
	filters filterStore
	layout  *Layout
	logger  *zap.Logger
}

// NewResource creates the handlers for one entity type
func NewResource[T models.Entity](def Entity[T], svc entityService[T], filters filterStore, layout *Layout) *Resource[T] {
	return &Resource[T]{
		def:     def,
		svc:     svc,
		filters: filters,
		layout:  layout,
		logger:  layout.Logger.With(zap.String("kind", svc.Kind().Name)),
	}
}

// Register mounts the resource routes; every route requires one of roles
func (h *Resource[T]) Register(mux *http.ServeMux, roles ...string) {
	p := h.def.Path
	protect := func(fn http.HandlerFunc) http.HandlerFunc {
		return h.layout.Middleware.Protect(fn, roles...)
	}

	mux.HandleFunc("GET "+p, protect(h.List))
	mux.HandleFunc("POST "+p+"/filter", protect(h.Filter))
	mux.HandleFunc("POST "+p+"/filter/reset", protect(h.ResetFilter))
	mux.HandleFunc("GET "+p+"/new", protect(h.New))
	mux.HandleFunc("POST "+p+"/new", protect(h.Create))
	mux.HandleFunc("GET "+p+"/{id}", protect(h.Detail))
	mux.HandleFunc("GET "+p+"/{id}/edit", protect(h.Edit))
	mux.HandleFunc("POST "+p+"/{id}/edit", protect(h.Update))
	mux.HandleFunc("GET "+p+"/{id}/delete", protect(h.ConfirmDelete))
	mux.HandleFunc("POST "+p+"/{id}/delete", protect(h.Delete))
}

// List renders one page of the filtered, sorted list
func (h *Resource[T]) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind := h.svc.Kind()

	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		page = v
	}
	sort := listing.SortKey(r.URL.Query().Get("sort"))
	if !kind.Sorts.Known(sort) {
		sort = listing.NoSort
	}

	filter, err := h.filters.Resolve(ctx, sessionIDFromContext(ctx), kind)
	if err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "failed to load list filter", err)
		return
	}

	bundle, err := h.svc.List(ctx, page, sort, filter)
	if err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "failed to list "+kind.Name, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, h.logger, bundle)
		return
	}

	data := ListViewData{
		PageData: h.layout.page(r, h.def.Title, h.def.Path),
		Path:     h.def.Path,
		Page:     bundle.Page,
		SortKey:  bundle.SortKey,
	}
	for _, col := range h.def.Columns {
		header := ListHeader{Label: col.Label}
		if col.Sort != "" {
			header.Sortable = true
			header.NextSort = bundle.Sort[col.Sort]
			header.Desc = bundle.SortKey == listing.DescKey(col.Sort)
			header.Active = header.Desc || bundle.SortKey == listing.AscKey(col.Sort)
		}
		data.Headers = append(data.Headers, header)
	}
	for _, row := range bundle.Rows {
		data.Rows = append(data.Rows, ListRow{ID: row.GetID(), Cells: cells(h.def.Columns, row)})
	}
	for _, field := range kind.Filters {
		data.Filters = append(data.Filters, FilterInput{Name: field.Name, Label: field.Label, Value: bundle.Filter[field.Name]})
	}

	render(w, h.layout.Renderer, h.logger, http.StatusOK, "list.tmpl", data)
}

// Filter replaces the stored filter and returns to the submitted page
func (h *Resource[T]) Filter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	kind := h.svc.Kind()

	filter := listing.Filter{}
	for _, field := range kind.Filters {
		filter[field.Name] = r.PostFormValue(field.Name)
	}
	if err := h.filters.Set(ctx, sessionIDFromContext(ctx), kind, kind.Normalize(filter)); err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "failed to store list filter", err)
		return
	}

	http.Redirect(w, r, h.listTarget(r), http.StatusSeeOther)
}

// ResetFilter forgets the stored filter; the next list view starts from the default
func (h *Resource[T]) ResetFilter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	if err := h.filters.Clear(ctx, sessionIDFromContext(ctx), h.svc.Kind()); err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "failed to clear list filter", err)
		return
	}
	http.Redirect(w, r, h.listTarget(r), http.StatusSeeOther)
}

// listTarget is the list URL with the page and sort submitted alongside a filter form
func (h *Resource[T]) listTarget(r *http.Request) string {
	q := url.Values{}
	if page := r.PostFormValue("page"); page != "" {
		q.Set("page", page)
	}
	if sort := r.PostFormValue("sort"); sort != "" {
		q.Set("sort", sort)
	}
	if len(q) == 0 {
		return h.def.Path
	}
	return h.def.Path + "?" + q.Encode()
}

// Detail renders one record with its related records
func (h *Resource[T]) Detail(w http.ResponseWriter, r *http.Request) {
	entity, ok := h.load(w, r)
	if !ok {
		return
	}
	if wantsJSON(r) {
		writeJSON(w, h.logger, entity)
		return
	}

	data := DetailViewData{
		PageData: h.layout.page(r, h.def.Singular, h.def.Path),
		Path:     h.def.Path,
		ID:       (*entity).GetID(),
	}
	for _, col := range append(append([]Column[T]{}, h.def.Columns...), h.def.Details...) {
		data.Rows = append(data.Rows, DetailRow{Label: col.Label, Value: col.Value(*entity)})
	}
	render(w, h.layout.Renderer, h.logger, http.StatusOK, "detail.tmpl", data)
}

// New renders an empty create form
func (h *Resource[T]) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, 0, map[string]string{}, nil)
}

// Create stores a submitted record
func (h *Resource[T]) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	entity, errs := h.def.Bind(r.PostForm)
	if len(errs) > 0 {
		h.renderForm(w, r, http.StatusUnprocessableEntity, 0, h.submitted(r), errs)
		return
	}

	id, err := h.svc.Create(r.Context(), entity)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			h.renderForm(w, r, http.StatusUnprocessableEntity, 0, h.submitted(r), verrs)
			return
		}
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "failed to create "+h.def.Singular, err)
		return
	}

	h.logger.Info("record created", zap.Int64("id", id))
	http.Redirect(w, r, h.def.Path, http.StatusSeeOther)
}

// Edit renders the edit form filled from storage
func (h *Resource[T]) Edit(w http.ResponseWriter, r *http.Request) {
	entity, ok := h.load(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, http.StatusOK, (*entity).GetID(), h.def.Values(*entity), nil)
}

// Update saves a submitted record. The submitted id must match the route id.
func (h *Resource[T]) Update(w http.ResponseWriter, r *http.Request) {
	routeID, ok := h.routeID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	entity, errs := h.def.Bind(r.PostForm)
	if (*entity).GetID() != routeID {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}
	if len(errs) > 0 {
		h.renderForm(w, r, http.StatusUnprocessableEntity, routeID, h.submitted(r), errs)
		return
	}

	if err := h.svc.Update(r.Context(), routeID, entity); err != nil {
		var verrs validation.Errors
		switch {
		case errors.Is(err, service.ErrNotFound):
			http.Error(w, ErrNotFound, http.StatusNotFound)
		case errors.As(err, &verrs):
			h.renderForm(w, r, http.StatusUnprocessableEntity, routeID, h.submitted(r), verrs)
		default:
			respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "failed to update "+h.def.Singular, err)
		}
		return
	}

	h.logger.Info("record updated", zap.Int64("id", routeID))
	http.Redirect(w, r, h.def.Path, http.StatusSeeOther)
}

// ConfirmDelete renders the delete confirmation page
func (h *Resource[T]) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	entity, ok := h.load(w, r)
	if !ok {
		return
	}
	data := DeleteViewData{
		PageData:    h.layout.page(r, "Delete "+h.def.Singular, h.def.Path),
		Path:        h.def.Path,
		ID:          (*entity).GetID(),
		Description: h.def.Describe(*entity),
	}
	render(w, h.layout.Renderer, h.logger, http.StatusOK, "delete.tmpl", data)
}

// Delete removes the record after confirmation
func (h *Resource[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.routeID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, ErrNotFound, http.StatusNotFound)
			return
		}
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "failed to delete "+h.def.Singular, err)
		return
	}

	h.logger.Info("record deleted", zap.Int64("id", id))
	http.Redirect(w, r, h.def.Path, http.StatusSeeOther)
}

func (h *Resource[T]) routeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func (h *Resource[T]) load(w http.ResponseWriter, r *http.Request) (*T, bool) {
	id, ok := h.routeID(w, r)
	if !ok {
		return nil, false
	}
	entity, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, ErrNotFound, http.StatusNotFound)
			return nil, false
		}
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "failed to load "+h.def.Singular, err)
		return nil, false
	}
	return entity, true
}

func (h *Resource[T]) submitted(r *http.Request) map[string]string {
	values := make(map[string]string, len(h.def.Fields))
	for _, f := range h.def.Fields {
		if f.Type == "password" {
			continue
		}
		values[f.Name] = r.PostFormValue(f.Name)
	}
	return values
}

func (h *Resource[T]) renderForm(w http.ResponseWriter, r *http.Request, status int, id int64, values map[string]string, errs validation.Errors) {
	var options map[string][]SelectOption
	if h.def.Options != nil {
		var err error
		options, err = h.def.Options(r.Context())
		if err != nil {
			respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "failed to load form options", err)
			return
		}
	}

	title := "New " + h.def.Singular
	action := h.def.Path + "/new"
	if id > 0 {
		title = "Edit " + h.def.Singular
		action = h.def.Path + "/" + strconv.FormatInt(id, 10) + "/edit"
	}

	data := FormViewData{
		PageData: h.layout.page(r, title, h.def.Path),
		Path:     h.def.Path,
		Action:   action,
		ID:       id,
		IsEdit:   id > 0,
	}
	for _, spec := range h.def.Fields {
		field := FormField{
			Name:     spec.Name,
			Label:    spec.Label,
			Type:     spec.Type,
			Value:    values[spec.Name],
			Error:    errs[spec.Name],
			Required: spec.Required,
		}
		for _, opt := range options[spec.Options] {
			opt.Selected = opt.Value == field.Value
			field.Options = append(field.Options, opt)
		}
		data.Fields = append(data.Fields, field)
	}
	if len(errs) > 0 {
		data.Error = "Please correct the errors below."
	}

	render(w, h.layout.Renderer, h.logger, status, "form.tmpl", data)
}

func cells[T any](columns []Column[T], row T) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = col.Value(row)
	}
	return out
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		respondWithError(w, logger, http.StatusInternalServerError, ErrInternalServerError, "failed to encode response", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
