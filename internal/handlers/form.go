package handlers

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kindergarten/internal/models"
	"kindergarten/internal/validation"
)

const dateLayout = "2006-01-02"

// formReader parses typed values out of a submitted form, collecting parse errors
type formReader struct {
	form url.Values
	errs validation.Errors
}

func newFormReader(form url.Values) *formReader {
	return &formReader{form: form, errs: validation.Errors{}}
}

func (f *formReader) str(name string) string {
	return strings.TrimSpace(f.form.Get(name))
}

// id reads the hidden record id; anything unparsable is 0
func (f *formReader) id() int64 {
	id, err := strconv.ParseInt(f.str("id"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (f *formReader) intPtr(name string) *int {
	v := f.str(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		f.errs.Add(name, "must be a whole number")
		return nil
	}
	return &n
}

func (f *formReader) ref(name string) *int64 {
	v := f.str(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		f.errs.Add(name, "invalid selection")
		return nil
	}
	return &n
}

func (f *formReader) date(name string) *time.Time {
	v := f.str(name)
	if v == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		f.errs.Add(name, "must be a date like 2020-01-31")
		return nil
	}
	return &t
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func formatRef(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// allLister is satisfied by every repository
type allLister[T any] interface {
	All(ctx context.Context) ([]T, error)
}

func optionsFrom[T models.Entity](ctx context.Context, src allLister[T], label func(T) string) ([]SelectOption, error) {
	rows, err := src.All(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]SelectOption, len(rows))
	for i, row := range rows {
		opts[i] = SelectOption{Value: strconv.FormatInt(row.GetID(), 10), Label: label(row)}
	}
	return opts, nil
}
