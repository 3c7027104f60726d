package repository

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/voice-local/api-go/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultPageSize = 10

// FilterParser converts a raw query value into the value compared against
// the column. The returned error message is shown to the client.
type FilterParser func(raw string) (interface{}, error)

// ListSpec declares which fields of a table may be filtered, searched and
// ordered through query parameters.
type ListSpec struct {
	Table        string
	Filters      map[string]FilterField
	Search       []string
	Ordering     map[string]string
	DefaultOrder []OrderTerm
}

type FilterField struct {
	Column string
	Parse  FilterParser
}

type Condition struct {
	Field  string
	Column string
	Value  interface{}
}

type OrderTerm struct {
	Field  string
	Column string
	Desc   bool
}

// ListQuery is a validated list request ready to be applied to a GORM chain.
type ListQuery struct {
	Table         string
	Filters       []Condition
	Terms         []string
	SearchColumns []string
	Order         []OrderTerm
	Page          int
	PageSize      int
}

// FilterError carries per-parameter messages for values that failed to parse.
type FilterError struct {
	Fields map[string][]string
}

func (e *FilterError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid filter value for %s", strings.Join(keys, ", "))
}

var CategoryListSpec = ListSpec{
	Table: "categories",
	Filters: map[string]FilterField{
		"name":       {Column: "name", Parse: parseString},
		"created_at": {Column: "created_at", Parse: parseTime},
	},
	Search:       []string{"name", "description"},
	Ordering:     map[string]string{"name": "name", "created_at": "created_at"},
	DefaultOrder: []OrderTerm{{Field: "name", Column: "name"}},
}

var IssueListSpec = ListSpec{
	Table: "issues",
	Filters: map[string]FilterField{
		"status":   {Column: "status", Parse: parseChoice(issueStatusChoices())},
		"priority": {Column: "priority", Parse: parseChoice(issuePriorityChoices())},
		"category": {Column: "category_id", Parse: parseID},
		"author":   {Column: "author_id", Parse: parseID},
	},
	Search: []string{"title", "description", "location"},
	Ordering: map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"title":      "title",
	},
	DefaultOrder: []OrderTerm{{Field: "created_at", Column: "created_at", Desc: true}},
}

var CommentListSpec = ListSpec{
	Table: "comments",
	Filters: map[string]FilterField{
		"author": {Column: "author_id", Parse: parseID},
	},
	Search: []string{"content"},
	Ordering: map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	DefaultOrder: []OrderTerm{{Field: "created_at", Column: "created_at"}},
}

// ParseListQuery validates the filter, search, ordering and page parameters
// against list. Unknown parameters and unknown ordering fields are ignored.
// It returns a *FilterError for unparseable filter values and ErrInvalidPage
// for a page number that is not a positive integer.
func ParseListQuery(list ListSpec, values url.Values) (ListQuery, error) {
	q := ListQuery{
		Table:         list.Table,
		SearchColumns: list.Search,
		Page:          1,
		PageSize:      DefaultPageSize,
	}

	names := make([]string, 0, len(list.Filters))
	for name := range list.Filters {
		names = append(names, name)
	}
	sort.Strings(names)

	fieldErrs := map[string][]string{}
	for _, name := range names {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		f := list.Filters[name]
		v, err := f.Parse(raw)
		if err != nil {
			fieldErrs[name] = append(fieldErrs[name], err.Error())
			continue
		}
		q.Filters = append(q.Filters, Condition{Field: name, Column: f.Column, Value: v})
	}
	if len(fieldErrs) > 0 {
		return q, &FilterError{Fields: fieldErrs}
	}

	q.Terms = searchTerms(values.Get("search"))

	for _, part := range strings.Split(values.Get("ordering"), ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		field := strings.TrimPrefix(part, "-")
		if col, ok := list.Ordering[field]; ok {
			q.Order = append(q.Order, OrderTerm{Field: field, Column: col, Desc: desc})
		}
	}
	if len(q.Order) == 0 {
		q.Order = append(q.Order, list.DefaultOrder...)
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 || page > maxPage(q.PageSize) {
			return q, ErrInvalidPage
		}
		q.Page = page
	}

	return q, nil
}

// maxPage keeps page*pageSize within int so offsets never wrap.
func maxPage(pageSize int) int {
	return math.MaxInt/pageSize - 1
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// CheckPage reports ErrInvalidPage when the requested page lies past the
// last one. The first page is always valid, even when empty.
func (q ListQuery) CheckPage(total int64) error {
	if q.Page > 1 && int64(q.Offset()) >= total {
		return ErrInvalidPage
	}
	return nil
}

// Filter applies the exact-match filters and search terms.
func (q ListQuery) Filter(db *gorm.DB) *gorm.DB {
	for _, c := range q.Filters {
		db = db.Where(clause.Eq{Column: clause.Column{Table: q.Table, Name: c.Column}, Value: c.Value})
	}
	if len(q.SearchColumns) == 0 {
		return db
	}
	for _, term := range q.Terms {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		parts := make([]string, 0, len(q.SearchColumns))
		args := make([]interface{}, 0, len(q.SearchColumns))
		for _, col := range q.SearchColumns {
			parts = append(parts, fmt.Sprintf("LOWER(%s.%s) LIKE ?", q.Table, col))
			args = append(args, pattern)
		}
		db = db.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
	return db
}

// Sort applies the requested ordering with the primary key as tie breaker.
func (q ListQuery) Sort(db *gorm.DB) *gorm.DB {
	for _, o := range q.Order {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Table: q.Table, Name: o.Column}, Desc: o.Desc})
	}
	desc := len(q.Order) > 0 && q.Order[0].Desc
	return db.Order(clause.OrderByColumn{Column: clause.Column{Table: q.Table, Name: "id"}, Desc: desc})
}

func (q ListQuery) Paginate(db *gorm.DB) *gorm.DB {
	return db.Offset(q.Offset()).Limit(q.PageSize)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func searchTerms(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func parseString(raw string) (interface{}, error) {
	return raw, nil
}

func parseID(raw string) (interface{}, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, errors.New("Select a valid choice. That choice is not one of the available choices.")
	}
	return uint(id), nil
}

func parseTime(raw string) (interface{}, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return nil, errors.New("Enter a valid date/time.")
}

func parseChoice(choices []string) FilterParser {
	return func(raw string) (interface{}, error) {
		for _, c := range choices {
			if raw == c {
				return raw, nil
			}
		}
		return nil, fmt.Errorf("Select a valid choice. %s is not one of the available choices.", raw)
	}
}

func issueStatusChoices() []string {
	out := make([]string, 0, len(models.IssueStatuses))
	for _, s := range models.IssueStatuses {
		out = append(out, string(s))
	}
	return out
}

func issuePriorityChoices() []string {
	out := make([]string, 0, len(models.IssuePriorities))
	for _, p := range models.IssuePriorities {
		out = append(out, string(p))
	}
	return out
}
