package services

import (
	"github.com/maxaizer/jobboard/internal/filter"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"net/url"
)

var ErrNoCriteria = errors.New("please select at least one search criterion")

// SearchForm mirrors the filter form: it is filled from the current URL and
// turns into a listing route on submit.
type SearchForm struct {
	listingRoute string
	criteria     filter.Criteria
}

func NewSearchForm(listingRoute string) *SearchForm {
	return &SearchForm{listingRoute: listingRoute}
}

func (f *SearchForm) Load(rawQuery string) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		log.Debugf("partially malformed query %q: %v", rawQuery, err)
	}
	f.criteria = filter.ParseQuery(values)
}

func (f *SearchForm) Set(criteria filter.Criteria) {
	f.criteria = criteria
}

func (f *SearchForm) Criteria() filter.Criteria {
	return f.criteria
}

// Submit returns the route to navigate to, or ErrNoCriteria when nothing is selected.
func (f *SearchForm) Submit() (string, error) {
	if f.criteria.IsEmpty() {
		return "", ErrNoCriteria
	}

	if err := f.criteria.Validate(); err != nil {
		return "", err
	}

	return f.listingRoute + "?" + f.criteria.Encode().Encode(), nil
}
