package filter

import (
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"net/url"
	"strconv"
	"strings"
)

const (
	ParamLocation  = "location"
	ParamSkills    = "skills"
	ParamLevel     = "level"
	ParamMinSalary = "minSalary"
	ParamMaxSalary = "maxSalary"
)

// ParseQuery reads the recognized filter parameters from a URL query.
// Values that can't be parsed are dropped.
func ParseQuery(values url.Values) Criteria {
	c := Criteria{
		Locations: normalizeLocations(splitList(values[ParamLocation])),
		Skills:    splitList(values[ParamSkills]),
	}

	for _, raw := range splitList(values[ParamLevel]) {
		level, ok := models.ToLevel(strings.ToUpper(raw))
		if !ok {
			log.Debugf("ignoring unknown level %q", raw)
			continue
		}
		c.Levels = append(c.Levels, level)
	}
	c.Levels = lo.Uniq(c.Levels)

	c.MinSalary = parseSalary(values, ParamMinSalary)
	c.MaxSalary = parseSalary(values, ParamMaxSalary)
	return c
}

// Encode writes the non-empty fields as query parameters, list values comma-joined.
func (c Criteria) Encode() url.Values {
	values := url.Values{}

	if locations := normalizeLocations(c.Locations); len(locations) > 0 {
		values.Set(ParamLocation, strings.Join(locations, ","))
	}
	if skills := normalize(c.Skills); len(skills) > 0 {
		values.Set(ParamSkills, strings.Join(skills, ","))
	}
	if levels := normalize(levelsToStrings(c.Levels)); len(levels) > 0 {
		values.Set(ParamLevel, strings.Join(levels, ","))
	}
	if c.MinSalary != nil {
		values.Set(ParamMinSalary, strconv.Itoa(*c.MinSalary))
	}
	if c.MaxSalary != nil {
		values.Set(ParamMaxSalary, strconv.Itoa(*c.MaxSalary))
	}
	return values
}

func splitList(raw []string) []string {
	var result []string
	for _, value := range raw {
		result = append(result, strings.Split(value, ",")...)
	}
	return normalize(result)
}

func parseSalary(values url.Values, key string) *int {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil
	}

	salary, err := strconv.Atoi(raw)
	if err != nil || salary < 0 {
		log.Debugf("ignoring invalid %s %q", key, raw)
		return nil
	}
	return &salary
}
