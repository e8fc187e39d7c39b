package filter

import (
	"fmt"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/samber/lo"
	"strings"
)

const activeClause = "active:true"

// Build translates criteria into the backend filter expression.
// Clause order is location, skills, level, minSalary, maxSalary, active.
func Build(c Criteria) string {
	var clauses []string

	if clause := locationClause(normalizeLocations(c.Locations)); clause != "" {
		clauses = append(clauses, clause)
	}

	if skills := normalize(c.Skills); len(skills) > 0 {
		clauses = append(clauses, inClause("skills", skills))
	}

	if levels := normalize(levelsToStrings(c.Levels)); len(levels) > 0 {
		clauses = append(clauses, inClause("level", levels))
	}

	if c.MinSalary != nil {
		clauses = append(clauses, fmt.Sprintf("salary>=%d", *c.MinSalary))
	}

	if c.MaxSalary != nil {
		clauses = append(clauses, fmt.Sprintf("salary<=%d", *c.MaxSalary))
	}

	clauses = append(clauses, activeClause)
	return strings.Join(clauses, " and ")
}

// BuildCompanyFilter matches companies whose name contains the given text.
func BuildCompanyFilter(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return fmt.Sprintf("name ~ '%%%s%%'", escape(name))
}

func locationClause(locations []string) string {
	if len(locations) == 0 {
		return ""
	}

	if !lo.Contains(locations, OtherLocations) {
		return inClause("location", locations)
	}

	excluded := lo.Filter(KnownLocations, func(known string, _ int) bool {
		return !lo.Contains(locations, known)
	})
	if len(excluded) == 0 {
		return ""
	}
	return notInClause("location", excluded)
}

func inClause(field string, values []string) string {
	return fmt.Sprintf("%s in (%s)", field, quoteJoin(values))
}

func notInClause(field string, values []string) string {
	return fmt.Sprintf("%s not in (%s)", field, quoteJoin(values))
}

func quoteJoin(values []string) string {
	quoted := lo.Map(values, func(v string, _ int) string {
		return "'" + escape(v) + "'"
	})
	return strings.Join(quoted, ",")
}

func escape(value string) string {
	return strings.ReplaceAll(value, "'", `\'`)
}

// normalize trims values and drops empties and duplicates, keeping first-seen order.
func normalize(values []string) []string {
	trimmed := lo.Map(values, func(v string, _ int) string { return strings.TrimSpace(v) })
	return lo.Uniq(lo.Compact(trimmed))
}

// normalizeLocations is normalize plus case-insensitive matching of the known codes and OtherLocations.
func normalizeLocations(values []string) []string {
	canonical := lo.Map(normalize(values), func(v string, _ int) string {
		if strings.EqualFold(v, OtherLocations) {
			return OtherLocations
		}
		if known, ok := lo.Find(KnownLocations, func(k string) bool { return strings.EqualFold(v, k) }); ok {
			return known
		}
		return v
	})
	return lo.Uniq(canonical)
}

func levelsToStrings(levels []models.Level) []string {
	return lo.Map(levels, func(l models.Level, _ int) string { return string(l) })
}
