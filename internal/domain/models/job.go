package models

import "time"

type Level string

const (
	Intern  Level = "INTERN"
	Fresher Level = "FRESHER"
	Junior  Level = "JUNIOR"
	Middle  Level = "MIDDLE"
	Senior  Level = "SENIOR"
)

var Levels = []Level{Intern, Fresher, Junior, Middle, Senior}

func ToLevel(s string) (Level, bool) {
	for _, level := range Levels {
		if string(level) == s {
			return level, true
		}
	}
	return "", false
}

type Company struct {
	ID      int64
	Name    string
	Logo    string
	Address string
}

type Skill struct {
	ID   int64
	Name string
}

type Job struct {
	ID        int64
	Name      string
	Company   Company
	Location  string
	Salary    float64
	Quantity  int
	Level     Level
	Skills    []Skill
	Active    bool
	CreatedAt time.Time
	EndDate   time.Time
}

// JobPage is replaced wholesale on every fetch.
type JobPage struct {
	Items    []Job
	Page     int
	PageSize int
	Total    int
}

type CompanyPage struct {
	Items    []Company
	Page     int
	PageSize int
	Total    int
}
