package board

import (
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/samber/lo"
	"time"
)

type meta struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Pages    int `json:"pages"`
	Total    int `json:"total"`
}

type pageResponse[T any] struct {
	Result []T  `json:"result"`
	Meta   meta `json:"meta"`
}

type dataResponse[T any] struct {
	Data T `json:"data"`
}

type company struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Logo    string `json:"logo"`
	Address string `json:"address"`
}

type skill struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type job struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Salary    float64   `json:"salary"`
	Quantity  int       `json:"quantity"`
	Level     string    `json:"level"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	EndDate   time.Time `json:"endDate"`
	Company   company   `json:"company"`
	Skills    []skill   `json:"skills"`
}

type applicationCount struct {
	TotalApplications int `json:"totalApplications"`
}

type favorite struct {
	ID  int64 `json:"id"`
	Job struct {
		ID int64 `json:"id"`
	} `json:"job"`
}

type favoriteRequest struct {
	UserID string `json:"userId"`
	JobID  int64  `json:"jobId"`
}

func (c company) toModel() models.Company {
	return models.Company{ID: c.ID, Name: c.Name, Logo: c.Logo, Address: c.Address}
}

func (s skill) toModel() models.Skill {
	return models.Skill{ID: s.ID, Name: s.Name}
}

func (j job) toModel() models.Job {
	return models.Job{
		ID:        j.ID,
		Name:      j.Name,
		Company:   j.Company.toModel(),
		Location:  j.Location,
		Salary:    j.Salary,
		Quantity:  j.Quantity,
		Level:     models.Level(j.Level),
		Skills:    lo.Map(j.Skills, func(s skill, _ int) models.Skill { return s.toModel() }),
		Active:    j.Active,
		CreatedAt: j.CreatedAt,
		EndDate:   j.EndDate,
	}
}
