package render

import (
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/maxaizer/jobboard/internal/services"
	"github.com/samber/lo"
	"math"
	"time"
)

const (
	ApplicationsLoading = "loading"
	EmptyMessage        = "no jobs match the selected filters"
)

var locationNames = map[string]string{
	"HANOI":     "Hà Nội",
	"HOCHIMINH": "Hồ Chí Minh",
	"DANANG":    "Đà Nẵng",
}

type JobCard struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	CompanyLogo  string   `json:"companyLogo"`
	Location     string   `json:"location"`
	Salary       string   `json:"salary"`
	Level        string   `json:"level"`
	Skills       []string `json:"skills"`
	Applications string   `json:"applications"`
	Posted       string   `json:"posted"`
	EndsIn       string   `json:"endsIn"`
	Active       bool     `json:"active"`
	Favorite     bool     `json:"favorite"`
}

type JobsPage struct {
	State        string    `json:"state"`
	Cards        []JobCard `json:"cards"`
	Total        int       `json:"total"`
	Page         int       `json:"page"`
	PageSize     int       `json:"pageSize"`
	Pages        int       `json:"pages"`
	Notification string    `json:"notification,omitempty"`
	Message      string    `json:"message,omitempty"`
}

type CompanyCard struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Logo    string `json:"logo"`
	Address string `json:"address"`
}

type CompaniesPage struct {
	Cards []CompanyCard `json:"cards"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
}

type SkillOption struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}

// Renderer turns view state into JSON-ready view models.
type Renderer struct {
	now func() time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

func (r *Renderer) JobsPage(snapshot services.ListingSnapshot, isFavorite func(jobID int64) bool) JobsPage {
	page := JobsPage{
		State:        string(snapshot.State),
		Cards:        make([]JobCard, 0, len(snapshot.Jobs)),
		Total:        snapshot.Total,
		Page:         snapshot.Page,
		PageSize:     snapshot.PageSize,
		Pages:        pages(snapshot.Total, snapshot.PageSize),
		Notification: snapshot.Notification,
	}

	for _, job := range snapshot.Jobs {
		card := r.JobCard(job)
		if count, ok := snapshot.ApplicationCounts[job.ID]; ok {
			card.Applications = ApplicationsLabel(count)
		}
		if isFavorite != nil {
			card.Favorite = isFavorite(job.ID)
		}
		page.Cards = append(page.Cards, card)
	}

	if snapshot.State == services.StateEmpty {
		page.Message = EmptyMessage
	}
	return page
}

func (r *Renderer) JobCard(job models.Job) JobCard {
	card := JobCard{
		ID:           job.ID,
		Title:        job.Name,
		Company:      job.Company.Name,
		CompanyLogo:  job.Company.Logo,
		Location:     LocationName(job.Location),
		Salary:       FormatSalary(job.Salary),
		Level:        string(job.Level),
		Skills:       lo.Map(job.Skills, func(s models.Skill, _ int) string { return s.Name }),
		Applications: ApplicationsLoading,
		Active:       job.Active,
	}

	if !job.CreatedAt.IsZero() {
		card.Posted = humanize.RelTime(job.CreatedAt, r.now(), "ago", "from now")
	}
	if !job.EndDate.IsZero() {
		card.EndsIn = humanize.RelTime(job.EndDate, r.now(), "ago", "from now")
	}
	return card
}

func (r *Renderer) CompaniesPage(page models.CompanyPage) CompaniesPage {
	return CompaniesPage{
		Cards: lo.Map(page.Items, func(c models.Company, _ int) CompanyCard {
			return CompanyCard{ID: c.ID, Name: c.Name, Logo: c.Logo, Address: c.Address}
		}),
		Total: page.Total,
		Page:  page.Page,
		Pages: pages(page.Total, page.PageSize),
	}
}

func SkillOptions(skills []models.Skill) []SkillOption {
	return lo.Map(skills, func(s models.Skill, _ int) SkillOption {
		return SkillOption{Value: s.ID, Label: s.Name}
	})
}

func ApplicationsLabel(count int) string {
	return fmt.Sprintf("%d applications", count)
}

func LocationName(code string) string {
	if name, ok := locationNames[code]; ok {
		return name
	}
	return code
}

func FormatSalary(salary float64) string {
	return humanize.Comma(int64(math.Round(salary))) + " đ"
}

func pages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
