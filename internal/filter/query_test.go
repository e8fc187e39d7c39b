package filter

import (
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/url"
	"testing"
)

func Test_ParseQuery_RecognizedParameters(t *testing.T) {
	values, err := url.ParseQuery("location=HANOI,DANANG&skills=Go&skills=Java&level=junior,UNKNOWN" +
		"&minSalary=1000&maxSalary=abc&page=2")
	require.NoError(t, err)

	c := ParseQuery(values)
	assert.Equal(t, []string{"HANOI", "DANANG"}, c.Locations)
	assert.Equal(t, []string{"Go", "Java"}, c.Skills)
	assert.Equal(t, []models.Level{models.Junior}, c.Levels)
	require.NotNil(t, c.MinSalary)
	assert.Equal(t, 1000, *c.MinSalary)
	assert.Nil(t, c.MaxSalary)
}

func Test_ParseQuery_NegativeSalaryIsDropped(t *testing.T) {
	c := ParseQuery(url.Values{ParamMinSalary: {"-10"}})
	assert.Nil(t, c.MinSalary)
	assert.True(t, c.IsEmpty())
}

func Test_Encode_SkipsEmptyFields(t *testing.T) {
	c := Criteria{Skills: []string{"Go", "Rust"}, MaxSalary: Int(2000)}
	assert.Equal(t, "maxSalary=2000&skills=Go%2CRust", c.Encode().Encode())
}

func Test_EncodeThenParse_RoundTrips(t *testing.T) {
	c := Criteria{
		Locations: []string{"HOCHIMINH", "Others"},
		Skills:    []string{"Go"},
		Levels:    []models.Level{models.Middle, models.Senior},
		MinSalary: Int(100),
		MaxSalary: Int(900),
	}

	assert.Equal(t, c, ParseQuery(c.Encode()))
}

func Test_ParseQuery_CanonicalizesLocationCase(t *testing.T) {
	c := ParseQuery(url.Values{ParamLocation: {"hanoi,others"}})
	assert.Equal(t, []string{"HANOI", "Others"}, c.Locations)
	assert.Equal(t, "location=HANOI%2COthers", c.Encode().Encode())
}
