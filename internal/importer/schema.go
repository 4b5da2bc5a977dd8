package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure of a project seed file.
type ImportSchema struct {
	Project    ProjectImport    `json:"project"`
	Activities []ActivityImport `json:"activities"`
}

// ProjectImport defines the project-level fields. Contract dates are kept as
// raw text; any of the accepted contract date layouts may be used.
type ProjectImport struct {
	ShortID       string `json:"short_id"`
	Name          string `json:"name"`
	Location      string `json:"location,omitempty"`
	Contractor    string `json:"contractor,omitempty"`
	ContractStart string `json:"contract_start,omitempty"`
	ContractEnd   string `json:"contract_end,omitempty"`
	Year          int    `json:"year,omitempty"`
}

type ActivityImport struct {
	Ref           string              `json:"ref"`
	Name          string              `json:"name"`
	Order         int                 `json:"order"`
	Weight        *float64            `json:"weight,omitempty"`
	SubActivities []SubActivityImport `json:"sub_activities"`
}

type SubActivityImport struct {
	Ref      string           `json:"ref"`
	Name     string           `json:"name"`
	Order    int              `json:"order"`
	Weight   *float64         `json:"weight,omitempty"`
	Schedule []ScheduleImport `json:"schedule,omitempty"`
}

// ScheduleImport is one weekly cell. Year may be omitted and then defaults
// to the year in which the contract holds the month.
type ScheduleImport struct {
	Year   int      `json:"year,omitempty"`
	Month  int      `json:"month"`
	Week   int      `json:"week"`
	Plan   *float64 `json:"plan,omitempty"`
	Actual *float64 `json:"actual,omitempty"`
}

// LoadImportSchema reads and parses a project seed file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data)
}

func ParseImportSchema(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
