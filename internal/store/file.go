package store

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/apperr"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
)

const recordSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["ein", "name"],
    "properties": {
      "ein":                    {"type": "string", "minLength": 1},
      "name":                   {"type": "string", "minLength": 1},
      "ntee_code":              {"type": ["string", "null"]},
      "ntee_description":       {"type": ["string", "null"]},
      "mission_description":    {"type": ["string", "null"]},
      "program_description":    {"type": ["string", "null"]},
      "activities_description": {"type": ["string", "null"]},
      "street_address":         {"type": ["string", "null"]},
      "city":                   {"type": ["string", "null"]},
      "state":                  {"type": ["string", "null"]},
      "zip_code":               {"type": ["string", "null"]},
      "total_revenue":          {"type": ["number", "null"], "minimum": 0},
      "total_expenses":         {"type": ["number", "null"], "minimum": 0},
      "net_assets":             {"type": ["number", "null"], "minimum": 0},
      "tax_year":               {"type": ["integer", "null"]},
      "filing_type":            {"type": ["string", "null"]},
      "website":                {"type": ["string", "null"]},
      "phone":                  {"type": ["string", "null"]}
    }
  }
}`

var compiledSchema = mustSchema(recordSchema)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("record schema: %v", err))
	}
	return s
}

// fileRecord mirrors the dataset JSON; nulls and absent fields decode to zero values.
type fileRecord struct {
	EIN                   string   `json:"ein"`
	Name                  string   `json:"name"`
	NTEECode              *string  `json:"ntee_code"`
	NTEEDescription       *string  `json:"ntee_description"`
	MissionDescription    *string  `json:"mission_description"`
	ProgramDescription    *string  `json:"program_description"`
	ActivitiesDescription *string  `json:"activities_description"`
	StreetAddress         *string  `json:"street_address"`
	City                  *string  `json:"city"`
	State                 *string  `json:"state"`
	ZipCode               *string  `json:"zip_code"`
	TotalRevenue          *float64 `json:"total_revenue"`
	TotalExpenses         *float64 `json:"total_expenses"`
	NetAssets             *float64 `json:"net_assets"`
	TaxYear               *int     `json:"tax_year"`
	FilingType            *string  `json:"filing_type"`
	Website               *string  `json:"website"`
	Phone                 *string  `json:"phone"`
}

// LoadFile reads and validates a JSON array of nonprofit records.
func LoadFile(path string) ([]domain.Nonprofit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Decode(data)
}

// Decode validates raw dataset bytes against the record schema and converts them.
func Decode(data []byte) ([]domain.Nonprofit, error) {
	result, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, apperr.NewValidationError("dataset is not valid JSON", err.Error())
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, apperr.NewValidationError("dataset failed schema validation", strings.Join(msgs, "; "))
	}

	var raw []fileRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperr.NewValidationError("dataset decode failed", err.Error())
	}
	out := make([]domain.Nonprofit, 0, len(raw))
	for _, r := range raw {
		n, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (r fileRecord) toDomain() (domain.Nonprofit, error) {
	revenue, err := money("total_revenue", r.TotalRevenue)
	if err != nil {
		return domain.Nonprofit{}, err
	}
	expenses, err := money("total_expenses", r.TotalExpenses)
	if err != nil {
		return domain.Nonprofit{}, err
	}
	assets, err := money("net_assets", r.NetAssets)
	if err != nil {
		return domain.Nonprofit{}, err
	}

	n := domain.Nonprofit{
		EIN:                   strings.TrimSpace(r.EIN),
		Name:                  strings.TrimSpace(r.Name),
		NTEECode:              str(r.NTEECode),
		NTEEDescription:       str(r.NTEEDescription),
		MissionDescription:    str(r.MissionDescription),
		ProgramDescription:    str(r.ProgramDescription),
		ActivitiesDescription: str(r.ActivitiesDescription),
		StreetAddress:         str(r.StreetAddress),
		City:                  str(r.City),
		State:                 str(r.State),
		ZipCode:               str(r.ZipCode),
		TotalRevenue:          revenue,
		TotalExpenses:         expenses,
		NetAssets:             assets,
		FilingType:            str(r.FilingType),
		Website:               str(r.Website),
		Phone:                 str(r.Phone),
	}
	if r.TaxYear != nil {
		n.TaxYear = *r.TaxYear
	}
	return n, nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// money rounds a dollar amount to whole dollars. Negative amounts read as zero;
// amounts an int64 cannot hold are rejected.
func money(field string, p *float64) (int64, error) {
	if p == nil || *p < 0 {
		return 0, nil
	}
	v := math.Round(*p)
	if math.IsNaN(v) || v >= math.MaxInt64 {
		return 0, apperr.NewValidationError(field+" out of range", strconv.FormatFloat(*p, 'g', -1, 64))
	}
	return int64(v), nil
}
