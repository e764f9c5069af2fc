package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
)

// Querier is the subset of *sql.DB the Postgres loader needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var nonprofitColumns = []string{
	"ein", "name", "ntee_code", "ntee_description",
	"mission_description", "program_description", "activities_description",
	"street_address", "city", "state", "zip_code",
	"total_revenue", "total_expenses", "net_assets",
	"tax_year", "filing_type", "website", "phone",
}

// LoadPostgres reads every row of the nonprofits table ordered by EIN.
func LoadPostgres(ctx context.Context, db Querier) ([]domain.Nonprofit, error) {
	query, args, err := sq.Select(nonprofitColumns...).
		From("nonprofits").
		OrderBy("ein").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build nonprofits query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query nonprofits: %w", err)
	}
	defer rows.Close()

	var out []domain.Nonprofit
	for rows.Next() {
		var (
			ein, name                                string
			code, desc, mission, program, activities sql.NullString
			street, city, state, zip                 sql.NullString
			revenue, expenses, assets                sql.NullFloat64
			taxYear                                  sql.NullInt64
			filingType, website, phone               sql.NullString
		)
		if err := rows.Scan(
			&ein, &name, &code, &desc,
			&mission, &program, &activities,
			&street, &city, &state, &zip,
			&revenue, &expenses, &assets,
			&taxYear, &filingType, &website, &phone,
		); err != nil {
			return nil, fmt.Errorf("scan nonprofit: %w", err)
		}
		rec := fileRecord{
			EIN:                   ein,
			Name:                  name,
			NTEECode:              nullStr(code),
			NTEEDescription:       nullStr(desc),
			MissionDescription:    nullStr(mission),
			ProgramDescription:    nullStr(program),
			ActivitiesDescription: nullStr(activities),
			StreetAddress:         nullStr(street),
			City:                  nullStr(city),
			State:                 nullStr(state),
			ZipCode:               nullStr(zip),
			TotalRevenue:          nullFloat(revenue),
			TotalExpenses:         nullFloat(expenses),
			NetAssets:             nullFloat(assets),
			FilingType:            nullStr(filingType),
			Website:               nullStr(website),
			Phone:                 nullStr(phone),
		}
		if taxYear.Valid {
			y := int(taxYear.Int64)
			rec.TaxYear = &y
		}
		n, err := rec.toDomain()
		if err != nil {
			return nil, fmt.Errorf("nonprofit %s: %w", ein, err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nonprofits: %w", err)
	}
	return out, nil
}

func nullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
