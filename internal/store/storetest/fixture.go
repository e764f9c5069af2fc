// Package storetest provides a small nonprofit dataset for tests.
package storetest

import (
	"testing"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/store"
)

// Records returns ten Houston organizations. Two of them share a revenue
// figure so revenue ordering has a tie to break.
func Records() []domain.Nonprofit {
	return []domain.Nonprofit{
		{
			EIN: "74-1234567", Name: "Houston Food Bank", NTEECode: "P24",
			NTEEDescription:       "Human Services - Emergency Aid",
			MissionDescription:    "To lead the fight against hunger in Southeast Texas by providing food access, advocacy, education and disaster relief.",
			ProgramDescription:    "Food distribution, mobile food pantries, BackPack Buddy Program, disaster relief, nutrition education",
			ActivitiesDescription: "Operates largest food bank in Texas serving 18 counties.",
			City:                  "Houston", State: "TX",
			TotalRevenue: 425000000, TotalExpenses: 398000000, NetAssets: 95000000,
			Website: "https://www.houstonfoodbank.org",
		},
		{
			EIN: "74-2345678", Name: "Houston Zoo", NTEECode: "D20",
			NTEEDescription:       "Animal-Related - Animal Protection",
			MissionDescription:    "To provide leadership in the conservation of wildlife and the preservation of natural habitats.",
			ProgramDescription:    "Animal conservation, education programs, research, habitat preservation, visitor experiences",
			ActivitiesDescription: "Zoo operations, conservation projects, educational outreach, research partnerships",
			City:                  "Houston", State: "TX",
			TotalRevenue: 65000000, TotalExpenses: 62000000, NetAssets: 180000000,
			Website: "https://www.houstonzoo.org",
		},
		{
			EIN: "74-3456789", Name: "Memorial Hermann Foundation", NTEECode: "E20",
			NTEEDescription:       "Health - Hospitals",
			MissionDescription:    "To support Memorial Hermann Health System in delivering exceptional healthcare to Southeast Texas.",
			ProgramDescription:    "Healthcare facility improvements, medical equipment, patient care programs, community health",
			ActivitiesDescription: "Hospital support, medical research funding, community health initiatives",
			City:                  "Houston", State: "TX",
			TotalRevenue: 85000000, TotalExpenses: 78000000, NetAssets: 145000000,
		},
		{
			EIN: "74-4567890", Name: "United Way of Greater Houston", NTEECode: "P23",
			NTEEDescription:       "Human Services - Human Service Organizations",
			MissionDescription:    "To improve lives by mobilizing the caring power of our community.",
			ProgramDescription:    "Community investments, disaster relief, volunteer mobilization, nonprofit capacity building",
			ActivitiesDescription: "Annual fundraising campaign, strategic grantmaking, volunteer coordination",
			City:                  "Houston", State: "TX",
			TotalRevenue: 75000000, TotalExpenses: 72000000, NetAssets: 125000000,
		},
		{
			EIN: "74-5678901", Name: "Houston Symphony Society", NTEECode: "A20",
			NTEEDescription:       "Arts, Culture & Humanities - Visual Arts",
			MissionDescription:    "To inspire and engage the diverse communities of Houston through exceptional musical performances.",
			ProgramDescription:    "Classical concerts, pops concerts, community engagement, music education, youth programs",
			ActivitiesDescription: "Over 170 concerts annually and educational outreach to students",
			City:                  "Houston", State: "TX",
			TotalRevenue: 35000000, TotalExpenses: 33000000, NetAssets: 65000000,
		},
		{
			EIN: "74-6789012", Name: "Houston Museum of Natural Science", NTEECode: "A20",
			NTEEDescription:       "Arts, Culture & Humanities - Visual Arts",
			MissionDescription:    "To provide educational opportunities that enhance understanding of natural science and astronomy.",
			ProgramDescription:    "Permanent exhibitions, planetarium shows, educational programs, research",
			ActivitiesDescription: "Museum operations, educational outreach, scientific research",
			City:                  "Houston", State: "TX",
			TotalRevenue: 45000000, TotalExpenses: 42000000, NetAssets: 280000000,
		},
		{
			EIN: "74-7890123", Name: "Boys & Girls Clubs of Greater Houston", NTEECode: "P21",
			NTEEDescription:       "Human Services - Youth Development",
			MissionDescription:    "To enable all young people to reach their full potential as productive, caring, responsible citizens.",
			ProgramDescription:    "After-school programs, summer camps, character development, academic support, sports",
			ActivitiesDescription: "Operates club sites serving youth throughout Greater Houston",
			City:                  "Houston", State: "TX",
			TotalRevenue: 28000000, TotalExpenses: 26500000, NetAssets: 45000000,
		},
		{
			EIN: "74-8901234", Name: "Houston Independent School District Foundation", NTEECode: "B21",
			NTEEDescription:       "Education - Elementary & Secondary Schools",
			MissionDescription:    "To mobilize business and community support for Houston ISD students and schools.",
			ProgramDescription:    "College scholarships, teacher grants, school improvement projects",
			ActivitiesDescription: "Fundraising for educational initiatives and scholarship distribution",
			City:                  "Houston", State: "TX",
			TotalRevenue: 12000000, TotalExpenses: 11500000, NetAssets: 25000000,
		},
		{
			EIN: "76-1111111", Name: "Bay Area Homeless Services", NTEECode: "P20",
			NTEEDescription:       "Human Services - Housing & Shelter",
			MissionDescription:    "To provide shelter and supportive housing for homeless families.",
			ProgramDescription:    "Emergency shelter, transitional housing, case management",
			City:                  "Baytown", State: "TX",
			TotalRevenue: 5000000, TotalExpenses: 4800000, NetAssets: 3000000,
		},
		{
			EIN: "76-2222222", Name: "Avenue Community Development", NTEECode: "P20",
			NTEEDescription:       "Human Services - Housing & Shelter",
			MissionDescription:    "To build affordable housing and strengthen neighborhoods.",
			ProgramDescription:    "Affordable housing construction, homebuyer education",
			City:                  "Houston", State: "TX",
			TotalRevenue: 5000000, TotalExpenses: 4500000, NetAssets: 20000000,
		},
	}
}

// Store builds a store over Records and fails the test on error.
func Store(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.New(Records())
	if err != nil {
		t.Fatalf("build fixture store: %v", err)
	}
	return s
}
