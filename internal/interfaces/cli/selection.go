package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
)

// selectionFlags mirrors the dashboard filter controls on the command line.
type selectionFlags struct {
	regions       []string
	countries     []string
	countryFilter bool
	influence     string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringSliceVar(&f.regions, "region", nil, "regions to include (repeatable; default all)")
	fl.StringSliceVar(&f.countries, "country", nil, "countries to include; engages the country filter")
	fl.BoolVar(&f.countryFilter, "country-filter", false, "engage the country filter even without --country")
	fl.StringVar(&f.influence, "influence", "All", "influence tier: All, Low, Medium or High")
}

// selection builds the filter selection.  The country filter is engaged by
// --country-filter or by passing --country at all; --country-filter alone
// keeps every country of the selected regions.
func (f *selectionFlags) selection(cmd *cobra.Command) (readiness.Selection, error) {
	sel := readiness.Selection{}
	if cmd.Flags().Changed("region") {
		sel.Regions = append([]string{}, f.regions...)
	}
	if cmd.Flags().Changed("country") {
		sel.Countries = readiness.NewCountrySet(f.countries...)
	} else if f.countryFilter {
		sel.Countries = readiness.AllCountries()
	}
	tier, err := readiness.ParseInfluenceTier(f.influence)
	if err != nil {
		return sel, err
	}
	sel.Influence = tier
	return sel, nil
}

//Personal.AI order the ending
