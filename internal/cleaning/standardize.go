package cleaning

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/promopulse-backend/pkg/enums"
)

var cityVariants = map[string]enums.City{
	"dubai":     enums.CityDubai,
	"DUBAI":     enums.CityDubai,
	"Dubayy":    enums.CityDubai,
	"abu dhabi": enums.CityAbuDhabi,
	"ABU DHABI": enums.CityAbuDhabi,
	"AbuDhabi":  enums.CityAbuDhabi,
	"Abu-Dhabi": enums.CityAbuDhabi,
	"sharjah":   enums.CitySharjah,
	"SHARJAH":   enums.CitySharjah,
	"Sharja":    enums.CitySharjah,
	"Sharjh":    enums.CitySharjah,
}

type correction struct {
	value     string
	issueType enums.IssueType
	detail    string
}

// standardizeCity maps known spelling variants to the canonical city and
// defaults anything unrecognised to Dubai. ok is false when raw is already
// canonical.
func standardizeCity(raw string) (correction, bool) {
	city := strings.TrimSpace(raw)
	if mapped, found := cityVariants[city]; found {
		return correction{
			value:     mapped.String(),
			issueType: enums.IssueInconsistentValue,
			detail:    fmt.Sprintf("City %q standardized to %q", city, mapped),
		}, true
	}
	if ValidateCity(city) == nil {
		if city == raw {
			return correction{}, false
		}
		return correction{
			value:     city,
			issueType: enums.IssueInconsistentValue,
			detail:    fmt.Sprintf("City %q standardized to %q", raw, city),
		}, true
	}
	return correction{
		value:     enums.CityDubai.String(),
		issueType: enums.IssueInvalidCity,
		detail:    fmt.Sprintf("Invalid city %q defaulted to Dubai", city),
	}, true
}

func standardizeCategory(raw string) (correction, bool) {
	if raw == strings.TrimSpace(raw) && ValidateCategory(raw) == nil {
		return correction{}, false
	}
	if ValidateCategory(raw) == nil {
		return correction{
			value:     strings.TrimSpace(raw),
			issueType: enums.IssueInvalidCategory,
			detail:    fmt.Sprintf("Category %q trimmed", raw),
		}, true
	}
	return correction{
		value:     enums.CategoryElectronics.String(),
		issueType: enums.IssueInvalidCategory,
		detail:    fmt.Sprintf("Invalid category: %q -> %q", raw, enums.CategoryElectronics),
	}, true
}
