package schedule

// VaccineID names one dose of one antigen, e.g. "penta3".
type VaccineID string

func (v VaccineID) String() string { return string(v) }

// Series groups the doses of one antigen. Offsets never decrease as the dose
// number grows within a series.
type Series string

// VaccineDefinition is one row of the canonical schedule table.
type VaccineDefinition struct {
	ID         VaccineID `json:"id"`
	Name       string    `json:"name"`
	Series     Series    `json:"series"`
	Dose       int       `json:"dose"`
	Protection string    `json:"protection"`
	OffsetDays int       `json:"offset_days"`
}

// Table is an ordered list of definitions. Order is significant: schedules
// and coverage reports follow it.
type Table []VaccineDefinition

// Validate checks the table invariants: unique non-empty IDs, non-negative
// offsets, and doses listed in increasing order with non-decreasing offsets
// within each series.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fail(ErrInvalidTable, "table is empty")
	}
	seen := make(map[VaccineID]struct{}, len(t))
	last := make(map[Series]VaccineDefinition)
	for _, def := range t {
		if def.ID == "" {
			return fail(ErrInvalidTable, "definition with empty id")
		}
		if _, dup := seen[def.ID]; dup {
			return fail(ErrInvalidTable, "duplicate vaccine %q", def.ID)
		}
		seen[def.ID] = struct{}{}
		if def.OffsetDays < 0 {
			return fail(ErrInvalidTable, "vaccine %q has negative offset", def.ID)
		}
		if prev, ok := last[def.Series]; ok {
			if def.Dose <= prev.Dose {
				return fail(ErrInvalidTable, "series %q lists dose %d after dose %d", def.Series, def.Dose, prev.Dose)
			}
			if def.OffsetDays < prev.OffsetDays {
				return fail(ErrInvalidTable, "vaccine %q is due before %q in series %q", def.ID, prev.ID, def.Series)
			}
		}
		last[def.Series] = def
	}
	return nil
}

// Lookup finds a definition by ID.
func (t Table) Lookup(id VaccineID) (VaccineDefinition, bool) {
	for _, def := range t {
		if def.ID == id {
			return def, true
		}
	}
	return VaccineDefinition{}, false
}

const (
	protectionPenta    = "Diphtheria, Tetanus, Pertussis, Hepatitis B, Hib"
	protectionPolio    = "Polio"
	protectionPCV      = "Pneumococcal"
	protectionRota     = "Rotavirus"
	protectionMalaria  = "Malaria"
	protectionMR       = "Measles, Rubella"
	protectionVitaminA = "Vitamin A Deficiency"
)

// IA2030 returns the national immunization schedule. Each call returns a
// fresh copy.
func IA2030() Table {
	return Table{
		{ID: "bcg", Name: "BCG", Series: "bcg", Dose: 1, Protection: "Tuberculosis", OffsetDays: 0},
		{ID: "opv0", Name: "OPV0", Series: "opv", Dose: 0, Protection: protectionPolio, OffsetDays: 0},
		{ID: "hepb0", Name: "Hepatitis B", Series: "hepb", Dose: 1, Protection: "Hepatitis B", OffsetDays: 0},

		// 6 weeks
		{ID: "opv1", Name: "OPV1", Series: "opv", Dose: 1, Protection: protectionPolio, OffsetDays: 42},
		{ID: "penta1", Name: "Penta1", Series: "penta", Dose: 1, Protection: protectionPenta, OffsetDays: 42},
		{ID: "pcv1", Name: "PCV1", Series: "pcv", Dose: 1, Protection: protectionPCV, OffsetDays: 42},
		{ID: "rota1", Name: "Rotavirus1", Series: "rota", Dose: 1, Protection: protectionRota, OffsetDays: 42},

		// 10 weeks
		{ID: "opv2", Name: "OPV2", Series: "opv", Dose: 2, Protection: protectionPolio, OffsetDays: 70},
		{ID: "penta2", Name: "Penta2", Series: "penta", Dose: 2, Protection: protectionPenta, OffsetDays: 70},
		{ID: "pcv2", Name: "PCV2", Series: "pcv", Dose: 2, Protection: protectionPCV, OffsetDays: 70},
		{ID: "rota2", Name: "Rotavirus2", Series: "rota", Dose: 2, Protection: protectionRota, OffsetDays: 70},

		// 14 weeks
		{ID: "opv3", Name: "OPV3", Series: "opv", Dose: 3, Protection: protectionPolio, OffsetDays: 98},
		{ID: "penta3", Name: "Penta3", Series: "penta", Dose: 3, Protection: protectionPenta, OffsetDays: 98},
		{ID: "pcv3", Name: "PCV3", Series: "pcv", Dose: 3, Protection: protectionPCV, OffsetDays: 98},
		{ID: "rota3", Name: "Rotavirus3", Series: "rota", Dose: 3, Protection: protectionRota, OffsetDays: 98},
		{ID: "ipv1", Name: "IPV1", Series: "ipv", Dose: 1, Protection: protectionPolio, OffsetDays: 98},

		{ID: "malaria1", Name: "Malaria1", Series: "malaria", Dose: 1, Protection: protectionMalaria, OffsetDays: 180},
		{ID: "vitamin_a_6m", Name: "Vitamin A", Series: "vitamin_a", Dose: 1, Protection: protectionVitaminA, OffsetDays: 180},
		{ID: "malaria2", Name: "Malaria2", Series: "malaria", Dose: 2, Protection: protectionMalaria, OffsetDays: 210},
		{ID: "ipv2", Name: "IPV2", Series: "ipv", Dose: 2, Protection: protectionPolio, OffsetDays: 210},
		{ID: "malaria3", Name: "Malaria3", Series: "malaria", Dose: 3, Protection: protectionMalaria, OffsetDays: 270},
		{ID: "mr1", Name: "Measles-Rubella1", Series: "mr", Dose: 1, Protection: protectionMR, OffsetDays: 270},
		{ID: "vitamin_a_12m", Name: "Vitamin A", Series: "vitamin_a", Dose: 2, Protection: protectionVitaminA, OffsetDays: 365},

		// 18 months
		{ID: "malaria4", Name: "Malaria4", Series: "malaria", Dose: 4, Protection: protectionMalaria, OffsetDays: 540},
		{ID: "mr2", Name: "Measles-Rubella2", Series: "mr", Dose: 2, Protection: protectionMR, OffsetDays: 540},
		{ID: "llin", Name: "LLIN", Series: "llin", Dose: 1, Protection: "Malaria Prevention", OffsetDays: 540},
		{ID: "men_a", Name: "Men A", Series: "men_a", Dose: 1, Protection: "Meningitis A", OffsetDays: 540},
		{ID: "vitamin_a_18m", Name: "Vitamin A", Series: "vitamin_a", Dose: 3, Protection: protectionVitaminA, OffsetDays: 540},

		// six-monthly vitamin A to five years
		{ID: "vitamin_a_24m", Name: "Vitamin A", Series: "vitamin_a", Dose: 4, Protection: protectionVitaminA, OffsetDays: 720},
		{ID: "vitamin_a_30m", Name: "Vitamin A", Series: "vitamin_a", Dose: 5, Protection: protectionVitaminA, OffsetDays: 900},
		{ID: "vitamin_a_36m", Name: "Vitamin A", Series: "vitamin_a", Dose: 6, Protection: protectionVitaminA, OffsetDays: 1080},
		{ID: "vitamin_a_42m", Name: "Vitamin A", Series: "vitamin_a", Dose: 7, Protection: protectionVitaminA, OffsetDays: 1260},
		{ID: "vitamin_a_48m", Name: "Vitamin A", Series: "vitamin_a", Dose: 8, Protection: protectionVitaminA, OffsetDays: 1440},
		{ID: "vitamin_a_54m", Name: "Vitamin A", Series: "vitamin_a", Dose: 9, Protection: protectionVitaminA, OffsetDays: 1620},
		{ID: "vitamin_a_60m", Name: "Vitamin A", Series: "vitamin_a", Dose: 10, Protection: protectionVitaminA, OffsetDays: 1800},
	}
}

// Standard dropout pairs tracked by district health teams.
var (
	DropoutPenta  = DropoutPair{From: "penta1", To: "penta3"}
	DropoutBCGMR  = DropoutPair{From: "bcg", To: "mr1"}
	DropoutMR     = DropoutPair{From: "mr1", To: "mr2"}
	StandardPairs = []DropoutPair{DropoutPenta, DropoutBCGMR, DropoutMR}
)
