package extract

import (
	"strings"

	"github.com/gpro-labs/presupuesto-cli/internal/model"
	"github.com/gpro-labs/presupuesto-cli/internal/numeric"
	"github.com/gpro-labs/presupuesto-cli/internal/rubro"
	"github.com/gpro-labs/presupuesto-cli/internal/sheet"
)

// Extractor turns validated rows into budget items. The classifier and
// confidence weights are injected once and never mutated, so a single
// Extractor serves concurrent requests.
type Extractor struct {
	classifier *rubro.Classifier
	weights    model.ConfidenceWeights
}

// NewExtractor builds an Extractor. A nil classifier selects the default
// vocabulary; zero weights select the default tier weights.
func NewExtractor(classifier *rubro.Classifier, weights model.ConfidenceWeights) *Extractor {
	if classifier == nil {
		classifier = rubro.NewClassifier(nil)
	}
	if weights == (model.ConfidenceWeights{}) {
		weights = model.DefaultConfidenceWeights()
	}
	return &Extractor{classifier: classifier, weights: weights}
}

// ExtractItem builds a BudgetItem from one row. Returns false only when no
// usable description survives all fallback column probing.
func (e *Extractor) ExtractItem(s sheet.RawSheet, row int, m sheet.ColumnMapping) (model.BudgetItem, bool) {
	activityCol, _ := m.Col(sheet.RoleActivity)
	activity := strings.TrimSpace(s.Cell(row, activityCol))
	if !ValidActivity(activity) {
		return model.BudgetItem{}, false
	}

	name := e.itemDescription(s, row, m, activity)
	if name == "" {
		return model.BudgetItem{}, false
	}

	item := model.BudgetItem{
		Name:        name,
		Activity:    activity,
		SourceSheet: s.Name,
		// Spreadsheet rows are 1-based and include the header.
		SourceRow: row + 1,
		Quantity:  1,
		Period:    1,
	}

	qtyKnown := false
	if col, ok := m.Col(sheet.RoleQuantity); ok {
		if v, ok := numeric.ParsePositive(s.Cell(row, col)); ok {
			item.Quantity = v
			qtyKnown = true
		}
	}

	unitKnown := false
	if col, ok := m.Col(sheet.RoleUnitValue); ok {
		if v, ok := numeric.ParsePositive(s.Cell(row, col)); ok {
			item.UnitValue = v
			unitKnown = true
		}
	}

	// Back-compute the unit value when only an aggregate total exists.
	if !unitKnown {
		if col, ok := m.Col(sheet.RoleTotalValue); ok {
			if total, ok := numeric.ParsePositive(s.Cell(row, col)); ok && item.Quantity > 0 {
				item.UnitValue = total / item.Quantity
				unitKnown = true
			}
		}
	}

	item.NeedsEstimation = !qtyKnown || !unitKnown
	if item.UnitValue > 0 {
		item.TotalValue = item.Quantity * item.UnitValue
	}

	if col, ok := m.Col(sheet.RoleJustification); ok {
		item.Justification = strings.TrimSpace(s.Cell(row, col))
	}
	if col, ok := m.Col(sheet.RoleSpecifications); ok {
		item.Specifications = strings.TrimSpace(s.Cell(row, col))
	}
	if col, ok := m.Col(sheet.RolePeriod); ok {
		if v, ok := numeric.ParsePositive(s.Cell(row, col)); ok {
			item.Period = v
		}
	}

	explicit := ""
	if col, ok := m.Col(sheet.RoleRubro); ok {
		explicit = s.Cell(row, col)
	}
	item.Rubro = e.classifier.Resolve(explicit, name+" "+activity, s.Name)

	if unitKnown {
		item.Confidence = e.weights.Direct
	}

	return item, true
}

// itemDescription resolves the best description for a row: the sheet's
// designated description column first, then any other column holding
// meaningful text, then the activity cell itself.
func (e *Extractor) itemDescription(s sheet.RawSheet, row int, m sheet.ColumnMapping, activity string) string {
	desc := ""
	if m.Description >= 0 {
		desc = strings.TrimSpace(s.Cell(row, m.Description))
	}
	if meaningfulText(desc) {
		return desc
	}

	mapped := mappedColumns(m)
	for col := range m.Header {
		if col == m.Description || mapped[col] {
			continue
		}
		if strings.HasPrefix(strings.ToLower(m.HeaderAt(col)), "unnamed") {
			continue
		}
		v := strings.TrimSpace(s.Cell(row, col))
		if meaningfulText(v) {
			return v
		}
	}

	return activity
}

// meaningfulText reports whether a cell holds descriptive text rather than
// a bare code or number: longer than three characters and not purely
// numeric.
func meaningfulText(s string) bool {
	if len([]rune(s)) <= 3 {
		return false
	}
	stripped := strings.NewReplacer(".", "", ",", "", " ", "").Replace(s)
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return true
		}
	}
	return false
}

func mappedColumns(m sheet.ColumnMapping) map[int]bool {
	mapped := make(map[int]bool)
	for _, role := range []sheet.Role{
		sheet.RoleActivity, sheet.RoleQuantity, sheet.RoleUnitValue,
		sheet.RoleTotalValue, sheet.RoleJustification,
		sheet.RoleSpecifications, sheet.RolePeriod, sheet.RoleRubro,
	} {
		if col, ok := m.Col(role); ok {
			mapped[col] = true
		}
	}
	return mapped
}
