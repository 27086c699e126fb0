package snapshot

import "math"

// Calories per gram for protein, carbohydrates and fats.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFats    = 9
)

// Normalize repairs the macro record in place. If the three percentages are
// present but do not sum to 100 they are scaled proportionally, with fats
// taking the rounding remainder so the sum is exactly 100. When calories are
// known the gram targets are rederived from the percentages.
func (m *Macros) Normalize() {
	if m.ProteinPct == nil || m.CarbsPct == nil || m.FatsPct == nil {
		return
	}
	p, c, f := *m.ProteinPct, *m.CarbsPct, *m.FatsPct
	total := p + c + f
	if total <= 0 {
		return
	}
	if total != 100 {
		np := int(math.Round(float64(p) / float64(total) * 100))
		nc := int(math.Round(float64(c) / float64(total) * 100))
		nf := 100 - np - nc
		m.ProteinPct, m.CarbsPct, m.FatsPct = &np, &nc, &nf
	}
	if m.Calories != nil && *m.Calories > 0 {
		kcal := float64(*m.Calories)
		pg := int(math.Round(kcal * float64(*m.ProteinPct) / 100 / kcalPerGramProtein))
		cg := int(math.Round(kcal * float64(*m.CarbsPct) / 100 / kcalPerGramCarbs))
		fg := int(math.Round(kcal * float64(*m.FatsPct) / 100 / kcalPerGramFats))
		m.ProteinG, m.CarbsG, m.FatsG = &pg, &cg, &fg
	}
}

// SplitValid reports whether the three percentages are present and sum
// to 100.
func (m *Macros) SplitValid() bool {
	if m.ProteinPct == nil || m.CarbsPct == nil || m.FatsPct == nil {
		return false
	}
	return *m.ProteinPct+*m.CarbsPct+*m.FatsPct == 100
}
