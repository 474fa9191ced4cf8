package http

import (
	"github.com/AE2TML/app-compta-aetml/internal/core"
	"github.com/AE2TML/app-compta-aetml/internal/services"
)

// JSON views. Monetary figures are fixed two-decimal strings so
// clients never see float artifacts.

type yearView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func newYearView(y core.AccountingYear) yearView {
	return yearView{
		ID:    y.ID,
		Name:  y.Name,
		Start: y.Start.Format(core.DateFormat),
		End:   y.End.Format(core.DateFormat),
	}
}

type entryView struct {
	ID         int64  `json:"id"`
	Date       string `json:"date"`
	Journal    string `json:"journal"`
	Libelle    string `json:"libelle"`
	Category   string `json:"category"`
	Type       string `json:"type"`
	Amount     string `json:"amount"`
	YearID     int64  `json:"year_id"`
	Attachment string `json:"attachment,omitempty"`
}

func newEntryView(e core.Entry) entryView {
	return entryView{
		ID:         e.ID,
		Date:       e.Date.Format(core.DateFormat),
		Journal:    string(e.Journal),
		Libelle:    e.Libelle,
		Category:   e.Category,
		Type:       string(e.Type),
		Amount:     core.FormatAmount(e.Amount),
		YearID:     e.YearID,
		Attachment: e.AttachmentPath,
	}
}

type entryResultView struct {
	Entry     entryView `json:"entry"`
	CashDelta *string   `json:"cash_delta,omitempty"`
}

func newEntryResultView(res services.EntryResult) entryResultView {
	v := entryResultView{Entry: newEntryView(res.Entry)}
	if res.CashDelta != nil {
		delta := core.FormatAmount(*res.CashDelta)
		v.CashDelta = &delta
	}
	return v
}

type statementRowView struct {
	entryView
	Debit  string `json:"debit,omitempty"`
	Credit string `json:"credit,omitempty"`
	Solde  string `json:"solde"`
}

type statementView struct {
	Journal     string             `json:"journal"`
	Rows        []statementRowView `json:"rows"`
	TotalDebit  string             `json:"total_debit"`
	TotalCredit string             `json:"total_credit"`
	SoldeFinal  string             `json:"solde_final"`
}

func newStatementView(st core.Statement) statementView {
	v := statementView{
		Journal:     string(st.Journal),
		Rows:        make([]statementRowView, 0, len(st.Rows)),
		TotalDebit:  core.FormatAmount(st.TotalDebit),
		TotalCredit: core.FormatAmount(st.TotalCredit),
		SoldeFinal:  core.FormatAmount(st.FinalBalance),
	}
	for _, row := range st.Rows {
		rv := statementRowView{
			entryView: newEntryView(row.Entry),
			Solde:     core.FormatAmount(row.Balance),
		}
		if d, ok := row.Debit(); ok {
			rv.Debit = core.FormatAmount(d)
		}
		if c, ok := row.Credit(); ok {
			rv.Credit = core.FormatAmount(c)
		}
		v.Rows = append(v.Rows, rv)
	}
	return v
}

type dashboardView struct {
	SoldePoste    string `json:"solde_poste"`
	SoldeCaisse   string `json:"solde_caisse"`
	TotalRecettes string `json:"total_recettes"`
	TotalDepenses string `json:"total_depenses"`
	Benefice      string `json:"benefice"`
}

func newDashboardView(d core.Dashboard) dashboardView {
	return dashboardView{
		SoldePoste:    core.FormatAmount(d.SoldePoste),
		SoldeCaisse:   core.FormatAmount(d.SoldeCaisse),
		TotalRecettes: core.FormatAmount(d.TotalRecettes),
		TotalDepenses: core.FormatAmount(d.TotalDepenses),
		Benefice:      core.FormatAmount(d.Benefice),
	}
}

type cashLineView struct {
	Denomination string `json:"denomination"`
	Count        int    `json:"count"`
	Amount       string `json:"amount"`
}

type cashDetailView struct {
	Entry   entryView      `json:"entry"`
	Details []cashLineView `json:"details"`
	Total   string         `json:"total"`
	Delta   string         `json:"delta"`
}

func newCashDetailView(cv services.CashView) cashDetailView {
	v := cashDetailView{
		Entry:   newEntryView(cv.Entry),
		Details: make([]cashLineView, 0, len(cv.Details)),
		Total:   core.FormatAmount(cv.Total),
		Delta:   core.FormatAmount(cv.Delta),
	}
	for _, d := range cv.Details {
		v.Details = append(v.Details, cashLineView{
			Denomination: d.Denomination.String(),
			Count:        d.Count,
			Amount:       core.FormatAmount(d.Amount()),
		})
	}
	return v
}

type budgetLineView struct {
	Category string `json:"category"`
	Budget   string `json:"budget"`
	Actual   string `json:"actual"`
	Diff     string `json:"diff"`
}

type budgetSectionView struct {
	Title       string           `json:"title"`
	Lines       []budgetLineView `json:"lines"`
	TotalBudget string           `json:"total_budget"`
	TotalActual string           `json:"total_actual"`
	TotalDiff   string           `json:"total_diff"`
}

type budgetView struct {
	Recettes         budgetSectionView `json:"recettes"`
	Depenses         budgetSectionView `json:"depenses"`
	ResultatBudgeted string            `json:"resultat_budgete"`
	ResultatActual   string            `json:"resultat_reel"`
}

func newBudgetSectionView(s core.BudgetSection) budgetSectionView {
	v := budgetSectionView{
		Title:       s.Title,
		Lines:       make([]budgetLineView, 0, len(s.Lines)),
		TotalBudget: core.FormatAmount(s.TotalBudget),
		TotalActual: core.FormatAmount(s.TotalActual),
		TotalDiff:   core.FormatAmount(s.TotalDiff()),
	}
	for _, l := range s.Lines {
		v.Lines = append(v.Lines, budgetLineView{
			Category: l.Category,
			Budget:   core.FormatAmount(l.Budget),
			Actual:   core.FormatAmount(l.Actual),
			Diff:     core.FormatAmount(l.Diff),
		})
	}
	return v
}

func newBudgetView(bv core.BudgetVariance) budgetView {
	return budgetView{
		Recettes:         newBudgetSectionView(bv.Recettes),
		Depenses:         newBudgetSectionView(bv.Depenses),
		ResultatBudgeted: core.FormatAmount(bv.ResultatBudgeted),
		ResultatActual:   core.FormatAmount(bv.ResultatActual),
	}
}
